//go:build !linux && !darwin

package main

// enableKeypress is a no-op where the console cannot be switched out of
// line mode; keys take effect after Enter.
func enableKeypress(fd int) func() {
	return func() {}
}
