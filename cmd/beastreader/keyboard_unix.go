//go:build linux || darwin

package main

import (
	"golang.org/x/sys/unix"
)

// enableKeypress turns off line buffering and echo so single key presses
// are delivered without Enter. Output processing stays on so log lines
// still end with a carriage return. The returned func restores the terminal.
func enableKeypress(fd int) func() {
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return func() {}
	}

	state := *old
	state.Lflag &^= unix.ICANON | unix.ECHO
	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &state); err != nil {
		return func() {}
	}

	return func() {
		unix.IoctlSetTermios(fd, ioctlSetTermios, old)
	}
}
