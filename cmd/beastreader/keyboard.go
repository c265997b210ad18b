package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/beastreader/internal/browser"
	"github.com/abrezinsky/beastreader/internal/logger"
)

// listenForKeyboard reads single key presses from stdin and performs actions.
// It returns immediately when stdin is not a terminal.
func listenForKeyboard(builderURL string, appLog *logger.SlogLogger) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		appLog.Debug("Stdin is not a terminal, keyboard shortcuts disabled")
		return
	}

	restore := enableKeypress(fd)
	defer restore()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		if quit := handleKey(buf[0], builderURL, appLog); quit {
			fmt.Printf("%sShutting down server...%s\n", yellow, reset)
			restore()
			os.Exit(0)
		}
	}
}

// handleKey performs the action bound to key and reports whether to quit
func handleKey(key byte, builderURL string, appLog *logger.SlogLogger) bool {
	switch strings.ToLower(string(key)) {
	case "o":
		fmt.Printf("%sOpening ticket builder in browser...%s\n", cyan, reset)
		if err := browser.Open(builderURL); err != nil {
			fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(appLog)
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // Ctrl+C
		return true
	}
	return false
}
