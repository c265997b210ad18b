package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/abrezinsky/beastreader/internal/app"
	"github.com/abrezinsky/beastreader/internal/auth"
	"github.com/abrezinsky/beastreader/internal/browser"
	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/services"
	"github.com/abrezinsky/beastreader/pkg/interpreter"
	"github.com/abrezinsky/beastreader/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

// showStartupBanner displays the logo, then draws four balls
func showStartupBanner(skipDraw bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"   ___                 _   ___              _           ",
		"  | _ ) ___ __ _ ___ _| |_| _ \\___ __ _ __| |___ _ _   ",
		"  | _ \\/ -_) _` (_-<|_   _|   / -_) _` / _` / -_) '_|  ",
		"  |___/\\___\\__,_/__/  |_| |_|_\\___\\__,_\\__,_\\___|_|    ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-62s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	if skipDraw {
		fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
		return
	}
	fmt.Printf("  %s╠%s╣%s\n", cyan, border, reset)

	balls := make([]int, 4)
	for frame := 0; frame < 16; frame++ {
		settled := frame / 4
		for i := range balls {
			if i >= settled {
				balls[i] = rand.IntN(10)
			}
		}
		row := ""
		for i, b := range balls {
			color := cyan
			if i < settled || frame == 15 {
				color = green
			}
			row += fmt.Sprintf("  %s(%d)%s", color, b, reset)
		}
		// Each ball takes five visible columns
		fmt.Printf("%s  %s║%s%s%s║%s\n", clearLine, cyan, row, strings.Repeat(" ", width-4*5), cyan, reset)
		if frame < 15 {
			fmt.Printf(moveUp, 1)
		}
		time.Sleep(80 * time.Millisecond)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

var (
	version = "dev"
)

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	next := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
	}[appLog.GetLevel().String()]
	if next == "" {
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %so%s      - Open the ticket builder in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

// splitList parses a comma separated flag value
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "beastreader.db", "SQLite database path")
	tracksPath := flag.String("tracks", "", "Track catalog YAML file (built-in catalog if not set)")
	interpreterURL := flag.String("interpreter", "", "Interpretation service URL (imports by photo or prompt disabled if not set)")
	maxPlays := flag.Int("maxplays", services.DefaultMaxPlays, "Maximum plays on one ticket")
	baseURL := flag.String("baseurl", "", "Public URL printed on receipts (detected LAN address if not set)")
	origins := flag.String("origins", "", "Comma separated CORS origins (any origin if not set)")
	adminPw := flag.String("adminpw", "", "Operator password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("logformat", "text", "Log format (text, json)")
	openBrowser := flag.Bool("open", false, "Open the ticket builder in the browser on start")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip the ball draw")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `BeastReader - Numbers Game Ticket Builder

Usage:
  beastreader [options]

Options:
  -port int          HTTP server port (default 8080)
  -db string         SQLite database path (default "beastreader.db")
  -tracks string     Track catalog YAML file (built-in catalog if not set)
  -interpreter url   Interpretation service URL (photo and prompt imports)
  -maxplays int      Maximum plays on one ticket (default %d)
  -baseurl url       Public URL printed on receipts (detected if not set)
  -origins list      Comma separated CORS origins (any if not set)
  -adminpw str       Operator password (auto-generated if not set)
  -loglevel str      Log level: debug, info, warn, error (default "info")
  -logformat str     Log format: text, json (default "text")
  -open              Open the ticket builder in the browser on start
  -noanimate         Show logo only, skip the ball draw
  -nokeyboard        Disable keyboard shortcuts
  -version           Show version and exit
  -help              Show this help message

Keyboard Shortcuts (when enabled):
  o                  Open the ticket builder in browser
  h                  Toggle HTTP request logging
  l                  Cycle log level (debug → info → warn → error)
  q                  Quit server
  ?                  Show keyboard help

Examples:
  beastreader                                    # Run on port 8080 with beastreader.db
  beastreader -port 9000                         # Run on port 9000
  beastreader -tracks /etc/beastreader/tracks.yaml
  beastreader -interpreter http://localhost:7070 # Enable photo and prompt imports
  beastreader -logformat json -nokeyboard        # Run as a service

`, services.DefaultMaxPlays)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("beastreader %s\n", version)
		os.Exit(0)
	}

	showStartupBanner(*noAnimate || *noKeyboard)

	// Setup operator authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	operatorAuth := auth.New(password)

	// Create logger with specified level and format
	appLog := logger.NewWithWriter(os.Stdout, logger.ParseLevel(*logLevel), logger.ParseFormat(*logFormat))

	// The interpretation service is optional
	var client interpreter.Client
	if *interpreterURL != "" {
		client = interpreter.NewHTTPClient(*interpreterURL, appLog)
		appLog.Info("Interpretation service configured", "url", *interpreterURL)
	}

	cfg := app.Config{
		DBPath:         *dbPath,
		TracksPath:     *tracksPath,
		MaxPlays:       *maxPlays,
		BaseURL:        *baseURL,
		AllowedOrigins: splitList(*origins),
	}
	a, err := app.New(appLog, cfg, client, web.GetTemplatesFS(), web.GetStaticFS(), operatorAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Operator password", "password", password)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	builderURL := fmt.Sprintf("http://localhost:%d/", *port)
	if *openBrowser {
		if err := browser.Open(builderURL); err != nil {
			appLog.Warn("Could not open browser", "error", err)
		}
	}

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(builderURL, appLog)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}
