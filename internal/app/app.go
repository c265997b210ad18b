package app

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/beastreader/internal/auth"
	"github.com/abrezinsky/beastreader/internal/handlers"
	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/repository"
	"github.com/abrezinsky/beastreader/internal/services"
	"github.com/abrezinsky/beastreader/internal/tracks"
	"github.com/abrezinsky/beastreader/internal/websocket"
	"github.com/abrezinsky/beastreader/pkg/interpreter"
)

// DefaultCutoffInterval is how often connected clients get fresh track countdowns
const DefaultCutoffInterval = 30 * time.Second

// Config holds the startup options of the application
type Config struct {
	DBPath         string
	TracksPath     string // empty means the built-in catalog
	MaxPlays       int    // zero means services.DefaultMaxPlays
	BaseURL        string // empty means detected from the LAN address
	AllowedOrigins []string
	CutoffInterval time.Duration
}

// App holds all application dependencies
type App struct {
	log         logger.Logger
	handlers    *handlers.Handlers
	repo        *repository.Repository
	tickets     *services.TicketService
	hub         *websocket.Hub
	baseURL     string
	cancelWatch context.CancelFunc
}

// New creates and initializes a new application instance. client may be nil
// when no interpretation service is configured.
func New(log logger.Logger, cfg Config, client interpreter.Client, templatesFS, staticFS fs.FS, operatorAuth *auth.Auth) (*App, error) {
	catalog, err := loadCatalog(cfg.TracksPath)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	builder := services.NewBuilderService(log, repo, catalog)
	if cfg.MaxPlays > 0 {
		builder.SetMaxPlays(cfg.MaxPlays)
	}
	if err := builder.Load(context.Background()); err != nil {
		repo.Close()
		return nil, err
	}
	tickets := services.NewTicketService(log, repo, builder)
	imports := services.NewImportService(log, client, builder)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, builder)
	hub.Start()
	builder.SetBroadcaster(hub)
	tickets.SetBroadcaster(hub)

	// Start cutoff watch with context for graceful shutdown
	interval := cfg.CutoffInterval
	if interval <= 0 {
		interval = DefaultCutoffInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	go hub.StartCutoffWatch(ctx, interval)

	// Create static file server
	staticServer := handlers.NewStaticServer(staticFS)

	// Initialize handlers with hub
	h, err := handlers.New(
		builder,
		tickets,
		imports,
		templatesFS,
		staticServer,
		operatorAuth,
		hub,
		log,
	)
	if err != nil {
		cancel() // Clean up cutoff watch goroutine
		hub.Stop()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	h.AllowedOrigins = cfg.AllowedOrigins

	return &App{
		log:         log,
		handlers:    h,
		repo:        repo,
		tickets:     tickets,
		hub:         hub,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		cancelWatch: cancel,
	}, nil
}

func loadCatalog(path string) (*tracks.Catalog, error) {
	if path == "" {
		return tracks.Default()
	}
	return tracks.Load(path)
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelWatch != nil {
		a.cancelWatch()
		a.cancelWatch = nil
	}
	if a.hub != nil {
		a.hub.Stop()
		a.hub = nil
	}
	if a.repo != nil {
		a.repo.Close()
		a.repo = nil
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	baseURL := a.baseURL
	if baseURL == "" {
		// Detected LAN IP, so receipts scanned from a phone resolve
		ip := getPreferredIP(realNetworkProvider{})
		baseURL = fmt.Sprintf("http://%s%s", ip, addr)
	}
	a.tickets.SetBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	return http.ListenAndServe(addr, a.Router())
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the address receipts should link to: the first
// private IPv4 address (RFC 1918), else any other non-loopback IPv4 address,
// else localhost.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var fallback net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ip := ipOf(addr).To4()
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if fallback == nil {
				fallback = ip
			}
		}
	}

	if fallback != nil {
		return fallback.String()
	}
	return "localhost"
}

func ipOf(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}
	return nil
}
