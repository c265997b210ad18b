package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/beastreader/internal/auth"
	"github.com/abrezinsky/beastreader/internal/services"
	"github.com/abrezinsky/beastreader/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index   *template.Template
	Receipt *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Builder        services.BuilderServicer
	Tickets        services.TicketServicer
	Import         services.ImportServicer
	Auth           *auth.Auth
	Hub            *websocket.Hub
	Log            HTTPLogger
	AllowedOrigins []string
	templates      *Templates
	staticServer   http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	builder services.BuilderServicer,
	tickets services.TicketServicer,
	imports services.ImportServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	operatorAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Builder:      builder,
		Tickets:      tickets,
		Import:       imports,
		Auth:         operatorAuth,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	builder services.BuilderServicer,
	tickets services.TicketServicer,
	imports services.ImportServicer,
) *Handlers {
	return &Handlers{
		Builder: builder,
		Tickets: tickets,
		Import:  imports,
		Auth:    auth.New("test-password"),
		Log:     NoopHTTPLogger{},
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Receipt, err = template.New("ticket.html").Funcs(receiptFuncs).ParseFS(templatesFS, "ticket.html"); err != nil {
		return nil, fmt.Errorf("ticket template: %w", err)
	}

	return t, nil
}
