package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	origins := h.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Static files and pages (only when templates are loaded)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}
	if h.templates != nil {
		r.Get("/", h.handleIndex)
		r.Get("/tickets/{number}", h.handleReceiptPage)
	}

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		// Builder
		r.Get("/state", h.handleGetState)
		r.Get("/tracks", h.handleGetTracks)
		r.Post("/reset", h.handleReset)

		// Plays
		r.Post("/plays", h.handleAddPlay)
		r.Put("/plays/{id}", h.handleUpdatePlay)
		r.Delete("/plays/{id}", h.handleDeletePlay)
		r.Post("/plays/delete", h.handleDeleteSelected)
		r.Post("/plays/import", h.handleImportPlays)
		r.Post("/plays/{id}/copy-wagers", h.handleCopyWagers)
		r.Post("/plays/paste-wagers", h.handlePasteWagers)

		// Selection
		r.Put("/selection/tracks", h.handleSetTracks)
		r.Put("/selection/pulito", h.handleSetPulito)
		r.Put("/selection/dates", h.handleSetDates)

		// Tickets
		r.Get("/tickets/validate", h.handleValidateTicket)
		r.Post("/tickets", h.handleGenerateTicket)
		r.Get("/tickets/{number}", h.handleGetTicket)
		r.Get("/tickets/{number}/qr", h.handleTicketQR)

		// Interpretation
		r.Get("/interpret", h.handleInterpreterStatus)
		r.Post("/interpret/image", h.handleInterpretImage)
		r.Post("/interpret/text", h.handleInterpretText)

		// Operator
		r.Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)
			r.Get("/admin/tickets", h.handleListTickets)
		})
	})

	return r
}
