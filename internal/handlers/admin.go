package handlers

import (
	"net/http"
	"strconv"

	"github.com/abrezinsky/beastreader/internal/auth"
)

// ==================== Operator Session ====================

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// ==================== Ticket Archive ====================

func (h *Handlers) handleListTickets(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, BadRequest("Invalid limit parameter"))
			return
		}
		limit = n
	}

	tickets, err := h.Tickets.ListTickets(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TicketListResponse{Tickets: tickets, Count: len(tickets)})
}
