package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/beastreader/internal/models"
)

func (h *Handlers) ticketResponse(t *models.Ticket) TicketResponse {
	return TicketResponse{
		Ticket:     t,
		ReceiptURL: h.Tickets.BaseURL() + "/tickets/" + t.Number,
		QRURL:      "/api/tickets/" + t.Number + "/qr",
	}
}

// ==================== Tickets ====================

func (h *Handlers) handleValidateTicket(w http.ResponseWriter, r *http.Request) {
	problems := h.Tickets.Validate(r.Context())
	if len(problems) > 0 {
		respondError(w, TicketInvalid(problems))
		return
	}
	respondSuccess(w, "Ticket is ready to issue")
}

func (h *Handlers) handleGenerateTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Tickets.GenerateTicket(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, h.ticketResponse(ticket))
}

func (h *Handlers) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Tickets.GetTicket(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, h.ticketResponse(ticket))
}

func (h *Handlers) handleTicketQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Tickets.TicketQR(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

// ==================== Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, h.Builder.State(r.Context()))
}

func (h *Handlers) handleReceiptPage(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Tickets.GetTicket(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		apiErr := ToAPIError(err)
		http.Error(w, apiErr.Message, apiErr.Status)
		return
	}
	if err := h.renderReceipt(w, r, ticket); err != nil {
		http.Error(w, "Failed to render receipt", http.StatusInternalServerError)
	}
}
