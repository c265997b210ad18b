package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/abrezinsky/beastreader/internal/services"
)

// ==================== Builder State ====================

func (h *Handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Builder.State(r.Context()))
}

func (h *Handlers) handleGetTracks(w http.ResponseWriter, r *http.Request) {
	state := h.Builder.State(r.Context())
	now := h.Builder.Now()
	catalog := h.Builder.Catalog()

	respondOK(w, TracksResponse{
		Now:        now.Format(time.RFC3339),
		Timezone:   catalog.Location().String(),
		Categories: catalog.List(now, slices.Contains(state.SelectedDates, state.Today)),
	})
}

func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	state, err := h.Builder.Reset(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

// ==================== Plays ====================

func (h *Handlers) handleAddPlay(w http.ResponseWriter, r *http.Request) {
	state, err := h.Builder.AddPlay(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, state)
}

func (h *Handlers) handleUpdatePlay(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req PlayUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.UpdatePlay(r.Context(), id, services.PlayUpdate{
		BetNumber:      req.BetNumber,
		StraightAmount: req.StraightAmount,
		BoxAmount:      req.BoxAmount,
		ComboAmount:    req.ComboAmount,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleDeletePlay(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.DeletePlay(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	var req PlayIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.DeleteSelected(r.Context(), req.IDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleImportPlays(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if len(req.Plays) == 0 {
		respondError(w, BadRequest("No plays to import"))
		return
	}

	result, err := h.Builder.ImportPlays(r.Context(), req.Plays)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleCopyWagers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.CopyWagers(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handlePasteWagers(w http.ResponseWriter, r *http.Request) {
	var req PlayIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.PasteWagers(r.Context(), req.IDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

// ==================== Selection ====================

func (h *Handlers) handleSetTracks(w http.ResponseWriter, r *http.Request) {
	var req TracksRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.SetTracks(r.Context(), req.Tracks)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleSetPulito(w http.ResponseWriter, r *http.Request) {
	var req PulitoRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.SetPulitoPositions(r.Context(), req.Positions)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleSetDates(w http.ResponseWriter, r *http.Request) {
	var req DatesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	state, err := h.Builder.SetDates(r.Context(), req.Dates)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}
