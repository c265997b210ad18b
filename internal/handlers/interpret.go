package handlers

import (
	"net/http"
)

// ==================== Interpretation ====================

func (h *Handlers) handleInterpreterStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, InterpreterStatusResponse{Available: h.Import.Available()})
}

func (h *Handlers) handleInterpretImage(w http.ResponseWriter, r *http.Request) {
	var req InterpretImageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Import.InterpretImage(r.Context(), req.Image)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleInterpretText(w http.ResponseWriter, r *http.Request) {
	var req InterpretTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Import.InterpretText(r.Context(), req.Prompt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}
