package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/models"
)

// PlayUpdateRequest represents a request to edit a play. A null or missing
// amount is not wagered.
type PlayUpdateRequest struct {
	BetNumber      string           `json:"bet_number"`
	StraightAmount *decimal.Decimal `json:"straight_amount"`
	BoxAmount      *decimal.Decimal `json:"box_amount"`
	ComboAmount    *decimal.Decimal `json:"combo_amount"`
}

// PlayIDsRequest lists the plays a bulk command applies to
type PlayIDsRequest struct {
	IDs []int64 `json:"ids"`
}

// ImportRequest carries candidate plays from a manual or wizard import
type ImportRequest struct {
	Plays []models.Candidate `json:"plays"`
}

// TracksRequest replaces the track selection
type TracksRequest struct {
	Tracks []string `json:"tracks"`
}

// PulitoRequest replaces the Pulito positions
type PulitoRequest struct {
	Positions []int `json:"positions"`
}

// DatesRequest replaces the selected dates
type DatesRequest struct {
	Dates []string `json:"dates"`
}

// InterpretImageRequest carries a base64 ticket photo
type InterpretImageRequest struct {
	Image string `json:"image"`
}

// InterpretTextRequest carries a free-text prompt
type InterpretTextRequest struct {
	Prompt string `json:"prompt"`
}

// LoginRequest carries the operator password
type LoginRequest struct {
	Password string `json:"password"`
}
