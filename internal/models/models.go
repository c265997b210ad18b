package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModeInvalid is the game mode of a play whose bet number cannot be classified
const ModeInvalid = "-"

// Play represents one row of the ticket builder
type Play struct {
	ID             int64            `json:"id"`
	BetNumber      string           `json:"bet_number"`
	GameMode       string           `json:"game_mode"`
	StraightAmount *decimal.Decimal `json:"straight_amount"`
	BoxAmount      *decimal.Decimal `json:"box_amount"`
	ComboAmount    *decimal.Decimal `json:"combo_amount"`
}

// HasWager reports whether at least one amount is strictly positive
func (p Play) HasWager() bool {
	for _, amt := range []*decimal.Decimal{p.StraightAmount, p.BoxAmount, p.ComboAmount} {
		if amt != nil && amt.IsPositive() {
			return true
		}
	}
	return false
}

// Track is one drawing a ticket can be placed on
type Track struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"-"`
	Cutoff    string `json:"cutoff,omitempty" yaml:"cutoff"` // local "HH:MM", empty means no cutoff
	Specialty bool   `json:"specialty" yaml:"specialty"`
}

// TrackCategory groups tracks for display
type TrackCategory struct {
	Name   string  `json:"name" yaml:"name"`
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

// CopiedWagers is a snapshot of one play's amounts. A nil field is not pasted.
type CopiedWagers struct {
	StraightAmount *decimal.Decimal `json:"straight_amount"`
	BoxAmount      *decimal.Decimal `json:"box_amount"`
	ComboAmount    *decimal.Decimal `json:"combo_amount"`
}

// Candidate is a play handed to the builder by an import source
type Candidate struct {
	BetNumber      string           `json:"betNumber"`
	StraightAmount *decimal.Decimal `json:"straightAmount"`
	BoxAmount      *decimal.Decimal `json:"boxAmount"`
	ComboAmount    *decimal.Decimal `json:"comboAmount"`
}

// BuilderState is the persisted record of the ticket builder
type BuilderState struct {
	Plays           []Play        `json:"plays"`
	SelectedTracks  []string      `json:"selected_tracks"`
	SelectedDates   []string      `json:"selected_dates"`
	CopiedWagers    *CopiedWagers `json:"copied_wagers"`
	PulitoPositions []int         `json:"pulito_positions"`
	NextPlayID      int64         `json:"next_play_id"`
}

// TicketPlay is a play as printed on an issued ticket
type TicketPlay struct {
	Position       int             `json:"position"`
	BetNumber      string          `json:"bet_number"`
	GameMode       string          `json:"game_mode"`
	StraightAmount decimal.Decimal `json:"straight_amount"`
	BoxAmount      decimal.Decimal `json:"box_amount"`
	ComboAmount    decimal.Decimal `json:"combo_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Ticket is an issued ticket. It is never modified after creation.
type Ticket struct {
	Number          string          `json:"number"`
	IssuedAt        time.Time       `json:"issued_at"`
	Dates           []string        `json:"dates"`
	Tracks          []string        `json:"tracks"`
	PulitoPositions []int           `json:"pulito_positions,omitempty"`
	Plays           []TicketPlay    `json:"plays"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
