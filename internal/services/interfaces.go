package services

import (
	"context"
	"time"

	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/tracks"
)

// BuilderServicer defines the interface for ticket builder commands
type BuilderServicer interface {
	State(ctx context.Context) *StateView
	AddPlay(ctx context.Context) (*StateView, error)
	UpdatePlay(ctx context.Context, id int64, upd PlayUpdate) (*StateView, error)
	DeletePlay(ctx context.Context, id int64) (*StateView, error)
	DeleteSelected(ctx context.Context, ids []int64) (*StateView, error)
	Reset(ctx context.Context) (*StateView, error)
	ImportPlays(ctx context.Context, candidates []models.Candidate) (*ImportResult, error)
	SetTracks(ctx context.Context, ids []string) (*StateView, error)
	SetPulitoPositions(ctx context.Context, positions []int) (*StateView, error)
	SetDates(ctx context.Context, dates []string) (*StateView, error)
	CopyWagers(ctx context.Context, id int64) (*StateView, error)
	PasteWagers(ctx context.Context, ids []int64) (*StateView, error)
	SetBroadcaster(b Broadcaster)
	Now() time.Time
	Catalog() *tracks.Catalog
	MaxPlays() int
}

// TicketServicer defines the interface for ticket issuance and lookup
type TicketServicer interface {
	Validate(ctx context.Context) []string
	GenerateTicket(ctx context.Context) (*models.Ticket, error)
	GetTicket(ctx context.Context, number string) (*models.Ticket, error)
	ListTickets(ctx context.Context, limit int) ([]models.Ticket, error)
	TicketQR(ctx context.Context, number string) ([]byte, error)
	BaseURL() string
	SetBaseURL(url string)
	SetBroadcaster(b Broadcaster)
}

// ImportServicer defines the interface for interpretation imports
type ImportServicer interface {
	Available() bool
	InterpretImage(ctx context.Context, imageBase64 string) (*ImportResult, error)
	InterpretText(ctx context.Context, prompt string) (*ImportResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ BuilderServicer = (*BuilderService)(nil)
	_ TicketServicer  = (*TicketService)(nil)
	_ ImportServicer  = (*ImportService)(nil)
)
