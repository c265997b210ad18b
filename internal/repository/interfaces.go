package repository

import (
	"context"

	"github.com/abrezinsky/beastreader/internal/models"
)

// StateRepository persists the ticket builder snapshot. Loads replace the
// whole record and saves overwrite it.
type StateRepository interface {
	LoadState(ctx context.Context) (*models.BuilderState, error)
	SaveState(ctx context.Context, state *models.BuilderState) error
	ClearState(ctx context.Context) error
}

// TicketRepository stores issued tickets
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, number string) (*models.Ticket, error)
	ListTickets(ctx context.Context, limit int) ([]models.Ticket, error)
	TicketExists(ctx context.Context, number string) (bool, error)
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	StateRepository
	TicketRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
