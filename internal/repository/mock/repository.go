package mock

import (
	"context"
	"sync"

	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveStateError = errors.New("database error")
//	svc := services.NewBuilderService(log, mockRepo, catalog, nil)
//	_, err := svc.AddPlay(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== State Errors =====
	LoadStateError  error
	SaveStateError  error
	ClearStateError error

	// ===== Ticket Errors =====
	CreateTicketError error
	GetTicketError    error
	ListTicketsError  error
	TicketExistsError error

	// DuplicateTickets makes the next N CreateTicket calls report a number collision
	DuplicateTickets int

	mu        sync.Mutex
	saveCount int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// SaveCount reports how many snapshots were written successfully
func (m *Repository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

// ===== State Methods =====

func (m *Repository) LoadState(ctx context.Context) (*models.BuilderState, error) {
	if m.LoadStateError != nil {
		return nil, m.LoadStateError
	}
	return m.FullRepository.LoadState(ctx)
}

func (m *Repository) SaveState(ctx context.Context, state *models.BuilderState) error {
	if m.SaveStateError != nil {
		return m.SaveStateError
	}
	if err := m.FullRepository.SaveState(ctx, state); err != nil {
		return err
	}
	m.mu.Lock()
	m.saveCount++
	m.mu.Unlock()
	return nil
}

func (m *Repository) ClearState(ctx context.Context) error {
	if m.ClearStateError != nil {
		return m.ClearStateError
	}
	return m.FullRepository.ClearState(ctx)
}

// ===== Ticket Methods =====

func (m *Repository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if m.CreateTicketError != nil {
		return m.CreateTicketError
	}
	m.mu.Lock()
	if m.DuplicateTickets > 0 {
		m.DuplicateTickets--
		m.mu.Unlock()
		return repository.ErrDuplicateTicket
	}
	m.mu.Unlock()
	return m.FullRepository.CreateTicket(ctx, ticket)
}

func (m *Repository) GetTicket(ctx context.Context, number string) (*models.Ticket, error) {
	if m.GetTicketError != nil {
		return nil, m.GetTicketError
	}
	return m.FullRepository.GetTicket(ctx, number)
}

func (m *Repository) ListTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	if m.ListTicketsError != nil {
		return nil, m.ListTicketsError
	}
	return m.FullRepository.ListTickets(ctx, limit)
}

func (m *Repository) TicketExists(ctx context.Context, number string) (bool, error) {
	if m.TicketExistsError != nil {
		return false, m.TicketExistsError
	}
	return m.FullRepository.TicketExists(ctx, number)
}
