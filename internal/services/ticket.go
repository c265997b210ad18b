package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/beastreader/internal/errors"
	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/repository"
	"github.com/abrezinsky/beastreader/internal/wager"
)

const maxTicketNumberAttempts = 5

// TicketService issues tickets from the builder state and serves the archive
type TicketService struct {
	log         logger.Logger
	repo        repository.TicketRepository
	builder     *BuilderService
	broadcaster Broadcaster
	newNumber   func() string

	mu      sync.RWMutex
	baseURL string
}

// NewTicketService creates a new TicketService
func NewTicketService(log logger.Logger, repo repository.TicketRepository, builder *BuilderService) *TicketService {
	return &TicketService{
		log:       log,
		repo:      repo,
		builder:   builder,
		newNumber: NewTicketNumber,
	}
}

// SetBroadcaster sets the broadcaster for announcing issued tickets
func (s *TicketService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetBaseURL sets the public address printed into ticket QR codes
func (s *TicketService) SetBaseURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimSuffix(url, "/")
}

// BaseURL returns the public address, empty when unknown
func (s *TicketService) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// NewTicketNumber returns a fresh random ticket number
func NewTicketNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "T-" + strings.ToUpper(id[:8])
}

// Validate runs the pre-issuance checks against the current builder state
func (s *TicketService) Validate(ctx context.Context) []string {
	st := s.builder.Snapshot()
	return wager.Validate(wager.ValidationInput{
		Plays:  st.Plays,
		Tracks: st.SelectedTracks,
		Dates:  st.SelectedDates,
		Now:    s.builder.Now(),
	}, s.builder.Catalog())
}

// GenerateTicket validates the builder state and, when it passes, issues
// and archives a ticket. Validation failures are returned as a
// *TicketValidationError listing every problem.
func (s *TicketService) GenerateTicket(ctx context.Context) (*models.Ticket, error) {
	st := s.builder.Snapshot()
	now := s.builder.Now()

	problems := wager.Validate(wager.ValidationInput{
		Plays:  st.Plays,
		Tracks: st.SelectedTracks,
		Dates:  st.SelectedDates,
		Now:    now,
	}, s.builder.Catalog())
	if len(problems) > 0 {
		s.log.Info("Ticket rejected", "problems", len(problems))
		return nil, &TicketValidationError{Problems: problems}
	}

	ticket := &models.Ticket{
		IssuedAt: now,
		Dates:    slices.Clone(st.SelectedDates),
		Tracks:   slices.Clone(st.SelectedTracks),
		Plays:    []models.TicketPlay{},
	}
	if slices.Contains(st.SelectedTracks, wager.PulitoTrackID) {
		ticket.PulitoPositions = slices.Clone(st.PulitoPositions)
	}

	var included []models.Play
	for _, p := range st.Plays {
		total := wager.PlayTotal(p)
		if !total.IsPositive() {
			continue
		}
		included = append(included, p)
		ticket.Plays = append(ticket.Plays, models.TicketPlay{
			Position:       len(ticket.Plays) + 1,
			BetNumber:      p.BetNumber,
			GameMode:       p.GameMode,
			StraightAmount: valueOf(p.StraightAmount),
			BoxAmount:      valueOf(p.BoxAmount),
			ComboAmount:    valueOf(p.ComboAmount),
			Total:          total,
		})
	}
	ticket.GrandTotal = wager.Aggregate(included, st.SelectedTracks, st.SelectedDates, s.builder.Catalog()).GrandTotal

	if err := s.archive(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info("Ticket issued", "number", ticket.Number, "plays", len(ticket.Plays), "total", ticket.GrandTotal.StringFixed(2))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTicket(ticket)
	}
	return ticket, nil
}

func (s *TicketService) archive(ctx context.Context, ticket *models.Ticket) error {
	for attempt := 0; attempt < maxTicketNumberAttempts; attempt++ {
		ticket.Number = s.newNumber()
		err := s.repo.CreateTicket(ctx, ticket)
		if err == nil {
			return nil
		}
		if !stderrors.Is(err, repository.ErrDuplicateTicket) {
			return errors.Internal(fmt.Errorf("archive ticket: %w", err))
		}
		s.log.Warn("Ticket number collision, retrying", "number", ticket.Number)
	}
	return errors.Internal(fmt.Errorf("could not allocate a unique ticket number after %d attempts", maxTicketNumberAttempts))
}

// GetTicket returns an issued ticket by number
func (s *TicketService) GetTicket(ctx context.Context, number string) (*models.Ticket, error) {
	ticket, err := s.repo.GetTicket(ctx, number)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("ticket %s not found", number)
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets returns the most recent tickets first
func (s *TicketService) ListTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	return s.repo.ListTickets(ctx, limit)
}

// TicketQR renders a PNG QR code for an issued ticket
func (s *TicketService) TicketQR(ctx context.Context, number string) ([]byte, error) {
	ticket, err := s.GetTicket(ctx, number)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(s.qrContent(ticket.Number), qrcode.Medium, 256)
}

func (s *TicketService) qrContent(number string) string {
	if base := s.BaseURL(); base != "" {
		return fmt.Sprintf("%s/tickets/%s", base, number)
	}
	return "Ticket #" + number
}

func valueOf(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
