package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/repository/mock"
	"github.com/abrezinsky/beastreader/internal/services"
	"github.com/abrezinsky/beastreader/internal/testutil"
)

// recordingBroadcaster captures broadcasts for assertions
type recordingBroadcaster struct {
	mu      sync.Mutex
	states  []interface{}
	tickets []*models.Ticket
}

func (b *recordingBroadcaster) BroadcastState(state interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states = append(b.states, state)
}

func (b *recordingBroadcaster) BroadcastTicket(ticket *models.Ticket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = append(b.tickets, ticket)
}

func (b *recordingBroadcaster) stateCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.states)
}

// morning is well before every default cutoff
func morning(t *testing.T) time.Time {
	return testutil.NYTime(t, 2026, time.October, 16, 9, 30)
}

type builderFixture struct {
	svc  *services.BuilderService
	repo *mock.Repository
	bc   *recordingBroadcaster
}

func newBuilder(t *testing.T) *builderFixture {
	t.Helper()
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewBuilderService(logger.NewDiscard(), repo, testutil.NewTestCatalog(t))
	svc.SetClock(testutil.FixedClock(morning(t)))
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)
	if _, err := svc.Reset(t.Context()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return &builderFixture{svc: svc, repo: repo, bc: bc}
}

func amt(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func lastPlay(v *services.StateView) services.PlayView {
	return v.Plays[len(v.Plays)-1]
}
