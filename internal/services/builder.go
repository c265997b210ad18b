package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/errors"
	"github.com/abrezinsky/beastreader/internal/logger"
	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/repository"
	"github.com/abrezinsky/beastreader/internal/tracks"
	"github.com/abrezinsky/beastreader/internal/wager"
)

// DefaultMaxPlays is the play ceiling applied to every insertion path
const DefaultMaxPlays = 200

// DefaultTracks are selected on first start and after a reset
var DefaultTracks = []string{"New York Mid Day", "Venezuela"}

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastState(state interface{})
	BroadcastTicket(ticket *models.Ticket)
}

// PlayView is a play together with its derived values
type PlayView struct {
	models.Play
	Total    decimal.Decimal `json:"total"`
	Complete bool            `json:"complete"`
}

// StateView is the builder state as presented to clients
type StateView struct {
	Plays           []PlayView           `json:"plays"`
	SelectedTracks  []string             `json:"selected_tracks"`
	SelectedDates   []string             `json:"selected_dates"`
	PulitoPositions []int                `json:"pulito_positions"`
	CopiedWagers    *models.CopiedWagers `json:"copied_wagers"`
	Totals          wager.Totals         `json:"totals"`
	MaxPlays        int                  `json:"max_plays"`
	Today           string               `json:"today"`
}

// PlayUpdate carries the editable fields of a play. Nil amounts are not wagered.
type PlayUpdate struct {
	BetNumber      string
	StraightAmount *decimal.Decimal
	BoxAmount      *decimal.Decimal
	ComboAmount    *decimal.Decimal
}

// ImportResult reports how a batch of candidates was admitted
type ImportResult struct {
	Added     int        `json:"added"`
	Truncated int        `json:"truncated"`
	State     *StateView `json:"state"`
}

// BuilderService owns the ticket builder state and applies commands to it.
// Every successful command is saved and broadcast before it returns.
type BuilderService struct {
	log         logger.Logger
	repo        repository.StateRepository
	catalog     *tracks.Catalog
	broadcaster Broadcaster
	now         func() time.Time
	maxPlays    int

	mu    sync.Mutex
	state models.BuilderState
}

// NewBuilderService creates a new BuilderService holding the default state
func NewBuilderService(log logger.Logger, repo repository.StateRepository, catalog *tracks.Catalog) *BuilderService {
	s := &BuilderService{
		log:      log,
		repo:     repo,
		catalog:  catalog,
		now:      time.Now,
		maxPlays: DefaultMaxPlays,
	}
	s.state = s.defaultState(0)
	return s
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *BuilderService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock replaces the wall clock
func (s *BuilderService) SetClock(now func() time.Time) {
	s.now = now
}

// SetMaxPlays sets the play ceiling. Values below one are ignored.
func (s *BuilderService) SetMaxPlays(n int) {
	if n > 0 {
		s.maxPlays = n
	}
}

// MaxPlays returns the play ceiling
func (s *BuilderService) MaxPlays() int {
	return s.maxPlays
}

// Catalog returns the track catalog the builder validates against
func (s *BuilderService) Catalog() *tracks.Catalog {
	return s.catalog
}

// Now returns the current instant in the catalog's time zone
func (s *BuilderService) Now() time.Time {
	return s.now().In(s.catalog.Location())
}

func (s *BuilderService) today() string {
	return s.Now().Format(wager.DateLayout)
}

func (s *BuilderService) defaultState(nextID int64) models.BuilderState {
	st := models.BuilderState{
		Plays:          []models.Play{},
		SelectedTracks: []string{},
		SelectedDates:  []string{s.today()},
		NextPlayID:     nextID,
	}
	for _, id := range DefaultTracks {
		if _, ok := s.catalog.Lookup(id); ok {
			st.SelectedTracks = append(st.SelectedTracks, id)
		}
	}
	return st
}

// Load replaces the in-memory state with the saved snapshot.
// A missing snapshot leaves the defaults in place.
func (s *BuilderService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.repo.LoadState(ctx)
	if err == repository.ErrNotFound {
		s.log.Info("No saved builder state, starting fresh")
		s.state = s.defaultState(0)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load builder state: %w", err)
	}

	st := *saved
	if st.Plays == nil {
		st.Plays = []models.Play{}
	}
	if st.SelectedTracks == nil {
		st.SelectedTracks = []string{}
	}
	if st.SelectedDates == nil {
		st.SelectedDates = []string{}
	}
	if slices.Contains(st.SelectedTracks, wager.PulitoTrackID) {
		if len(st.PulitoPositions) == 0 {
			st.PulitoPositions = []int{1}
		}
	} else {
		st.PulitoPositions = nil
	}
	for _, p := range st.Plays {
		if p.ID >= st.NextPlayID {
			st.NextPlayID = p.ID
		}
	}
	reclassify(&st)
	s.state = st
	s.log.Info("Builder state loaded", "plays", len(st.Plays), "tracks", len(st.SelectedTracks), "dates", len(st.SelectedDates))
	return nil
}

// State returns the current state with derived totals
func (s *BuilderService) State(ctx context.Context) *StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.state)
}

// Snapshot returns a copy of the raw builder state
func (s *BuilderService) Snapshot() models.BuilderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// AddPlay appends an empty play
func (s *BuilderService) AddPlay(ctx context.Context) (*StateView, error) {
	return s.apply(ctx, func(st *models.BuilderState) error {
		if len(st.Plays) >= s.maxPlays {
			return errors.Conflictf("play limit of %d reached", s.maxPlays)
		}
		st.Plays = append(st.Plays, newPlay(st, "", nil, nil, nil))
		return nil
	})
}

// UpdatePlay replaces the bet number and amounts of a play and re-derives its mode
func (s *BuilderService) UpdatePlay(ctx context.Context, id int64, upd PlayUpdate) (*StateView, error) {
	for _, a := range []*decimal.Decimal{upd.StraightAmount, upd.BoxAmount, upd.ComboAmount} {
		if a != nil && a.IsNegative() {
			return nil, errors.InvalidInput("amounts cannot be negative")
		}
	}
	return s.apply(ctx, func(st *models.BuilderState) error {
		i := indexOfPlay(st.Plays, id)
		if i < 0 {
			return errors.NotFoundf("play %d not found", id)
		}
		p := &st.Plays[i]
		p.BetNumber = upd.BetNumber
		p.StraightAmount = upd.StraightAmount
		p.BoxAmount = upd.BoxAmount
		p.ComboAmount = upd.ComboAmount
		p.GameMode = wager.ClassifyRaw(p.BetNumber, st.SelectedTracks, st.PulitoPositions)
		return nil
	})
}

// DeletePlay removes a single play
func (s *BuilderService) DeletePlay(ctx context.Context, id int64) (*StateView, error) {
	return s.apply(ctx, func(st *models.BuilderState) error {
		i := indexOfPlay(st.Plays, id)
		if i < 0 {
			return errors.NotFoundf("play %d not found", id)
		}
		st.Plays = slices.Delete(st.Plays, i, i+1)
		return nil
	})
}

// DeleteSelected removes every play whose id is listed. Unknown ids are ignored.
func (s *BuilderService) DeleteSelected(ctx context.Context, ids []int64) (*StateView, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("no plays selected")
	}
	return s.apply(ctx, func(st *models.BuilderState) error {
		st.Plays = slices.DeleteFunc(st.Plays, func(p models.Play) bool {
			return slices.Contains(ids, p.ID)
		})
		return nil
	})
}

// Reset restores the default state. Play ids keep increasing across resets.
func (s *BuilderService) Reset(ctx context.Context) (*StateView, error) {
	return s.apply(ctx, func(st *models.BuilderState) error {
		*st = s.defaultState(st.NextPlayID)
		return nil
	})
}

// ImportPlays admits candidates in order, truncating at the play ceiling.
// Non-positive amounts are treated as not wagered.
func (s *BuilderService) ImportPlays(ctx context.Context, candidates []models.Candidate) (*ImportResult, error) {
	result := &ImportResult{}
	view, err := s.apply(ctx, func(st *models.BuilderState) error {
		room := max(0, s.maxPlays-len(st.Plays))
		keep := candidates
		if len(keep) > room {
			keep = keep[:room]
		}
		for _, c := range keep {
			st.Plays = append(st.Plays, newPlay(st, c.BetNumber,
				positiveOrNil(c.StraightAmount), positiveOrNil(c.BoxAmount), positiveOrNil(c.ComboAmount)))
		}
		result.Added = len(keep)
		result.Truncated = len(candidates) - len(keep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Truncated > 0 {
		s.log.Warn("Import truncated at play limit", "added", result.Added, "dropped", result.Truncated, "limit", s.maxPlays)
	}
	result.State = view
	return result, nil
}

// SetTracks replaces the track selection and re-derives every play's mode
func (s *BuilderService) SetTracks(ctx context.Context, ids []string) (*StateView, error) {
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.catalog.Lookup(id); !ok {
			return nil, errors.InvalidInputf("unknown track %q", id)
		}
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}
	return s.apply(ctx, func(st *models.BuilderState) error {
		had := slices.Contains(st.SelectedTracks, wager.PulitoTrackID)
		has := slices.Contains(selected, wager.PulitoTrackID)
		switch {
		case has && !had:
			st.PulitoPositions = []int{1}
		case !has:
			st.PulitoPositions = nil
		}
		st.SelectedTracks = selected
		reclassify(st)
		return nil
	})
}

// SetPulitoPositions replaces the Pulito positions and re-derives every play's mode
func (s *BuilderService) SetPulitoPositions(ctx context.Context, positions []int) (*StateView, error) {
	if len(positions) == 0 {
		return nil, errors.InvalidInput("at least one Pulito position is required")
	}
	clean := make([]int, 0, len(positions))
	for _, pos := range positions {
		if pos < 1 || pos > 4 {
			return nil, errors.InvalidInputf("Pulito position %d is outside 1-4", pos)
		}
		if !slices.Contains(clean, pos) {
			clean = append(clean, pos)
		}
	}
	slices.Sort(clean)

	return s.apply(ctx, func(st *models.BuilderState) error {
		if !slices.Contains(st.SelectedTracks, wager.PulitoTrackID) {
			return errors.Conflict("Pulito track is not selected")
		}
		st.PulitoPositions = clean
		reclassify(st)
		return nil
	})
}

// SetDates replaces the selected dates
func (s *BuilderService) SetDates(ctx context.Context, dates []string) (*StateView, error) {
	clean := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(wager.DateLayout, d); err != nil {
			return nil, errors.InvalidInputf("invalid date %q, expected YYYY-MM-DD", d)
		}
		if !slices.Contains(clean, d) {
			clean = append(clean, d)
		}
	}
	slices.Sort(clean)

	return s.apply(ctx, func(st *models.BuilderState) error {
		st.SelectedDates = clean
		return nil
	})
}

// CopyWagers snapshots a play's amounts for pasting
func (s *BuilderService) CopyWagers(ctx context.Context, id int64) (*StateView, error) {
	return s.apply(ctx, func(st *models.BuilderState) error {
		i := indexOfPlay(st.Plays, id)
		if i < 0 {
			return errors.NotFoundf("play %d not found", id)
		}
		p := st.Plays[i]
		st.CopiedWagers = &models.CopiedWagers{
			StraightAmount: p.StraightAmount,
			BoxAmount:      p.BoxAmount,
			ComboAmount:    p.ComboAmount,
		}
		return nil
	})
}

// PasteWagers writes the copied amounts onto the listed plays. Amounts that
// were not copied leave the target's value untouched.
func (s *BuilderService) PasteWagers(ctx context.Context, ids []int64) (*StateView, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("no plays selected")
	}
	return s.apply(ctx, func(st *models.BuilderState) error {
		cw := st.CopiedWagers
		if cw == nil {
			return errors.Conflict("no wagers copied")
		}
		for i := range st.Plays {
			p := &st.Plays[i]
			if !slices.Contains(ids, p.ID) {
				continue
			}
			if cw.StraightAmount != nil {
				p.StraightAmount = cw.StraightAmount
			}
			if cw.BoxAmount != nil {
				p.BoxAmount = cw.BoxAmount
			}
			if cw.ComboAmount != nil {
				p.ComboAmount = cw.ComboAmount
			}
		}
		return nil
	})
}

// apply runs fn on a copy of the state; the copy replaces the live state
// only once it has been saved.
func (s *BuilderService) apply(ctx context.Context, fn func(st *models.BuilderState) error) (*StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneState(s.state)
	if err := fn(&next); err != nil {
		return nil, err
	}
	if err := s.repo.SaveState(ctx, &next); err != nil {
		s.log.Error("Failed to save builder state", "error", err)
		return nil, errors.Internal(fmt.Errorf("save builder state: %w", err))
	}
	s.state = next

	view := s.view(next)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastState(view)
	}
	return view, nil
}

func (s *BuilderService) view(st models.BuilderState) *StateView {
	plays := make([]PlayView, len(st.Plays))
	for i, p := range st.Plays {
		total := wager.PlayTotal(p)
		plays[i] = PlayView{
			Play:     p,
			Total:    total,
			Complete: p.BetNumber != "" && p.GameMode != models.ModeInvalid && p.HasWager(),
		}
	}
	return &StateView{
		Plays:           plays,
		SelectedTracks:  slices.Clone(st.SelectedTracks),
		SelectedDates:   slices.Clone(st.SelectedDates),
		PulitoPositions: slices.Clone(st.PulitoPositions),
		CopiedWagers:    st.CopiedWagers,
		Totals:          wager.Aggregate(st.Plays, st.SelectedTracks, st.SelectedDates, s.catalog),
		MaxPlays:        s.maxPlays,
		Today:           s.today(),
	}
}

func newPlay(st *models.BuilderState, betNumber string, straight, box, combo *decimal.Decimal) models.Play {
	st.NextPlayID++
	return models.Play{
		ID:             st.NextPlayID,
		BetNumber:      betNumber,
		GameMode:       wager.ClassifyRaw(betNumber, st.SelectedTracks, st.PulitoPositions),
		StraightAmount: straight,
		BoxAmount:      box,
		ComboAmount:    combo,
	}
}

func reclassify(st *models.BuilderState) {
	for i := range st.Plays {
		st.Plays[i].GameMode = wager.ClassifyRaw(st.Plays[i].BetNumber, st.SelectedTracks, st.PulitoPositions)
	}
}

func indexOfPlay(plays []models.Play, id int64) int {
	return slices.IndexFunc(plays, func(p models.Play) bool { return p.ID == id })
}

func positiveOrNil(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || !d.IsPositive() {
		return nil
	}
	return d
}

func cloneState(st models.BuilderState) models.BuilderState {
	out := st
	out.Plays = slices.Clone(st.Plays)
	out.SelectedTracks = slices.Clone(st.SelectedTracks)
	out.SelectedDates = slices.Clone(st.SelectedDates)
	out.PulitoPositions = slices.Clone(st.PulitoPositions)
	if st.CopiedWagers != nil {
		cw := *st.CopiedWagers
		out.CopiedWagers = &cw
	}
	return out
}
