package wager

import (
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/models"
)

// TrackLookup resolves a track id against the reference configuration
type TrackLookup interface {
	Lookup(id string) (models.Track, bool)
}

// Totals is the derived cost of the whole play set
type Totals struct {
	BaseTotal       decimal.Decimal `json:"base_total"`
	TrackMultiplier int             `json:"track_multiplier"`
	DateMultiplier  int             `json:"date_multiplier"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

func isSpecialty(lookup TrackLookup, id string) bool {
	t, ok := lookup.Lookup(id)
	return ok && t.Specialty
}

// Aggregate sums the play totals and applies the track and date
// multipliers. Specialty tracks never count toward the track multiplier.
func Aggregate(plays []models.Play, selectedTracks, selectedDates []string, lookup TrackLookup) Totals {
	base := decimal.Zero
	for _, p := range plays {
		base = base.Add(PlayTotal(p))
	}

	standard := 0
	for _, id := range selectedTracks {
		if !isSpecialty(lookup, id) {
			standard++
		}
	}
	trackMult := max(1, standard)
	dateMult := max(1, len(selectedDates))

	return Totals{
		BaseTotal:       base,
		TrackMultiplier: trackMult,
		DateMultiplier:  dateMult,
		GrandTotal:      base.Mul(decimal.NewFromInt(int64(trackMult * dateMult))).Round(2),
	}
}
