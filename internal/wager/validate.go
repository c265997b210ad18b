package wager

import (
	"fmt"
	"strings"
	"time"

	"github.com/abrezinsky/beastreader/internal/models"
)

// DateLayout is the ISO layout of selected dates
const DateLayout = "2006-01-02"

// ValidationInput is everything the ticket validator looks at.
// Now must already be in the time zone the cutoffs are expressed in.
type ValidationInput struct {
	Plays  []models.Play
	Tracks []string
	Dates  []string
	Now    time.Time
}

// Validate runs every pre-issuance check and returns the problems found,
// in order. An empty result means a ticket may be issued.
func Validate(in ValidationInput, lookup TrackLookup) []string {
	var problems []string

	if len(in.Tracks) == 0 {
		problems = append(problems, "No tracks selected.")
	}

	var specialty []string
	hasStandard := false
	for _, id := range in.Tracks {
		if isSpecialty(lookup, id) {
			specialty = append(specialty, trackName(lookup, id))
		} else {
			hasStandard = true
		}
	}
	if len(specialty) > 0 && !hasStandard {
		problems = append(problems, fmt.Sprintf("Specialty tracks (%s) require at least one standard track.", strings.Join(specialty, ", ")))
	}

	if len(in.Plays) == 0 {
		problems = append(problems, "No plays added. Add at least one play.")
	}

	if len(in.Dates) == 0 {
		problems = append(problems, "No dates selected.")
	}

	today := in.Now.Format(DateLayout)
	for _, date := range in.Dates {
		if date < today {
			problems = append(problems, fmt.Sprintf("Date %s is in the past.", date))
			continue
		}
		if date != today {
			continue
		}
		for _, id := range in.Tracks {
			t, ok := lookup.Lookup(id)
			if !ok || t.Cutoff == "" {
				continue
			}
			if PastCutoff(in.Now, t.Cutoff) {
				problems = append(problems, fmt.Sprintf("Track %s is closed for %s (cutoff %s).", t.Name, date, t.Cutoff))
			}
		}
	}

	for i, p := range in.Plays {
		n := i + 1
		if strings.TrimSpace(p.BetNumber) == "" {
			problems = append(problems, fmt.Sprintf("Play #%d: Bet number is missing.", n))
		}
		if p.GameMode == models.ModeInvalid || p.GameMode == "" {
			problems = append(problems, fmt.Sprintf("Play #%d: Game mode is invalid. Check the bet number.", n))
		}
		if !PlayTotal(p).IsPositive() {
			problems = append(problems, fmt.Sprintf("Play #%d: Total must be greater than zero.", n))
		}
	}

	return problems
}

// CutoffOn returns the cutoff instant for the day of now, in now's location
func CutoffOn(now time.Time, cutoff string) (time.Time, error) {
	hm, err := time.Parse("15:04", cutoff)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, now.Location()), nil
}

// PastCutoff reports whether now is after the given "HH:MM" cutoff.
// A malformed cutoff never blocks.
func PastCutoff(now time.Time, cutoff string) bool {
	at, err := CutoffOn(now, cutoff)
	if err != nil {
		return false
	}
	return now.After(at)
}

func trackName(lookup TrackLookup, id string) string {
	if t, ok := lookup.Lookup(id); ok && t.Name != "" {
		return t.Name
	}
	return id
}
