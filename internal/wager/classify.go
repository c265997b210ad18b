package wager

import (
	"slices"

	"github.com/abrezinsky/beastreader/internal/models"
)

// Game modes
const (
	ModePick2  = "Pick 2"
	ModePick3  = "Pick 3"
	ModeWin4   = "Win 4"
	ModePick5  = "Pick 5"
	ModePulito = "Pulito"
)

// PulitoTrackID is the specialty track that turns two-digit bets into Pulito bets
const PulitoTrackID = "Pulito"

var modesByLength = map[int]string{
	2: ModePick2,
	3: ModePick3,
	4: ModeWin4,
	5: ModePick5,
}

// Classify maps a bet number to its game mode under the current track
// selection. It returns models.ModeInvalid for lengths outside 2..5.
func Classify(num BetNumber, selectedTracks []string, pulitoPositions []int) string {
	mode, ok := modesByLength[num.Len()]
	if !ok {
		return models.ModeInvalid
	}
	if num.Len() == 2 && len(pulitoPositions) > 0 && slices.Contains(selectedTracks, PulitoTrackID) {
		return ModePulito
	}
	return mode
}

// ClassifyRaw parses and classifies a raw bet number string
func ClassifyRaw(raw string, selectedTracks []string, pulitoPositions []int) string {
	return Classify(ParseBetNumber(raw), selectedTracks, pulitoPositions)
}
