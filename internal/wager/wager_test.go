package wager_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/models"
	"github.com/abrezinsky/beastreader/internal/wager"
)

type fakeTracks map[string]models.Track

func (f fakeTracks) Lookup(id string) (models.Track, bool) {
	t, ok := f[id]
	return t, ok
}

var testTracks = fakeTracks{
	"New York Mid Day": {ID: "New York Mid Day", Name: "New York Mid Day", Cutoff: "14:20"},
	"Georgia Evening":  {ID: "Georgia Evening", Name: "Georgia Evening", Cutoff: "18:40"},
	"Florida Night":    {ID: "Florida Night", Name: "Florida Night"},
	"Venezuela":        {ID: "Venezuela", Name: "Venezuela", Specialty: true},
	"Pulito":           {ID: "Pulito", Name: "Pulito", Specialty: true},
}

func amt(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestParseBetNumber(t *testing.T) {
	tests := []struct {
		raw    string
		digits string
	}{
		{"123", "123"},
		{"12-34", "1234"},
		{" 4 5 6 ", "456"},
		{"1.2/3,4", "1234"},
		{"", ""},
		{"12a", ""},
		{"abc", ""},
		{"--", ""},
	}
	for _, tt := range tests {
		got := wager.ParseBetNumber(tt.raw)
		if got.Digits != tt.digits {
			t.Errorf("ParseBetNumber(%q) = %q, want %q", tt.raw, got.Digits, tt.digits)
		}
		if got.Len() != len(tt.digits) {
			t.Errorf("ParseBetNumber(%q).Len() = %d, want %d", tt.raw, got.Len(), len(tt.digits))
		}
	}
}

func TestParseBetNumber_Counts(t *testing.T) {
	b := wager.ParseBetNumber("1-1-2")
	if b.Counts[1] != 2 || b.Counts[2] != 1 {
		t.Errorf("unexpected counts %v", b.Counts)
	}
	if b.AllSame() {
		t.Error("112 should not be all same")
	}
	if !wager.ParseBetNumber("777").AllSame() {
		t.Error("777 should be all same")
	}
	if wager.ParseBetNumber("").AllSame() {
		t.Error("empty parse should not be all same")
	}
}

func TestClassify_ByLength(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", models.ModeInvalid},
		{"7", models.ModeInvalid},
		{"12", wager.ModePick2},
		{"123", wager.ModePick3},
		{"1234", wager.ModeWin4},
		{"12345", wager.ModePick5},
		{"123456", models.ModeInvalid},
		{"12x", models.ModeInvalid},
	}
	for _, tt := range tests {
		if got := wager.ClassifyRaw(tt.raw, []string{"New York Mid Day"}, nil); got != tt.want {
			t.Errorf("ClassifyRaw(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestClassify_PulitoOverride(t *testing.T) {
	tracks := []string{"New York Mid Day", "Pulito"}
	if got := wager.ClassifyRaw("45", tracks, []int{1}); got != wager.ModePulito {
		t.Errorf("expected Pulito, got %q", got)
	}
	// Only two-digit numbers are affected
	if got := wager.ClassifyRaw("456", tracks, []int{1}); got != wager.ModePick3 {
		t.Errorf("expected Pick 3, got %q", got)
	}
	// Without the Pulito track the generic mode applies
	if got := wager.ClassifyRaw("45", []string{"New York Mid Day"}, []int{1}); got != wager.ModePick2 {
		t.Errorf("expected Pick 2, got %q", got)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	tracks := []string{"Pulito", "Venezuela"}
	first := wager.ClassifyRaw("09", tracks, []int{2, 3})
	for i := 0; i < 5; i++ {
		if got := wager.ClassifyRaw("09", tracks, []int{2, 3}); got != first {
			t.Fatalf("classification changed between calls: %q vs %q", first, got)
		}
	}
}

func TestPermutations(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"", 1},
		{"12", 2},
		{"11", 1},
		{"123", 6},
		{"112", 3},
		{"111", 1},
		{"1234", 24},
		{"1123", 12},
		{"1122", 6},
		{"1112", 4},
		{"12345", 120},
		{"11223", 30},
	}
	for _, tt := range tests {
		if got := wager.Permutations(wager.ParseBetNumber(tt.raw)); got != tt.want {
			t.Errorf("Permutations(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestRowTotal(t *testing.T) {
	tests := []struct {
		name                string
		raw                 string
		mode                string
		straight, box, comb *decimal.Decimal
		want                string
	}{
		{"straight only", "123", wager.ModePick3, amt("5"), nil, nil, "5.00"},
		{"box with repeat", "112", wager.ModePick3, nil, amt("2"), nil, "6.00"},
		{"box on all same is zero", "111", wager.ModePick3, nil, amt("5"), nil, "0.00"},
		{"combo scales", "123", wager.ModePick3, nil, nil, amt("1"), "6.00"},
		{"combo on all same", "111", wager.ModePick3, nil, nil, amt("1"), "1.00"},
		{"all three", "1234", wager.ModeWin4, amt("1"), amt("0.50"), amt("0.25"), "19.00"},
		{"invalid mode forces zero", "123", models.ModeInvalid, amt("5"), amt("5"), amt("5"), "0.00"},
		{"rounds to cents", "12", wager.ModePick2, amt("0.333"), nil, nil, "0.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wager.RowTotal(wager.ParseBetNumber(tt.raw), tt.mode, tt.straight, tt.box, tt.comb)
			if got.StringFixed(2) != tt.want {
				t.Errorf("got %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestAggregate_SpecialtyTracksDoNotMultiply(t *testing.T) {
	plays := []models.Play{
		{BetNumber: "123", GameMode: wager.ModePick3, StraightAmount: amt("4")},
		{BetNumber: "45", GameMode: wager.ModePick2, StraightAmount: amt("6")},
	}
	tracks := []string{"New York Mid Day", "Georgia Evening", "Venezuela"}
	dates := []string{"2030-01-01", "2030-01-02", "2030-01-03"}

	totals := wager.Aggregate(plays, tracks, dates, testTracks)

	if !totals.BaseTotal.Equal(decimal.NewFromInt(10)) {
		t.Errorf("base total = %s, want 10", totals.BaseTotal)
	}
	if totals.TrackMultiplier != 2 {
		t.Errorf("track multiplier = %d, want 2", totals.TrackMultiplier)
	}
	if totals.DateMultiplier != 3 {
		t.Errorf("date multiplier = %d, want 3", totals.DateMultiplier)
	}
	if totals.GrandTotal.StringFixed(2) != "60.00" {
		t.Errorf("grand total = %s, want 60.00", totals.GrandTotal.StringFixed(2))
	}
}

func TestAggregate_MultipliersFloorAtOne(t *testing.T) {
	plays := []models.Play{{BetNumber: "12", GameMode: wager.ModePick2, StraightAmount: amt("3")}}
	totals := wager.Aggregate(plays, []string{"Venezuela"}, nil, testTracks)
	if totals.TrackMultiplier != 1 || totals.DateMultiplier != 1 {
		t.Errorf("expected multipliers of 1, got %d and %d", totals.TrackMultiplier, totals.DateMultiplier)
	}
	if totals.GrandTotal.StringFixed(2) != "3.00" {
		t.Errorf("grand total = %s, want 3.00", totals.GrandTotal.StringFixed(2))
	}
}

func nyTime(t *testing.T, value string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	now, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("bad time %q: %v", value, err)
	}
	return now
}

func validPlay() models.Play {
	return models.Play{ID: 1, BetNumber: "123", GameMode: wager.ModePick3, StraightAmount: amt("1")}
}

func TestValidate_OK(t *testing.T) {
	problems := wager.Validate(wager.ValidationInput{
		Plays:  []models.Play{validPlay()},
		Tracks: []string{"New York Mid Day"},
		Dates:  []string{"2030-05-01"},
		Now:    nyTime(t, "2030-05-01 09:00"),
	}, testTracks)
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestValidate_EmptyPlaysReportsNoPlays(t *testing.T) {
	problems := wager.Validate(wager.ValidationInput{
		Tracks: []string{"New York Mid Day"},
		Dates:  []string{"2030-05-01"},
		Now:    nyTime(t, "2030-05-01 09:00"),
	}, testTracks)
	if len(problems) != 1 {
		t.Fatalf("expected exactly one problem, got %v", problems)
	}
	if !strings.Contains(strings.ToLower(problems[0]), "no plays") {
		t.Errorf("expected a no plays message, got %q", problems[0])
	}
}

func TestValidate_CollectsEverythingInOrder(t *testing.T) {
	plays := []models.Play{
		{BetNumber: "", GameMode: models.ModeInvalid},
		validPlay(),
	}
	problems := wager.Validate(wager.ValidationInput{
		Plays:  plays,
		Tracks: []string{"Venezuela"},
		Dates:  []string{"2030-04-30"},
		Now:    nyTime(t, "2030-05-01 09:00"),
	}, testTracks)

	want := []string{
		"Specialty tracks (Venezuela) require at least one standard track.",
		"Date 2030-04-30 is in the past.",
		"Play #1: Bet number is missing.",
		"Play #1: Game mode is invalid. Check the bet number.",
		"Play #1: Total must be greater than zero.",
	}
	if len(problems) != len(want) {
		t.Fatalf("got %d problems %v, want %d", len(problems), problems, len(want))
	}
	for i := range want {
		if problems[i] != want[i] {
			t.Errorf("problem %d = %q, want %q", i, problems[i], want[i])
		}
	}
}

func TestValidate_NoTracksNoDates(t *testing.T) {
	problems := wager.Validate(wager.ValidationInput{
		Plays: []models.Play{validPlay()},
		Now:   nyTime(t, "2030-05-01 09:00"),
	}, testTracks)
	if len(problems) != 2 || problems[0] != "No tracks selected." || problems[1] != "No dates selected." {
		t.Errorf("unexpected problems %v", problems)
	}
}

func TestValidate_CutoffOnlyForToday(t *testing.T) {
	in := wager.ValidationInput{
		Plays:  []models.Play{validPlay()},
		Tracks: []string{"New York Mid Day", "Georgia Evening", "Florida Night"},
		Dates:  []string{"2030-05-01", "2030-05-02"},
		Now:    nyTime(t, "2030-05-01 19:00"),
	}
	problems := wager.Validate(in, testTracks)
	want := []string{
		"Track New York Mid Day is closed for 2030-05-01 (cutoff 14:20).",
		"Track Georgia Evening is closed for 2030-05-01 (cutoff 18:40).",
	}
	if len(problems) != len(want) {
		t.Fatalf("got %v, want %v", problems, want)
	}
	for i := range want {
		if problems[i] != want[i] {
			t.Errorf("problem %d = %q, want %q", i, problems[i], want[i])
		}
	}
}

func TestValidate_ExactlyAtCutoffIsAllowed(t *testing.T) {
	problems := wager.Validate(wager.ValidationInput{
		Plays:  []models.Play{validPlay()},
		Tracks: []string{"New York Mid Day"},
		Dates:  []string{"2030-05-01"},
		Now:    nyTime(t, "2030-05-01 14:20"),
	}, testTracks)
	if len(problems) != 0 {
		t.Errorf("expected no problems at the cutoff minute, got %v", problems)
	}
}

func TestPastCutoff_MalformedNeverBlocks(t *testing.T) {
	if wager.PastCutoff(time.Now(), "late") {
		t.Error("malformed cutoff should not block")
	}
}
