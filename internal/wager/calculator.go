package wager

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/abrezinsky/beastreader/internal/models"
)

// Permutations returns the number of distinct orderings of the digits,
// n! / (m0! * m1! * ... * m9!). An empty number has a single ordering.
func Permutations(num BetNumber) int64 {
	remaining := num.Len()
	p := int64(1)
	for _, m := range num.Counts {
		if m == 0 {
			continue
		}
		p *= int64(combin.Binomial(remaining, m))
		remaining -= m
	}
	return p
}

func amount(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// RowTotal computes the cost of a single play. Box bets on a number whose
// digits are all the same contribute nothing.
func RowTotal(num BetNumber, mode string, straight, box, combo *decimal.Decimal) decimal.Decimal {
	if mode == models.ModeInvalid || mode == "" {
		return decimal.Zero
	}
	p := decimal.NewFromInt(Permutations(num))

	total := amount(straight)
	if !num.AllSame() {
		total = total.Add(amount(box).Mul(p))
	}
	total = total.Add(amount(combo).Mul(p))
	return total.Round(2)
}

// PlayTotal is RowTotal applied to a play's own fields
func PlayTotal(p models.Play) decimal.Decimal {
	return RowTotal(ParseBetNumber(p.BetNumber), p.GameMode, p.StraightAmount, p.BoxAmount, p.ComboAmount)
}
