// Package stats computes the best, worst and average time of a table.
package stats

import (
	"math"
	"math/big"
	"strconv"

	"github.com/okian/trackboard/internal/domain/model"
	"github.com/okian/trackboard/internal/domain/validate"
)

// Placeholder is reported for a statistic that cannot be computed.
const Placeholder = "-"

// Summary holds the footer statistics, each already formatted.
type Summary struct {
	Best    string `json:"best"`
	Worst   string `json:"worst"`
	Average string `json:"average"`
}

// Empty is the summary of a table without rows.
var Empty = Summary{Best: Placeholder, Worst: Placeholder, Average: Placeholder}

// Times parses the time column of rows. Unparseable values become NaN and
// are kept so they poison the statistics instead of being skipped.
func Times(rows []model.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = validate.ParseFloat(r.Time)
	}
	return out
}

// Summarize computes the summary for rows.
func Summarize(rows []model.Row) Summary {
	return Compute(Times(rows))
}

// Compute returns best (min), worst (max) and average (mean) of times, each
// with two decimals. A NaN anywhere turns every statistic it reaches into
// the placeholder.
func Compute(times []float64) Summary {
	if len(times) == 0 {
		return Empty
	}
	best, worst, sum := times[0], times[0], 0.0
	for _, t := range times {
		best = minNaN(best, t)
		worst = maxNaN(worst, t)
		sum += t
	}
	return Summary{
		Best:    Format(best),
		Worst:   Format(worst),
		Average: Format(sum / float64(len(times))),
	}
}

// Format renders v with exactly two decimals, or the placeholder for NaN.
// An exact tie between two hundredths rounds away from zero.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return Placeholder
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.Abs(v) >= 1e21:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return toFixed2(v)
}

// toFixed2 rounds the exact binary value of v to hundredths.
func toFixed2(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	scaled := new(big.Float).SetPrec(128).SetFloat64(v)
	scaled.Mul(scaled, big.NewFloat(100))
	n, _ := scaled.Int(nil)
	rest := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetInt(n))
	if rest.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}
	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

func minNaN(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Min(a, b)
}

func maxNaN(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	return math.Max(a, b)
}
