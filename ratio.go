/*
Copyright © 2018 the survival authors.
This file is part of survival.

survival is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

survival is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with survival.  If not, see <http://www.gnu.org/licenses/>.
*/

package survival

import (
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/gonum/floats"
)

// PointwiseHR returns the ratio of the hazard rates of a and b at each
// of the given times. The ratio is taken raw, with no smoothing: where
// both hazard rates are near zero the quotient is numerically noisy,
// and where the hazard rate of b is zero it is non-finite.
func PointwiseHR(a, b Curve, ts []float64, dt float64) []float64 {
	return floats.DivTo(make([]float64, len(ts)),
		HazardRates(a, ts, dt), HazardRates(b, ts, dt))
}

// CumulativeHR returns the ratio of the cumulative hazards of a and b
// at each prefix of the evenly spaced time grid ts. Under the
// proportional-hazards assumption this agrees with PointwiseHR and with
// LogSurvivalHR.
func CumulativeHR(a, b Curve, ts []float64, dt float64) []float64 {
	return floats.DivTo(make([]float64, len(ts)),
		CumulativeHazard(a, ts, dt), CumulativeHazard(b, ts, dt))
}

// LogSurvivalHR returns log S_a(t) / log S_b(t) at each of the given
// times. The cumulative hazard equals −log S(t), so under the
// proportional-hazards assumption this is a third estimator of the same
// hazard ratio. At t=0 both logarithms are zero and the result is NaN.
func LogSurvivalHR(a, b Curve, ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = math.Log(a.At(t)) / math.Log(b.At(t))
	}
	return out
}

// A NonProportionalError reports a sequence of hazard-ratio estimates
// that is not constant after rounding, so the proportional-hazards
// assumption does not hold and the sequence cannot be summarized by a
// single number. Min, Max, Mean, and StdDev describe the spread of the
// unrounded estimates.
type NonProportionalError struct {
	Min, Max, Mean, StdDev float64

	// Decimals is the number of decimal places the estimates were
	// rounded to before comparison.
	Decimals int
}

func (e *NonProportionalError) Error() string {
	return fmt.Sprintf("survival: hazard ratio is not constant to %d decimals (min %g, max %g, mean %g, stddev %g)",
		e.Decimals, e.Min, e.Max, e.Mean, e.StdDev)
}

// AssumeProportional collapses a sequence of hazard-ratio estimates to
// the single scalar hazard ratio that the proportional-hazards
// assumption promises. The estimates are rounded to the given number of
// decimal places and must all be equal after rounding; if they are, the
// first (unrounded) estimate is returned, and otherwise a
// *NonProportionalError describing the spread is returned.
//
// A sequence of length one passes trivially, so collapsing an
// already-collapsed scalar returns the same scalar.
func AssumeProportional(ratios []float64, decimals int) (float64, error) {
	if len(ratios) == 0 {
		return 0, fmt.Errorf("survival: no hazard-ratio estimates to collapse")
	}
	pow := math.Pow(10, float64(decimals))
	first := math.Round(ratios[0]*pow) / pow
	for _, r := range ratios[1:] {
		if math.Round(r*pow)/pow != first {
			return 0, &NonProportionalError{
				Min:      stats.StatsMin(ratios),
				Max:      stats.StatsMax(ratios),
				Mean:     stats.StatsMean(ratios),
				StdDev:   stats.StatsSampleStandardDeviation(ratios),
				Decimals: decimals,
			}
		}
	}
	return ratios[0], nil
}

// ReconstructSurvival estimates one group's survival curve from another
// group's curve b and the scalar hazard ratio hr of the first group
// relative to the second: S(t) = S_b(t)^hr. To estimate in the other
// direction, pass 1/hr.
//
// The estimate is exact (up to floating point) when the two groups'
// hazard rates are truly proportional with ratio hr; when the
// proportional-hazards assumption is violated it is only an
// approximation, with no accuracy guarantee.
func ReconstructSurvival(b Curve, ts []float64, hr float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = math.Pow(b.At(t), hr)
	}
	return out
}

// RelativeRisk returns the ratio of two groups' risks of death at a
// single point in time: (1 − sa) / (1 − sb), where sa and sb are the
// groups' survival probabilities at that time. Unlike the hazard ratio,
// the relative risk changes over time even when the hazard ratio is
// constant.
//
// When sb is exactly 1 no deaths have occurred in the comparison group
// and the ratio is undefined; the IEEE-754 quotient (±Inf or NaN) is
// returned as is. That is a domain boundary, not a defect.
func RelativeRisk(sa, sb float64) float64 {
	return (1 - sa) / (1 - sb)
}

// RelativeRisks evaluates RelativeRisk for two curves at each of the
// given times.
func RelativeRisks(a, b Curve, ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = RelativeRisk(a.At(t), b.At(t))
	}
	return out
}
