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

	"github.com/gonum/floats"
)

// Curve is an interface for any type that can report the probability of
// surviving past time t, where t is the number of years since the start
// of follow-up. The probability must be in the interval [0, 1] and must
// be non-increasing in t.
type Curve interface {
	At(t float64) float64
	Name() string
}

// CheckTime panics if t is negative. Survival curves are only defined
// for non-negative times, and implementations of Curve should call this
// before evaluating rather than silently returning an invalid value.
func CheckTime(t float64) {
	if t < 0 {
		panic(fmt.Sprintf("survival: negative time %g", t))
	}
}

// Exponential is a survival curve with a constant hazard rate λ:
// S(t) = e^(−λt).
type Exponential struct {
	// Rate is the constant hazard rate λ [1/year].
	Rate float64

	// Label is the name of the curve.
	Label string
}

// At returns the probability of surviving past time t.
func (e Exponential) At(t float64) float64 {
	CheckTime(t)
	return math.Exp(-e.Rate * t)
}

// Name returns the label for this curve.
func (e Exponential) Name() string { return e.Label }

// GroupA is an illustrative exponential survival curve with a hazard
// rate of 1/3 per year: about a third of the people alive at the start
// of any given year die during that year.
var GroupA = Exponential{Rate: 1.0 / 3.0, Label: "group A"}

// GroupB is an illustrative exponential survival curve with a hazard
// rate of 0.8 per year. Survival under GroupB falls much faster than
// under GroupA, but the ratio of the two hazard rates is the same at
// every point in time, so the pair satisfies the proportional-hazards
// assumption exactly.
var GroupB = Exponential{Rate: 0.8, Label: "group B"}

// Weibull is a survival curve whose hazard rate changes over time:
// S(t) = e^(−(t/Scale)^Shape). A Shape greater than 1 gives a hazard
// rate that rises with time, a Shape less than 1 one that falls, and a
// Shape of exactly 1 reduces to an Exponential with rate 1/Scale.
type Weibull struct {
	Scale, Shape float64

	// Label is the name of the curve.
	Label string
}

// At returns the probability of surviving past time t.
func (w Weibull) At(t float64) float64 {
	CheckTime(t)
	return math.Exp(-math.Pow(t/w.Scale, w.Shape))
}

// Name returns the label for this curve.
func (w Weibull) Name() string { return w.Label }

// Eval evaluates curve c at each of the given times, preserving their
// order. The result has the same length as ts.
func Eval(c Curve, ts []float64) []float64 {
	s := make([]float64, len(ts))
	for i, t := range ts {
		s[i] = c.At(t)
	}
	return s
}

// Grid returns n evenly spaced times spanning [start, stop].
func Grid(start, stop float64, n int) []float64 {
	return floats.Span(make([]float64, n), start, stop)
}

// CheckMonotone returns an error if c increases anywhere on the given
// time grid. Survival probability cannot increase with time, so an
// increase means c is not a valid survival curve.
func CheckMonotone(c Curve, ts []float64) error {
	for i := 1; i < len(ts); i++ {
		if c.At(ts[i]) > c.At(ts[i-1]) {
			return fmt.Errorf("survival: curve %s increases between t=%g and t=%g",
				c.Name(), ts[i-1], ts[i])
		}
	}
	return nil
}
