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

import "github.com/gonum/floats"

// DefaultStep is a forward-difference step [years] suitable for the
// numerical derivatives in this package.
const DefaultStep = 1e-4

// DeathRate returns the proportion of the original population dying per
// unit time at time t: the slope of the cumulative death curve 1 − S(t),
// approximated with a forward difference of step dt.
//
// The approximation is first order in dt. A smaller step tracks the true
// slope more closely but amplifies floating-point cancellation in the
// subtraction, so the choice of dt is an explicit accuracy-stability
// trade-off left to the caller.
func DeathRate(c Curve, t, dt float64) float64 {
	return ((1 - c.At(t+dt)) - (1 - c.At(t))) / dt
}

// HazardRate returns the proportion of current survivors dying per unit
// time at time t: the death rate divided by the fraction still alive.
//
// As S(t) approaches zero the quotient can become very large or
// non-finite. That is the correct asymptotic behavior of a hazard rate
// near the end of a curve's support, not an error, and callers should
// expect such values rather than treat them as failures.
func HazardRate(c Curve, t, dt float64) float64 {
	return DeathRate(c, t, dt) / c.At(t)
}

// DeathRates evaluates DeathRate at each of the given times, preserving
// their order.
func DeathRates(c Curve, ts []float64, dt float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = DeathRate(c, t, dt)
	}
	return out
}

// HazardRates evaluates HazardRate at each of the given times,
// preserving their order.
func HazardRates(c Curve, ts []float64, dt float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = HazardRate(c, t, dt)
	}
	return out
}

// CumulativeHazard returns the running integral of the hazard rate of c
// over the evenly spaced time grid ts, approximated by a left Riemann
// sum: element i holds the accumulated hazard over ts[0..i]. In the
// continuous limit the cumulative hazard equals −log S(t), so the
// result can be checked against the log-survival identity.
func CumulativeHazard(c Curve, ts []float64, dt float64) []float64 {
	h := HazardRates(c, ts, dt)
	if len(ts) > 1 {
		floats.Scale(ts[1]-ts[0], h)
	}
	return floats.CumSum(make([]float64, len(h)), h)
}
