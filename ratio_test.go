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
	"testing"

	"github.com/gonum/floats"
)

func TestPointwiseHR(t *testing.T) {
	ts := Grid(0, 10, 101)
	want := (1.0 / 3.0) / 0.8
	for i, hr := range PointwiseHR(GroupA, GroupB, ts, DefaultStep) {
		if !floats.EqualWithinAbsOrRel(hr, want, 1e-4, 1e-4) {
			t.Errorf("t=%g: HR = %g, want ≈%g", ts[i], hr, want)
		}
	}
}

// The three hazard-ratio estimators are mathematically equivalent under
// the proportional-hazards assumption and must agree numerically.
func TestEstimatorsAgree(t *testing.T) {
	ts := Grid(0.1, 10, 100) // t=0 makes the log-survival ratio 0/0.
	pw := PointwiseHR(GroupA, GroupB, ts, DefaultStep)
	cum := CumulativeHR(GroupA, GroupB, ts, DefaultStep)
	ls := LogSurvivalHR(GroupA, GroupB, ts)
	if !floats.EqualApprox(pw, cum, 1e-4) {
		t.Error("pointwise and cumulative hazard ratios disagree")
	}
	if !floats.EqualApprox(pw, ls, 1e-4) {
		t.Error("pointwise and log-survival hazard ratios disagree")
	}
}

func TestLogSurvivalHRAtZero(t *testing.T) {
	ls := LogSurvivalHR(GroupA, GroupB, []float64{0})
	if !math.IsNaN(ls[0]) {
		t.Errorf("log-survival ratio at t=0 = %g, want NaN", ls[0])
	}
}

func TestAssumeProportional(t *testing.T) {
	ts := Grid(0, 10, 101)
	ratios := PointwiseHR(GroupA, GroupB, ts, DefaultStep)

	hr, err := AssumeProportional(ratios, 8)
	if err != nil {
		t.Fatalf("exponential pair should be proportional to 8 decimals: %v", err)
	}
	if hr != ratios[0] {
		t.Errorf("collapsed HR = %g, want first estimate %g", hr, ratios[0])
	}

	// Collapsing an already-collapsed scalar returns the same scalar.
	again, err := AssumeProportional([]float64{hr}, 8)
	if err != nil {
		t.Fatalf("collapsing a scalar should succeed: %v", err)
	}
	if again != hr {
		t.Errorf("second collapse = %g, want %g", again, hr)
	}

	if _, err := AssumeProportional(nil, 8); err == nil {
		t.Error("collapsing an empty sequence should fail")
	}
}

func TestAssumeProportionalViolated(t *testing.T) {
	// Two Weibull curves with different shapes have a hazard ratio that
	// varies strongly with time.
	a := Weibull{Scale: 5, Shape: 2, Label: "rising hazard"}
	b := Weibull{Scale: 5, Shape: 0.5, Label: "falling hazard"}
	ts := Grid(0.5, 10, 96)

	_, err := AssumeProportional(PointwiseHR(a, b, ts, DefaultStep), 8)
	if err == nil {
		t.Fatal("a non-proportional pair should fail the collapse")
	}
	npe, ok := err.(*NonProportionalError)
	if !ok {
		t.Fatalf("error has type %T, want *NonProportionalError", err)
	}
	if npe.Max <= npe.Min {
		t.Errorf("diagnostics: max %g should exceed min %g", npe.Max, npe.Min)
	}
	if npe.StdDev <= 0 {
		t.Errorf("diagnostics: stddev = %g, want > 0", npe.StdDev)
	}
}

// Reconstructing one curve from the other with the collapsed HR should
// agree with the true curve, in both directions.
func TestReconstructRoundTrip(t *testing.T) {
	ts := Grid(0, 10, 101)
	hr, err := AssumeProportional(PointwiseHR(GroupA, GroupB, ts, DefaultStep), 8)
	if err != nil {
		t.Fatal(err)
	}

	forward := ReconstructSurvival(GroupB, ts, hr)
	trueA := Eval(GroupA, ts)
	for i := range ts {
		if math.Abs(forward[i]-trueA[i]) > 1e-4 {
			t.Errorf("t=%g: reconstructed %g, true %g", ts[i], forward[i], trueA[i])
		}
	}

	back := ReconstructSurvival(GroupA, ts, 1/hr)
	trueB := Eval(GroupB, ts)
	for i := range ts {
		if math.Abs(back[i]-trueB[i]) > 1e-4 {
			t.Errorf("t=%g: reconstructed %g, true %g", ts[i], back[i], trueB[i])
		}
	}
}

func TestRelativeRisk(t *testing.T) {
	rr := RelativeRisk(GroupA.At(5), GroupB.At(5))
	if !floats.EqualWithinAbsOrRel(rr, 0.8262578373401468, 1e-9, 1e-9) {
		t.Errorf("RR at t=5 = %g, want ≈0.8263", rr)
	}

	// At t=0 nobody has died in either group and the ratio is 0/0.
	if rr0 := RelativeRisk(1, 1); !math.IsNaN(rr0) {
		t.Errorf("RR(1, 1) = %g, want NaN", rr0)
	}
	// Deaths in one group but none in the comparison group.
	if rrInf := RelativeRisk(0.9, 1); !math.IsInf(rrInf, 1) {
		t.Errorf("RR(0.9, 1) = %g, want +Inf", rrInf)
	}

	rrs := RelativeRisks(GroupA, GroupB, []float64{1, 5, 10})
	if len(rrs) != 3 {
		t.Fatalf("len = %d, want 3", len(rrs))
	}
	if rrs[1] != rr {
		t.Errorf("vectorized RR at t=5 = %g, want %g", rrs[1], rr)
	}
}

// This example reproduces the arithmetic linking two exponential
// survival curves to a single hazard ratio: estimate the hazard rates
// numerically, collapse their ratio to one number under the
// proportional-hazards assumption, and use that number to rebuild one
// curve from the other.
func Example() {
	const dt = DefaultStep
	ts := Grid(0, 10, 101)

	fmt.Printf("hazard rate for group A: %.4f\n", HazardRate(GroupA, 1, dt))
	fmt.Printf("hazard rate for group B: %.4f\n", HazardRate(GroupB, 1, dt))

	hr, err := AssumeProportional(PointwiseHR(GroupA, GroupB, ts, dt), 8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("hazard ratio: %.4f\n", hr)

	rec := ReconstructSurvival(GroupB, []float64{5}, hr)
	fmt.Printf("reconstructed survival for group A at year 5: %.4f\n", rec[0])
	fmt.Printf("true survival for group A at year 5: %.4f\n", GroupA.At(5))

	// Output:
	// hazard rate for group A: 0.3333
	// hazard rate for group B: 0.8000
	// hazard ratio: 0.4167
	// reconstructed survival for group A at year 5: 0.1889
	// true survival for group A at year 5: 0.1889
}
