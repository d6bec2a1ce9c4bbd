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

package survutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if r := Cfg.GetFloat64("RateA"); r != 1.0/3.0 {
		t.Errorf("RateA = %g, want 1/3", r)
	}
	if r := Cfg.GetFloat64("RateB"); r != 0.8 {
		t.Errorf("RateB = %g, want 0.8", r)
	}
	if n := Cfg.GetInt("Points"); n != 100 {
		t.Errorf("Points = %d, want 100", n)
	}
	if d := Cfg.GetFloat64("Dt"); d != 1e-4 {
		t.Errorf("Dt = %g, want 1e-4", d)
	}
	vars := GetStringMapString("OutputVariables", Cfg)
	if vars["RR"] != "(1 - Sa) / (1 - Sb)" {
		t.Errorf("default output variables = %v", vars)
	}
}

func TestGrid(t *testing.T) {
	ts := grid(true)
	if len(ts) != Cfg.GetInt("Points") {
		t.Fatalf("len = %d, want %d", len(ts), Cfg.GetInt("Points"))
	}
	if ts[0] != 0 {
		t.Errorf("grid with zero starts at %g", ts[0])
	}
	if ts := grid(false); ts[0] <= 0 {
		t.Errorf("grid without zero starts at %g", ts[0])
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "survival v") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestHRCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "survutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	Cfg.Set("OutputDir", dir)
	Cfg.Set("show", false)

	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"hr"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "hazard ratio (A relative to B): 0.4167") {
		t.Errorf("hr output does not report the collapsed hazard ratio:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "hazard_ratio.png")); err != nil {
		t.Errorf("hazard ratio figure not written: %v", err)
	}
}

func TestCurvesCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "survutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	Cfg.Set("OutputDir", dir)
	Cfg.Set("show", false)

	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"curves"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "RR") {
		t.Error("curves output is missing the default RR column")
	}
	for _, name := range []string{"survival.png", "death.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestTrialCmd(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"trial"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Fisher2002") {
		t.Error("trial output is missing the built-in study")
	}
	if !strings.Contains(out, "0.4526") {
		t.Errorf("trial output is missing the estimated survival:\n%s", out)
	}
}

func TestTrialCmdStudiesFile(t *testing.T) {
	f, err := ioutil.TempFile("", "studies*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	const data = `
[[study]]
name = "synthetic"
years = 5.0
treatment = "drug"
hr = 0.5

[study.reference]
name = "placebo"
survival = 0.64
`
	if _, err := f.WriteString(data); err != nil {
		t.Fatal(err)
	}
	f.Close()

	Cfg.Set("Studies", f.Name())
	defer Cfg.Set("Studies", "")

	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs([]string{"trial"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	// 0.64^0.5 = 0.8
	if !strings.Contains(buf.String(), "0.8000") {
		t.Errorf("trial output is missing the estimated survival:\n%s", buf.String())
	}
}
