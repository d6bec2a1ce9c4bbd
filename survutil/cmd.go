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

// Package survutil wires the survival toolkit into a command-line
// program: configuration handling, the subcommands, table output, and
// figure rendering.
package survutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/epimodel/survival"
	"github.com/epimodel/survival/figure"
	"github.com/epimodel/survival/trial"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the toolkit.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "RateA",
			usage: `
              RateA is the constant hazard rate [1/year] of illustrative
              group A.`,
			defaultVal: 1.0 / 3.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "RateB",
			usage: `
              RateB is the constant hazard rate [1/year] of illustrative
              group B.`,
			defaultVal: 0.8,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Horizon",
			usage: `
              Horizon is the end of the time grid [years since start of
              treatment].`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Points",
			usage: `
              Points is the number of points on the time grid.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Dt",
			usage: `
              Dt is the forward-difference step [years] used for the
              numerical derivatives. Smaller steps are more accurate but
              amplify floating-point cancellation.`,
			defaultVal: survival.DefaultStep,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Decimals",
			usage: `
              Decimals is the number of decimal places the hazard-ratio
              estimates are rounded to before the proportional-hazards
              check.`,
			defaultVal: 8,
			flagsets:   []*pflag.FlagSet{hrCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the rendered figures are
              written to. It is created if it does not exist.`,
			defaultVal: "survival_output",
			flagsets:   []*pflag.FlagSet{curvesCmd.Flags(), hazardCmd.Flags(), hrCmd.Flags()},
		},
		{
			name: "show",
			usage: `
              show specifies whether to open each rendered figure in the
              system image viewer.`,
			shorthand:  "s",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{curvesCmd.Flags(), hazardCmd.Flags(), hrCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables maps names of additional table columns to
              expressions over the computed series. Expressions can use
              the variables t, Sa, Sb, ha, and hb along with the
              functions exp, log, and pow.`,
			defaultVal: map[string]string{"RR": "(1 - Sa) / (1 - Sb)"},
			flagsets:   []*pflag.FlagSet{curvesCmd.Flags(), hazardCmd.Flags()},
		},
		{
			name: "Studies",
			usage: `
              Studies is the location of a TOML file holding published
              study summaries. When empty, the built-in NSABP B-06
              summary is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{trialCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SURVIVAL")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(curvesCmd)
	Root.AddCommand(hazardCmd)
	Root.AddCommand(hrCmd)
	Root.AddCommand(trialCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("survival: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "survival",
	Short: "A survival-curve and hazard-ratio toolkit.",
	Long: `survival derives death rates, hazard rates, and hazard ratios from
survival curves, checks the proportional-hazards assumption, and
reconstructs one group's survival curve from another group's curve and a
single hazard ratio.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'SURVIVAL_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this copy of the toolkit.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("survival v%s\n", survival.Version)
	},
	DisableAutoGenTag: true,
}

// curves returns the two configured example curves.
func curves() (a, b survival.Exponential) {
	a = survival.Exponential{Rate: Cfg.GetFloat64("RateA"), Label: "group A"}
	b = survival.Exponential{Rate: Cfg.GetFloat64("RateB"), Label: "group B"}
	return a, b
}

// grid returns the configured time grid. When includeZero is false the
// grid starts one spacing above zero, which keeps the log-survival
// hazard-ratio estimator away from its 0/0 point.
func grid(includeZero bool) []float64 {
	n := Cfg.GetInt("Points")
	horizon := Cfg.GetFloat64("Horizon")
	if includeZero {
		return survival.Grid(0, horizon, n)
	}
	return survival.Grid(horizon/float64(n), horizon, n)
}

// writeFigure renders p into the configured output directory and, if
// requested, opens it in the system viewer.
func writeFigure(name string, p *plot.Plot) error {
	dir := os.ExpandEnv(Cfg.GetString("OutputDir"))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("survival: creating output directory: %v", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("survival: creating figure file: %v", err)
	}
	defer f.Close()
	if err := figure.WritePNG(p, f, 6*vg.Inch, 4*vg.Inch); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"file": path}).Info("wrote figure")
	if Cfg.GetBool("show") {
		open.Run(path)
	}
	return nil
}

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "Tabulate and plot the survival and death curves.",
	Long: `curves evaluates the two configured survival curves over the time
grid, prints survival and cumulative death proportions along with any
configured output variables, and renders the survival and death figures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b := curves()
		ts := grid(true)
		dt := Cfg.GetFloat64("Dt")

		o, err := NewOutputter(GetStringMapString("OutputVariables", Cfg), nil)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprint(w, "t\tS(A)\tS(B)\tdeath(A)\tdeath(B)")
		for _, name := range o.Names() {
			fmt.Fprintf(w, "\t%s", name)
		}
		fmt.Fprintln(w)
		for _, ti := range ts {
			sa, sb := a.At(ti), b.At(ti)
			fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.4f\t%.4f", ti, sa, sb, 1-sa, 1-sb)
			extra, err := o.Row(map[string]interface{}{
				"t":  ti,
				"Sa": sa,
				"Sb": sb,
				"ha": survival.HazardRate(a, ti, dt),
				"hb": survival.HazardRate(b, ti, dt),
			})
			if err != nil {
				return err
			}
			for _, v := range extra {
				fmt.Fprintf(w, "\t%.4f", v)
			}
			fmt.Fprintln(w)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		p, err := figure.SurvivalPlot(a, b, ts)
		if err != nil {
			return err
		}
		if err := writeFigure("survival.png", p); err != nil {
			return err
		}
		d, err := figure.Lines("Cumulative deaths", "Years since start of treatment", "Proportion dead",
			figure.Series{Name: a.Name(), Times: ts, Values: deaths(a, ts)},
			figure.Series{Name: b.Name(), Times: ts, Values: deaths(b, ts)},
		)
		if err != nil {
			return err
		}
		return writeFigure("death.png", d)
	},
	DisableAutoGenTag: true,
}

// deaths returns the cumulative death proportions 1 − S(t) over ts.
func deaths(c survival.Curve, ts []float64) []float64 {
	out := survival.Eval(c, ts)
	for i, s := range out {
		out[i] = 1 - s
	}
	return out
}

var hazardCmd = &cobra.Command{
	Use:   "hazard",
	Short: "Tabulate and plot the death-rate and hazard-rate curves.",
	Long: `hazard numerically differentiates the two configured survival curves
to obtain their death rates and hazard rates over the time grid, prints
them along with any configured output variables, and renders the
hazard-rate figure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b := curves()
		ts := grid(true)
		dt := Cfg.GetFloat64("Dt")

		o, err := NewOutputter(GetStringMapString("OutputVariables", Cfg), nil)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprint(w, "t\tdeathRate(A)\tdeathRate(B)\thazardRate(A)\thazardRate(B)")
		for _, name := range o.Names() {
			fmt.Fprintf(w, "\t%s", name)
		}
		fmt.Fprintln(w)
		for _, ti := range ts {
			ha := survival.HazardRate(a, ti, dt)
			hb := survival.HazardRate(b, ti, dt)
			fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.4f\t%.4f",
				ti, survival.DeathRate(a, ti, dt), survival.DeathRate(b, ti, dt), ha, hb)
			extra, err := o.Row(map[string]interface{}{
				"t":  ti,
				"Sa": a.At(ti),
				"Sb": b.At(ti),
				"ha": ha,
				"hb": hb,
			})
			if err != nil {
				return err
			}
			for _, v := range extra {
				fmt.Fprintf(w, "\t%.4f", v)
			}
			fmt.Fprintln(w)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		p, err := figure.HazardPlot(a, b, ts, dt)
		if err != nil {
			return err
		}
		return writeFigure("hazard.png", p)
	},
	DisableAutoGenTag: true,
}

var hrCmd = &cobra.Command{
	Use:   "hr",
	Short: "Estimate the hazard ratio and check proportionality.",
	Long: `hr computes the pointwise, cumulative, and log-survival hazard-ratio
estimates for group A relative to group B over the time grid, checks that
the estimates are constant within the configured rounding, and, when the
proportional-hazards assumption holds, reconstructs each survival curve
from the other using the collapsed hazard ratio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b := curves()
		ts := grid(false)
		dt := Cfg.GetFloat64("Dt")

		pw := survival.PointwiseHR(a, b, ts, dt)
		cum := survival.CumulativeHR(a, b, ts, dt)
		ls := survival.LogSurvivalHR(a, b, ts)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "t\tpointwise\tcumulative\tlogSurvival")
		for i, ti := range ts {
			fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.4f\n", ti, pw[i], cum[i], ls[i])
		}
		if err := w.Flush(); err != nil {
			return err
		}

		hr, err := survival.AssumeProportional(pw, Cfg.GetInt("Decimals"))
		if err != nil {
			if npe, ok := err.(*survival.NonProportionalError); ok {
				logger.WithFields(logrus.Fields{
					"min":    npe.Min,
					"max":    npe.Max,
					"mean":   npe.Mean,
					"stddev": npe.StdDev,
				}).Warn("proportional-hazards assumption violated; not collapsing to a single hazard ratio")
				return nil
			}
			return err
		}
		logger.WithFields(logrus.Fields{"HR": hr}).Info("proportional-hazards assumption holds")

		rec := survival.ReconstructSurvival(b, ts, hr)
		var worst float64
		for i, ti := range ts {
			if dev := math.Abs(rec[i] - a.At(ti)); dev > worst {
				worst = dev
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hazard ratio (A relative to B): %.4f\n", hr)
		fmt.Fprintf(cmd.OutOrStdout(), "largest reconstruction deviation: %.2e\n", worst)

		p, err := figure.RatioPlot(a, b, ts, dt)
		if err != nil {
			return err
		}
		return writeFigure("hazard_ratio.png", p)
	},
	DisableAutoGenTag: true,
}

var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Apply a published hazard ratio to a reported survival proportion.",
	Long: `trial reads published two-arm study summaries and, for each one,
estimates the treatment arm's survival from the reference arm's survival
and the reported hazard ratio, along with the implied relative risk. When
no studies file is configured the built-in NSABP B-06 twenty-year
follow-up summary is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var studies []trial.Study
		if path := Cfg.GetString("Studies"); path != "" {
			f, err := os.Open(os.ExpandEnv(path))
			if err != nil {
				return fmt.Errorf("survival: opening studies file: %v", err)
			}
			defer f.Close()
			studies, err = trial.ReadStudies(f)
			if err != nil {
				return err
			}
		} else {
			studies = []trial.Study{trial.Fisher2002}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "study\tyears\treference\tS(reference)\ttreatment\tHR\tS(treatment) est.\tRR est.")
		for _, s := range studies {
			fmt.Fprintf(w, "%s\t%g\t%s\t%.4f\t%s\t%.4f\t%.4f\t%.4f\n",
				s.Name, s.Years, s.Reference.Name, s.Reference.Survival,
				s.Treatment, s.HR, s.EstimatedSurvival(), s.EstimatedRR())
		}
		return w.Flush()
	},
	DisableAutoGenTag: true,
}
