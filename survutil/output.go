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
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
)

// An Outputter evaluates user-defined expressions over the computed
// series, producing additional table columns. Expressions can use the
// variables supplied per row (t, Sa, Sb, ha, hb) and the functions in
// the default function set plus any caller-supplied ones.
type Outputter struct {
	names []string
	exprs map[string]*govaluate.EvaluableExpression
}

// NewOutputter compiles the named expressions and adds a set of default
// output functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log(x)' which applies the natural logarithm.
//
// 'pow(x, y)' which raises x to the power y.
func NewOutputter(variables map[string]string, functions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("survival: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return (float64)(math.Exp(arg[0].(float64))), nil
		},
		"log": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("survival: got %d arguments for function 'log', but needs 1", len(arg))
			}
			return (float64)(math.Log(arg[0].(float64))), nil
		},
		"pow": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("survival: got %d arguments for function 'pow', but needs 2", len(arg))
			}
			return (float64)(math.Pow(arg[0].(float64), arg[1].(float64))), nil
		},
	}

	for key, val := range functions {
		defaultOutputFuncs[key] = val
	}

	o := &Outputter{exprs: make(map[string]*govaluate.EvaluableExpression)}
	for name, exprStr := range variables {
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, defaultOutputFuncs)
		if err != nil {
			return nil, fmt.Errorf("survival: output variable %s: %v", name, err)
		}
		o.exprs[name] = expr
		o.names = append(o.names, name)
	}
	sort.Strings(o.names)
	return o, nil
}

// Names returns the output variable names in stable (sorted) order,
// matching the order of the values returned by Row.
func (o *Outputter) Names() []string { return o.names }

// Row evaluates every output variable against the given per-row
// variable values, in the order reported by Names.
func (o *Outputter) Row(vars map[string]interface{}) ([]float64, error) {
	out := make([]float64, len(o.names))
	for i, name := range o.names {
		v, err := o.exprs[name].Evaluate(vars)
		if err != nil {
			return nil, fmt.Errorf("survival: output variable %s: %v", name, err)
		}
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("survival: output variable %s: result %v is not a number", name, v)
		}
		out[i] = f
	}
	return out, nil
}
