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

// Package survival is a toolkit for working with survival curves and the
// quantities derived from them: death rates, hazard rates, cumulative
// hazards, hazard ratios, and relative risks.
//
// A survival curve is represented by the Curve interface, which any caller
// can implement; the estimators in this package only ever evaluate curves,
// they never store them. Derivatives are approximated with an explicit
// forward-difference step so that callers control the accuracy-stability
// trade-off of the numerical differentiation.
package survival

// Version gives the version number of this copy of the toolkit.
const Version = "1.1.0"
