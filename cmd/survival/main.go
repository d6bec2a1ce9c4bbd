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

// Command survival is the command-line interface to the survival-curve
// and hazard-ratio toolkit.
package main

import (
	"fmt"
	"os"

	"github.com/epimodel/survival/survutil"
)

func main() {
	if err := survutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
