/*
 * plotutils.go, part of rmsstats.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package chemplot

import (
	"strings"
	"unicode"

	"github.com/rmera/rmsstats"
)

//Some internal convenience functions.

// plotName returns the base name (no directory or extension) for the plots of mode m of the object obj.
func plotName(obj string, m rmsstats.Mode) string {
	obj = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, obj)
	if obj == "" {
		obj = "obj"
	}
	return "rms_" + obj + "_" + string(m)
}

// histoBins returns the number of bins used for n values, between 1 and 10.
func histoBins(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
