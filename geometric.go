/*
 * geometric.go, part of rmsstats.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package rmsstats

import (
	"math"

	v3 "github.com/rmera/rmsstats/v3"
)

// RMSD returns the RMSD (root of the mean square deviation) for the sets of cartesian
// coordinates in test and templa. No superposition is performed, the coordinates are
// compared as given.
// If one slice of indexes is given, only the atoms in it are considered, for both sets.
// If two are given, the first one is used for test and the second for templa; they must
// have the same length. Without indexes, test and templa must have the same number of atoms.
// The sum is always accumulated in the order of the indexes, so the result is reproducible.
func RMSD(test, templa *v3.Matrix, indexes ...[]int) (float64, error) {
	if test == nil || templa == nil {
		return 0, newError(StructuralInconsistency, "RMSD", "nil coordinates")
	}
	tsr := test.NVecs()
	tmr := templa.NVecs()
	var testlst, templalst []int
	switch len(indexes) {
	case 0:
		if tsr != tmr {
			return 0, newError(StructuralInconsistency, "RMSD", "Ill formed matrices for RMSD calculation: %d and %d atoms", tsr, tmr)
		}
	case 1:
		if tsr != tmr {
			return 0, newError(StructuralInconsistency, "RMSD", "Ill formed matrices for RMSD calculation: %d and %d atoms", tsr, tmr)
		}
		testlst, templalst = indexes[0], indexes[0]
		if testlst == nil {
			return 0, newError(EmptySelection, "RMSD", "no atoms to compare")
		}
	default:
		testlst, templalst = indexes[0], indexes[1]
		if len(testlst) != len(templalst) {
			return 0, newError(StructuralInconsistency, "RMSD", "Mismatched template and test atom numbers: %d, %d", len(testlst), len(templalst))
		}
		if testlst == nil {
			return 0, newError(EmptySelection, "RMSD", "no atoms to compare")
		}
	}
	var sum float64
	var n int
	if testlst == nil {
		n = tsr
		for i := 0; i < tsr; i++ {
			sum += sqDistance(test, i, templa, i)
		}
	} else {
		n = len(testlst)
		for k, i := range testlst {
			j := templalst[k]
			if i < 0 || i >= tsr || j < 0 || j >= tmr {
				return 0, newError(InvalidSelection, "RMSD", "atom pair %d, %d out of range", i, j)
			}
			sum += sqDistance(test, i, templa, j)
		}
	}
	if n == 0 {
		return 0, newError(EmptySelection, "RMSD", "no atoms to compare")
	}
	return math.Sqrt(sum / float64(n)), nil
}

// sqDistance returns the squared euclidean distance between the ith vector
// of a and the jth of b.
func sqDistance(a *v3.Matrix, i int, b *v3.Matrix, j int) float64 {
	dx := a.At(i, 0) - b.At(j, 0)
	dy := a.At(i, 1) - b.At(j, 1)
	dz := a.At(i, 2) - b.At(j, 2)
	return dx*dx + dy*dy + dz*dz
}
