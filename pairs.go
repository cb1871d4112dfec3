/*
 * pairs.go, part of rmsstats.
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
	"fmt"
	"sync"

	v3 "github.com/rmera/rmsstats/v3"
)

// Pair identifies an unordered pair of different states. I and J are 0-based and I<J.
type Pair struct {
	I int
	J int
}

// NewPair returns the canonical pair for the states i and j (0-based), in any order.
// It panics if i==j, since a state is never compared with itself.
func NewPair(i, j int) Pair {
	if i == j {
		panic(fmt.Sprintf("NewPair: state %d can't be paired with itself", i))
	}
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// Has returns true if the state i is part of the pair.
func (P Pair) Has(i int) bool {
	return P.I == i || P.J == i
}

// Other returns the partner of state i in the pair. i must be part of the pair.
func (P Pair) Other(i int) int {
	if P.I == i {
		return P.J
	}
	return P.I
}

// String returns the pair with 1-based state numbers, as in "1-2".
func (P Pair) String() string {
	return fmt.Sprintf("%d-%d", P.I+1, P.J+1)
}

// PairRMSD is the RMSD between the two states of a pair.
type PairRMSD struct {
	Pair Pair
	RMSD float64
}

// NPairs returns the number of unordered pairs of different states that can be formed
// with states states.
func NPairs(states int) int {
	if states < 2 {
		return 0
	}
	return states * (states - 1) / 2
}

// Pairs returns all the pairs of different states, in lexicographic order:
// (0,1), (0,2)...(0,N-1), (1,2)...
func Pairs(states int) []Pair {
	ret := make([]Pair, 0, NPairs(states))
	for i := 0; i < states; i++ {
		for j := i + 1; j < states; j++ {
			ret = append(ret, Pair{I: i, J: j})
		}
	}
	return ret
}

// PairRMSDs returns the RMSD between each pair of states in states, considering only the
// atoms in mask, in the order given by Pairs. All states must have the same number of atoms
// and mask can't be empty. If cores is larger than 1, the pairs are distributed among that
// many goroutines. Each RMSD is always computed with the same sequential sum, so the result
// doesn't depend on cores.
func PairRMSDs(states []*v3.Matrix, mask []int, cores int) ([]PairRMSD, error) {
	if len(mask) == 0 {
		return nil, newError(EmptySelection, "PairRMSDs", "empty atom mask")
	}
	for i, s := range states {
		if s == nil {
			return nil, newError(StructuralInconsistency, "PairRMSDs", "state %d has no coordinates", i+1)
		}
		if s.NVecs() != states[0].NVecs() {
			return nil, newError(StructuralInconsistency, "PairRMSDs", "state %d has %d atoms, but state 1 has %d", i+1, s.NVecs(), states[0].NVecs())
		}
	}
	pairs := Pairs(len(states))
	ret := make([]PairRMSD, len(pairs))
	if len(pairs) == 0 {
		return ret, nil
	}
	if cores < 1 {
		cores = 1
	}
	if cores > len(pairs) {
		cores = len(pairs)
	}
	errs := make([]error, cores)
	var wg sync.WaitGroup
	//each goroutine takes every cores-th pair, starting from its own number,
	//and writes only to those slots of ret.
	work := func(start int) {
		defer wg.Done()
		for k := start; k < len(pairs); k += cores {
			p := pairs[k]
			r, err := RMSD(states[p.I], states[p.J], mask)
			if err != nil {
				errs[start] = errDecorate(err, fmt.Sprintf("PairRMSDs: pair %s", p))
				return
			}
			ret[k] = PairRMSD{Pair: p, RMSD: r}
		}
	}
	wg.Add(cores)
	for c := 1; c < cores; c++ {
		go work(c)
	}
	work(0)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}
