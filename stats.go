/*
 * stats.go, part of rmsstats.
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
	"gonum.org/v1/gonum/stat"

	v3 "github.com/rmera/rmsstats/v3"
)

// Stats contains the pairwise RMSD statistics for one mode.
// Fields that are not defined for the data (for instance, the
// standard deviation with less than 2 pairs) are nil.
type Stats struct {
	Mode      Mode
	AtomCount int
	Atoms     []int      `json:",omitempty"` //the mask, 0-based.
	States    int
	Pairs     []PairRMSD `json:",omitempty"` //in the order given by Pairs(States)

	//Mean RMSD of each state against all the others. nil with less than 2 states
	//or no atoms.
	StateMeans []float64 `json:",omitempty"`
	Mean       *float64  `json:",omitempty"`
	SD         *float64  `json:",omitempty"` //sample standard deviation.

	//EmptySelection or InsufficientStates, when the mode has no pairs.
	Notice Kind `json:",omitempty"`
}

// ComputeStats calculates the statistics of the RMSD between all pairs of
// states, considering only the atoms in mask.
// An empty mask gives a Stats with Notice EmptySelection,
// and less than 2 states, one with Notice InsufficientStates. In both cases,
// no error is returned.
func ComputeStats(mode Mode, states []*v3.Matrix, mask []int, cores int) (*Stats, error) {
	S := &Stats{Mode: mode, AtomCount: len(mask), Atoms: mask, States: len(states)}
	if len(mask) == 0 {
		S.Notice = EmptySelection
		return S, nil
	}
	if len(states) < 2 {
		S.Notice = InsufficientStates
		return S, nil
	}
	pairs, err := PairRMSDs(states, mask, cores)
	if err != nil {
		return nil, errDecorate(err, "ComputeStats")
	}
	S.Pairs = pairs
	S.aggregate()
	return S, nil
}

// aggregate fills the per-state and overall statistics from S.Pairs.
func (S *Stats) aggregate() {
	values := S.Values()
	if len(values) == 0 {
		return
	}
	//The pairs are visited in canonical order, so each state's
	//values are always summed in the same order.
	perstate := make([][]float64, S.States)
	for _, v := range S.Pairs {
		perstate[v.Pair.I] = append(perstate[v.Pair.I], v.RMSD)
		perstate[v.Pair.J] = append(perstate[v.Pair.J], v.RMSD)
	}
	S.StateMeans = make([]float64, S.States)
	for i, v := range perstate {
		S.StateMeans[i] = stat.Mean(v, nil)
	}
	mean := stat.Mean(values, nil)
	S.Mean = &mean
	if len(values) < 2 {
		return
	}
	_, sd := stat.MeanStdDev(values, nil)
	S.SD = &sd
}

// Empty returns true if the mode has no atoms.
func (S *Stats) Empty() bool {
	return S.AtomCount == 0
}

// Values returns the RMSD of all pairs, in the order of S.Pairs.
func (S *Stats) Values() []float64 {
	ret := make([]float64, len(S.Pairs))
	for i, v := range S.Pairs {
		ret[i] = v.RMSD
	}
	return ret
}

// RMSD returns the RMSD between the states i and j (0-based, in any order) and true,
// or 0 and false if the pair was not computed.
func (S *Stats) RMSD(i, j int) (float64, bool) {
	if i == j || i < 0 || j < 0 || i >= S.States || j >= S.States || len(S.Pairs) == 0 {
		return 0, false
	}
	p := NewPair(i, j)
	//Pairs are in lexicographic order, so the position can be computed directly.
	k := p.I*S.States - p.I*(p.I+1)/2 + (p.J - p.I - 1)
	if k >= len(S.Pairs) || S.Pairs[k].Pair != p {
		return 0, false
	}
	return S.Pairs[k].RMSD, true
}

// PairMap returns the RMSD values in a map, indexed by pair.
func (S *Stats) PairMap() map[Pair]float64 {
	ret := make(map[Pair]float64, len(S.Pairs))
	for _, v := range S.Pairs {
		ret[v.Pair] = v.RMSD
	}
	return ret
}

// StatePairs returns the RMSD values for all pairs that include state i (0-based), in
// canonical pair order.
func (S *Stats) StatePairs(i int) []PairRMSD {
	ret := make([]PairRMSD, 0, S.States-1)
	for _, v := range S.Pairs {
		if v.Pair.Has(i) {
			ret = append(ret, v)
		}
	}
	return ret
}

// StateMean returns the mean RMSD of state i (0-based) and true, or 0 and false if undefined.
func (S *Stats) StateMean(i int) (float64, bool) {
	if i < 0 || i >= len(S.StateMeans) {
		return 0, false
	}
	return S.StateMeans[i], true
}
