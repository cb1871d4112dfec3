/*
 * rmsstats.go, part of rmsstats.
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
	"log"
	"math"
	"strings"
	"time"

	v3 "github.com/rmera/rmsstats/v3"
)

// Level is the amount of detail in a report. Each level includes everything in the previous ones.
type Level int

const (
	Summary  Level = iota //mean and standard deviation per mode, atom and state counts.
	PerState              //plus the mean RMSD of each state.
	Full                  //plus every pair RMSD and the distribution of values.
)

// String returns a description of the level, for reports.
func (L Level) String() string {
	switch L {
	case Summary:
		return "0 (average values only)"
	case PerState:
		return "1 (global average and per-state means included)"
	case Full:
		return "2 (full detail)"
	}
	return "invalid"
}

// Clamp returns the closest valid level to L, logging a warning if L is not valid.
func (L Level) Clamp() Level {
	if L < Summary {
		log.Printf("rmsstats: invalid report level %d, using %d", L, Summary)
		return Summary
	}
	if L > Full {
		log.Printf("rmsstats: invalid report level %d, using %d", L, Full)
		return Full
	}
	return L
}

// Options contains the options for an RMS statistics calculation.
type Options struct {
	Object     string //name of the structure, only used in reports.
	Selection  string //description of the selection, only used in reports. "" or "all" mean everything.
	Level      Level
	Export     bool   //write the report to a file.
	ReportPath string //a directory, where a timestamped report will be written, or a file name.
	Cores      int    //goroutines used for the pairwise RMSDs. Less than 2 means sequential.
}

// DefaultOptions returns the options used when none are given:
// per-state report, no export, report path ".", one core.
func DefaultOptions() *Options {
	return &Options{Object: "obj", Level: PerState, ReportPath: ".", Cores: 1}
}

// Result contains the statistics for each mode, plus the information needed to report them.
// If a fatal problem was found, only Object, Selection and Error are set.
type Result struct {
	Object     string
	Selection  string //the resolved selection description.
	States     int
	Modes      map[Mode]*Stats `json:",omitempty"`
	AtomCounts map[Mode]int    `json:",omitempty"`
	ReportFile string          `json:",omitempty"`
	Error      string          `json:",omitempty"`
	Level      Level
	Generated  time.Time

	rawsel string
	err    error
}

// Err returns the error that set R.Error, if any. Its Kind can be obtained with KindOf.
func (R *Result) Err() error {
	return R.err
}

// Fatal returns true if the result has no statistics due to a fatal problem.
func (R *Result) Fatal() bool {
	return R.err != nil && KindOf(R.err).Fatal()
}

// Mode returns the statistics for the mode m, or nil if they are not available.
func (R *Result) Mode(m Mode) *Stats {
	if R.Modes == nil {
		return nil
	}
	return R.Modes[m]
}

// SelectionGiven returns true if a selection other than "everything" was used.
func (R *Result) SelectionGiven() bool {
	s := strings.TrimSpace(R.rawsel)
	return s != "" && strings.ToLower(s) != "all"
}

func (R *Result) fail(err error) *Result {
	R.States = 0
	R.Modes = nil
	R.AtomCounts = nil
	R.err = err
	R.Error = err.Error()
	return R
}

// ResolvedSelection returns the description of the atoms from the object obj picked
// by the selection sel, as used in reports.
func ResolvedSelection(obj, sel string) string {
	if strings.TrimSpace(sel) == "" {
		sel = "all"
	}
	return "(" + obj + ") and (" + sel + ")"
}

// RMSStats calculates the RMSD between all pairs of states, both for all the atoms in selection
// and for the non-hydrogen atoms in it, and the statistics derived from them.
// states contains the coordinates for each state, hydrogens flags the hydrogen atoms (it can be nil
// if there are none) and selection contains the indexes of the atoms to consider. A nil selection
// means all atoms. If O is nil, DefaultOptions is used.
// Problems are reported in the Error field of the result, never by panicking. EmptySelection and
// InsufficientStates are reported in the statistics of the affected mode instead.
// If O.Export is true, the report is written and its path is set in the ReportFile field of the result.
func RMSStats(states []*v3.Matrix, hydrogens []bool, selection []int, O *Options) *Result {
	if O == nil {
		O = DefaultOptions()
	}
	R := &Result{
		Object:    O.Object,
		Selection: ResolvedSelection(O.Object, O.Selection),
		Level:     O.Level.Clamp(),
		Generated: time.Now(),
		rawsel:    O.Selection,
	}
	if len(states) == 0 {
		return R.fail(newError(ObjectNotFound, "RMSStats", "object %q has no states", O.Object))
	}
	for i, s := range states {
		if s == nil {
			return R.fail(newError(StructuralInconsistency, "RMSStats", "state %d has no coordinates", i+1))
		}
		if s.NVecs() != states[0].NVecs() {
			return R.fail(newError(StructuralInconsistency, "RMSStats", "state %d has %d atoms, but state 1 has %d", i+1, s.NVecs(), states[0].NVecs()))
		}
		if r, c, ok := finite(s); !ok {
			return R.fail(newError(StructuralInconsistency, "RMSStats", "state %d: atom %d has a non-finite coordinate %v", i+1, r+1, s.At(r, c)))
		}
	}
	masks, err := ResolveModes(states[0].NVecs(), selection, hydrogens)
	if err != nil {
		return R.fail(errDecorate(err, "RMSStats"))
	}
	R.States = len(states)
	R.Modes = make(map[Mode]*Stats, len(Modes))
	R.AtomCounts = make(map[Mode]int, len(Modes))
	for _, m := range Modes {
		S, err := ComputeStats(m, states, masks.Mask(m), O.Cores)
		if err != nil {
			return R.fail(errDecorate(err, "RMSStats"))
		}
		R.Modes[m] = S
		R.AtomCounts[m] = S.AtomCount
	}
	if O.Export {
		name, err := R.Export(O.ReportPath)
		if err != nil {
			R.err = errDecorate(err, "RMSStats")
			R.Error = err.Error()
			return R
		}
		R.ReportFile = name
	}
	return R
}

// finite returns true if every coordinate in m is a finite number. If not, it also returns
// the position of the first one that isn't.
func finite(m *v3.Matrix) (int, int, bool) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return i, j, false
			}
		}
	}
	return 0, 0, true
}

// MoleculeRMSStats calls RMSStats with the states and hydrogen flags of mol.
func MoleculeRMSStats(mol *Molecule, selection []int, O *Options) *Result {
	if mol == nil || mol.Topology == nil {
		if O == nil {
			O = DefaultOptions()
		}
		R := &Result{Object: O.Object, Selection: ResolvedSelection(O.Object, O.Selection), Level: O.Level.Clamp(), Generated: time.Now(), rawsel: O.Selection}
		return R.fail(newError(ObjectNotFound, "MoleculeRMSStats", "no molecule given for object %q", O.Object))
	}
	return RMSStats(mol.Coords, mol.HydrogenFlags(), selection, O)
}
