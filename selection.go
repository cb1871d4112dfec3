/*
 * selection.go, part of rmsstats.
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
	"sort"
	"strings"
)

// Mode is an atom-subset variant of the analysis.
type Mode string

const (
	All        Mode = "all"
	NoHydrogen Mode = "no_hydrogen"
)

// Modes contains all the modes, in the order in which they are computed and reported.
var Modes = []Mode{All, NoHydrogen}

// Label returns the name used for the mode in reports.
func (M Mode) Label() string {
	switch M {
	case All:
		return "All atoms"
	case NoHydrogen:
		return "Heavy atoms"
	}
	return string(M)
}

// Masks contains the atom indexes (0-based, sorted, unique) that take part in each mode.
type Masks struct {
	All        []int
	NoHydrogen []int
}

// Mask returns the mask for the mode m.
func (M *Masks) Mask(m Mode) []int {
	switch m {
	case All:
		return M.All
	case NoHydrogen:
		return M.NoHydrogen
	}
	return nil
}

// ResolveModes builds the masks for the two modes from the number of atoms in the structure,
// a selection of atom indexes and a per-atom hydrogen flag. A nil selection means "all the atoms",
// while an empty, non-nil one means that nothing was selected. Repeated indexes are collapsed.
// hydrogens can be nil, meaning that no atom is a hydrogen; otherwise it must have natoms elements.
// Indexes outside [0,natoms) give an InvalidSelection error.
func ResolveModes(natoms int, selection []int, hydrogens []bool) (*Masks, error) {
	if hydrogens != nil && len(hydrogens) != natoms {
		return nil, newError(StructuralInconsistency, "ResolveModes", "%d hydrogen flags given for %d atoms", len(hydrogens), natoms)
	}
	var all []int
	if selection == nil {
		all = make([]int, natoms)
		for i := range all {
			all[i] = i
		}
	} else {
		seen := make(map[int]bool, len(selection))
		all = make([]int, 0, len(selection))
		for _, v := range selection {
			if v < 0 || v >= natoms {
				return nil, newError(InvalidSelection, "ResolveModes", "atom index %d is outside the structure (%d atoms)", v, natoms)
			}
			if seen[v] {
				continue
			}
			seen[v] = true
			all = append(all, v)
		}
		sort.Ints(all)
	}
	noh := make([]int, 0, len(all))
	for _, v := range all {
		if hydrogens != nil && hydrogens[v] {
			continue
		}
		noh = append(noh, v)
	}
	return &Masks{All: all, NoHydrogen: noh}, nil
}

// Filter contains simple criteria to pick atoms from a structure: chain identifiers,
// residue numbers, residue names and atom indexes (0-based). An atom is selected if it
// matches all the criteria given. An empty criterion matches everything.
type Filter struct {
	Chains   []string
	Residues []int
	Resnames []string
	Atoms    []int
}

// Empty returns true if the filter has no criteria, i.e., it selects everything.
func (F *Filter) Empty() bool {
	return F == nil || (len(F.Chains) == 0 && len(F.Residues) == 0 && len(F.Resnames) == 0 && len(F.Atoms) == 0)
}

// String returns a human-readable description of the filter.
func (F *Filter) String() string {
	if F.Empty() {
		return "all"
	}
	s := make([]string, 0, 4)
	if len(F.Chains) > 0 {
		s = append(s, "chain "+strings.Join(F.Chains, "+"))
	}
	if len(F.Residues) > 0 {
		s = append(s, "resi "+FormatRanges(F.Residues, 0))
	}
	if len(F.Resnames) > 0 {
		s = append(s, "resn "+strings.Join(F.Resnames, "+"))
	}
	if len(F.Atoms) > 0 {
		s = append(s, "index "+FormatRanges(F.Atoms, 1))
	}
	return strings.Join(s, " and ")
}

// Describe returns the description of the selection of atoms from the object called object
// by the filter F.
func (F *Filter) Describe(object string) string {
	return "(" + object + ") and (" + F.String() + ")"
}

// Select returns the indexes of the atoms in mol that match the filter. A nil or empty filter
// returns nil, which, for ResolveModes, means "everything". If the filter has criteria but nothing
// matches, an empty, non-nil slice is returned.
// Select doesn't return errors: residues not present in mol are simply not selected. Atom indexes
// outside mol are kept in the returned slice, so ResolveModes reports them as an invalid selection.
func Select(mol Atomer, F *Filter) []int {
	if F.Empty() {
		return nil
	}
	atlist := make([]int, 0, mol.Len())
	for key := 0; key < mol.Len(); key++ {
		at := mol.Atom(key)
		if len(F.Chains) > 0 && !isInString(F.Chains, at.Chain) {
			continue
		}
		if len(F.Residues) > 0 && !isInInt(F.Residues, at.Molid) {
			continue
		}
		if len(F.Resnames) > 0 && !isInString(F.Resnames, strings.TrimSpace(at.Molname)) {
			continue
		}
		if len(F.Atoms) > 0 && !isInInt(F.Atoms, key) {
			continue
		}
		atlist = append(atlist, key)
	}
	for _, v := range F.Atoms {
		if v < 0 || v >= mol.Len() {
			atlist = append(atlist, v)
		}
	}
	return atlist
}
