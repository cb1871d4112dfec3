/*
 * chem.go, part of rmsstats.
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

	v3 "github.com/rmera/rmsstats/v3"
)

// Atom contains the information read for each atom, except for the coordinates,
// which are kept, one matrix per state, in the Molecule.
type Atom struct {
	Name    string
	ID      int
	Molname string //residue name
	Molid   int    //residue number
	Chain   string
	Symbol  string
	Het     bool // is hetatm in the pdb file?
}

// IsHydrogen returns true if the atom is a hydrogen (or deuterium).
// If the atom has no symbol, it is guessed from the name.
func (A *Atom) IsHydrogen() bool {
	s := A.Symbol
	if s == "" {
		s, _ = symbolFromName(A.Name)
	}
	return isHydrogenSymbol(s)
}

/*****Topology type***/

// Topology contains the information about a molecule which is not expected to change between states
// (i.e. everything except for coordinates).
type Topology struct {
	Atoms []*Atom
}

// NewTopology returns a topology with the given atoms. The slice is not copied.
func NewTopology(ats []*Atom) *Topology {
	return &Topology{Atoms: ats}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// HydrogenFlags returns a slice with one element per atom in the topology,
// true for the hydrogen atoms.
func (T *Topology) HydrogenFlags() []bool {
	return HydrogenFlags(T)
}

// SomeAtoms returns a topology with the atoms listed in atomlist, in that order.
// The atoms are shared with T.
func (T *Topology) SomeAtoms(atomlist []int) (*Topology, error) {
	ret := make([]*Atom, 0, len(atomlist))
	for k, j := range atomlist {
		if j < 0 || j >= T.Len() {
			return nil, newError(InvalidSelection, "Topology.SomeAtoms", "atom requested (number: %d, value: %d) out of range", k, j)
		}
		ret = append(ret, T.Atoms[j])
	}
	return NewTopology(ret), nil
}

// HydrogenFlags returns a slice with one element per atom in mol, true for the hydrogen atoms.
func HydrogenFlags(mol Atomer) []bool {
	ret := make([]bool, mol.Len())
	for i := range ret {
		ret[i] = mol.Atom(i).IsHydrogen()
	}
	return ret
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The coordinates, which change between states,
// are stored separately from the other atomic info.
type Molecule struct {
	*Topology
	Coords []*v3.Matrix
}

// NewMolecule makes a molecule from a topology and one coordinate matrix per state.
// It returns a StructuralInconsistency error if any state has a number of coordinates
// different from the number of atoms in the topology.
func NewMolecule(coords []*v3.Matrix, top Atomer) (*Molecule, error) {
	if top == nil {
		return nil, newError(ObjectNotFound, "NewMolecule", "supplied a nil topology")
	}
	if len(coords) == 0 {
		return nil, newError(ObjectNotFound, "NewMolecule", "no states given")
	}
	mol := new(Molecule)
	if t, ok := top.(*Topology); ok {
		mol.Topology = t
	} else {
		mol.Topology = new(Topology)
		mol.Atoms = make([]*Atom, top.Len())
		for i := 0; i < top.Len(); i++ {
			mol.Atoms[i] = top.Atom(i)
		}
	}
	mol.Coords = coords
	if err := mol.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return mol, nil
}

// Corrupted checks that every state has as many coordinates as the molecule has atoms.
func (M *Molecule) Corrupted() error {
	for i, c := range M.Coords {
		if c == nil {
			return newError(StructuralInconsistency, "Molecule.Corrupted", "state %d has no coordinates", i+1)
		}
		if c.NVecs() != M.Len() {
			return newError(StructuralInconsistency, "Molecule.Corrupted", "state %d has %d coordinates, but the molecule has %d atoms", i+1, c.NVecs(), M.Len())
		}
	}
	return nil
}

// States returns the number of states (coordinate sets) in the molecule.
func (M *Molecule) States() int {
	return len(M.Coords)
}

// Sub returns a new molecule containing only the atoms in atomlist, in all states.
// The atoms are shared with M but the coordinates are copied.
func (M *Molecule) Sub(atomlist []int) (*Molecule, error) {
	top, err := M.SomeAtoms(atomlist)
	if err != nil {
		return nil, errDecorate(err, "Molecule.Sub")
	}
	if len(atomlist) == 0 {
		return nil, newError(EmptySelection, "Molecule.Sub", "no atoms selected")
	}
	coords := make([]*v3.Matrix, len(M.Coords))
	for i, c := range M.Coords {
		coords[i] = v3.Zeros(len(atomlist))
		if err := coords[i].SomeVecsSafe(c, atomlist); err != nil {
			return nil, fmt.Errorf("Molecule.Sub: state %d: %w", i+1, err)
		}
	}
	return NewMolecule(coords, top)
}
