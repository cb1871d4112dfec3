/*
 * files_test.go, part of rmsstats.
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
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPDBIO(Te *testing.T) {
	mol, err := PDBFileRead("test/ensemble.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 6 || mol.States() != 3 {
		Te.Fatalf("expected 6 atoms and 3 states, got %d and %d", mol.Len(), mol.States())
	}
	at := mol.Atom(3)
	want := &Atom{Name: "HA", ID: 4, Molname: "ALA", Molid: 1, Chain: "A", Symbol: "H"}
	if diff := cmp.Diff(want, at); diff != "" {
		Te.Errorf("unexpected atom (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, false, true, true, false, false}, mol.HydrogenFlags()); diff != "" {
		Te.Errorf("unexpected hydrogen flags (-want +got):\n%s", diff)
	}
	if x := mol.Coords[1].At(1, 0); math.Abs(x-2.458) > 1e-9 {
		Te.Errorf("unexpected coordinate %v", x)
	}
	sub, err := mol.Sub([]int{4, 5})
	if err != nil {
		Te.Fatal(err)
	}
	if sub.Len() != 2 || sub.Atom(0).Chain != "B" || sub.Coords[2].At(1, 1) != mol.Coords[2].At(5, 1) {
		Te.Errorf("unexpected sub-molecule %v", sub.Coords[2])
	}
	if _, err = mol.Sub([]int{}); KindOf(err) != EmptySelection {
		Te.Errorf("expected %s, got %v", EmptySelection, err)
	}
	if _, err = mol.Sub([]int{6}); KindOf(err) != InvalidSelection {
		Te.Errorf("expected %s, got %v", InvalidSelection, err)
	}
}

func TestPDBErrors(Te *testing.T) {
	line := func(i int, name, sym string, x float64) string {
		return fmt.Sprintf("ATOM  %5d %-4s ALA A   1    %8.3f%8.3f%8.3f  1.00  0.00          %2s", i, name, x, 0.0, 0.0, sym)
	}
	short := strings.Join([]string{"MODEL 1", line(1, " N", "N", 0), line(2, " CA", "C", 1), "ENDMDL",
		"MODEL 2", line(1, " N", "N", 0), "ENDMDL"}, "\n")
	if _, err := PDBRead(strings.NewReader(short)); KindOf(err) != StructuralInconsistency {
		Te.Errorf("expected %s, got %v", StructuralInconsistency, err)
	}
	if _, err := PDBRead(strings.NewReader("REMARK nothing here\n")); KindOf(err) != ObjectNotFound {
		Te.Errorf("expected %s, got %v", ObjectNotFound, err)
	}
	if _, err := PDBRead(strings.NewReader("ATOM      1  N   ALA A   1       x.000\n")); err == nil {
		Te.Error("expected an error for a broken line")
	}
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		pdb := strings.Join([]string{"MODEL 1", line(1, " N", "N", 0), "ENDMDL", "MODEL 2", line(1, " N", "N", bad), "ENDMDL"}, "\n")
		if _, err := PDBRead(strings.NewReader(pdb)); KindOf(err) != StructuralInconsistency {
			Te.Errorf("%v: expected %s, got %v", bad, StructuralInconsistency, err)
		}
		if _, err := PDBRead(strings.NewReader(line(1, " N", "N", bad))); KindOf(err) != StructuralInconsistency {
			Te.Errorf("%v in the first model: expected %s, got %v", bad, StructuralInconsistency, err)
		}
	}
	//no MODEL records: a single state, symbols guessed from the names.
	single := strings.Join([]string{line(1, " N", "", 0), line(2, "1HB", "", 1)}, "\n")
	mol, err := PDBRead(strings.NewReader(single))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.States() != 1 || mol.Atom(0).Symbol != "N" || !mol.Atom(1).IsHydrogen() {
		Te.Errorf("unexpected molecule: %d states, symbols %s %s", mol.States(), mol.Atom(0).Symbol, mol.Atom(1).Symbol)
	}
	if _, err := FileRead("test/nothere.pdb"); KindOf(err) != ObjectNotFound {
		Te.Errorf("expected %s, got %v", ObjectNotFound, err)
	}
	if _, err := FileRead("test/ensemble.mol2"); err == nil {
		Te.Error("expected an error for an unknown format")
	}
}

// XYZ files are written and read back, plain and compressed.
func TestXYZIO(Te *testing.T) {
	mol, err := FileRead("test/ensemble.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	for _, name := range []string{"ens.xyz", "ens.xyz.gz", "ens.xyz.zst", "ENS.XYZ.GZ"} {
		name = filepath.Join(dir, name)
		if err := XYZFileWrite(name, mol); err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		mol2, err := FileRead(name)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if mol2.Len() != mol.Len() || mol2.States() != mol.States() {
			Te.Fatalf("%s: %d atoms and %d states read", name, mol2.Len(), mol2.States())
		}
		for i := range mol.Coords {
			for j := 0; j < mol.Len(); j++ {
				for k := 0; k < 3; k++ {
					if math.Abs(mol.Coords[i].At(j, k)-mol2.Coords[i].At(j, k)) > 1e-6 {
						Te.Errorf("%s: state %d, atom %d differ", name, i+1, j+1)
					}
				}
			}
		}
		if diff := cmp.Diff(mol.HydrogenFlags(), mol2.HydrogenFlags()); diff != "" {
			Te.Errorf("%s: hydrogen flags differ (-want +got):\n%s", name, diff)
		}
		mol3, err := XYZFileRead(name)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff(mol2.Topology.Atoms, mol3.Topology.Atoms); diff != "" || mol3.States() != mol.States() {
			Te.Errorf("%s: XYZFileRead and FileRead differ (-FileRead +XYZFileRead):\n%s", name, diff)
		}
	}
	if _, err := XYZFileRead(filepath.Join(dir, "nothere.xyz")); KindOf(err) != ObjectNotFound {
		Te.Errorf("expected %s, got %v", ObjectNotFound, err)
	}
	bad := "2\nframe 1\nC 0 0 0\nH 1 0 0\n1\nframe 2\nC 0 0 0\n"
	if _, err := XYZRead(strings.NewReader(bad)); KindOf(err) != StructuralInconsistency {
		Te.Errorf("expected %s, got %v", StructuralInconsistency, err)
	}
	if _, err := XYZRead(strings.NewReader("1\nnan\nC NaN 0 0\n")); KindOf(err) != StructuralInconsistency {
		Te.Errorf("expected %s, got %v", StructuralInconsistency, err)
	}
	if _, err := XYZRead(strings.NewReader("2\ntruncated\nC 0 0 0\n")); err == nil {
		Te.Error("expected an error for a truncated file")
	}
}
