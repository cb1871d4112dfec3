/*
 * json_test.go, part of rmsstats.
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

package chemjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rmera/rmsstats"
	v3 "github.com/rmera/rmsstats/v3"
)

func testMolecule(Te *testing.T) (*rmsstats.Topology, []*v3.Matrix) {
	Te.Helper()
	top := rmsstats.NewTopology([]*rmsstats.Atom{
		{Name: "CA", ID: 1, Molname: "GLY", Molid: 1, Chain: "A", Symbol: "C"},
		{Name: "HA2", ID: 2, Molname: "GLY", Molid: 1, Chain: "A", Symbol: "H"},
	})
	var states []*v3.Matrix
	for _, c := range [][]float64{{0, 0, 0, 1, 0, 0}, {0, 3, 0, 1, 0, 0}, {4, 0, 0, 1, 0, 2}} {
		m, err := v3.NewMatrix(c)
		if err != nil {
			Te.Fatal(err)
		}
		states = append(states, m)
	}
	return top, states
}

// The whole trip: the host sends options and the molecule, and gets the result back.
func TestJob(Te *testing.T) {
	top, states := testMolecule(Te)
	var in bytes.Buffer
	O := &Options{
		SelNames:      []string{"gly"},
		AtomsPerSel:   []int{top.Len()},
		StatesPerSel:  []int{len(states)},
		StringOptions: [][]string{{"chain A"}},
		IntOptions:    [][]int{{2, 2}},
		BoolOptions:   [][]bool{{false}},
	}
	if err := json.NewEncoder(&in).Encode(O); err != nil {
		Te.Fatal(err)
	}
	if err := SendMolecule(top, states, &in); err != nil {
		Te.Fatal(err)
	}
	stream := bufio.NewReader(&in)
	O2, jerr := DecodeOptions(stream)
	if jerr != nil {
		Te.Fatal(jerr)
	}
	if diff := cmp.Diff(O, O2); diff != "" {
		Te.Errorf("options changed (-sent +received):\n%s", diff)
	}
	top2, states2, jerr := DecodeMolecule(stream, O2.AtomsPerSel[0], O2.StatesPerSel[0])
	if jerr != nil {
		Te.Fatal(jerr)
	}
	if diff := cmp.Diff(top.Atoms, top2.Atoms); diff != "" {
		Te.Errorf("atoms changed (-sent +received):\n%s", diff)
	}
	for i := range states {
		if !cmp.Equal(states[i].RawMatrix().Data, states2[i].RawMatrix().Data) {
			Te.Errorf("state %d changed: %v", i+1, states2[i])
		}
	}
	ro, sel, jerr := Job(O2)
	if jerr != nil {
		Te.Fatal(jerr)
	}
	if ro.Object != "gly" || ro.Selection != "chain A" || ro.Level != rmsstats.Full || ro.Cores != 2 || ro.Export || ro.ReportPath != "." || sel != nil {
		Te.Errorf("unexpected job options %+v, selection %v", ro, sel)
	}
	R := rmsstats.RMSStats(states2, top2.HydrogenFlags(), sel, ro)
	var out bytes.Buffer
	if jerr = SendResult(R, &out); jerr != nil {
		Te.Fatal(jerr)
	}
	R2 := new(rmsstats.Result)
	if err := json.Unmarshal(out.Bytes(), R2); err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(R.Modes, R2.Modes); diff != "" {
		Te.Errorf("statistics changed (-sent +received):\n%s", diff)
	}
	if *R2.Mode(rmsstats.NoHydrogen).Mean != 4 || R2.AtomCounts[rmsstats.All] != 2 {
		Te.Errorf("unexpected statistics: %+v", R2.Mode(rmsstats.NoHydrogen))
	}
	var ats bytes.Buffer
	if jerr = EncodeAtoms(top, json.NewEncoder(&ats)); jerr != nil {
		Te.Fatal(jerr)
	}
	lines := strings.Split(strings.TrimSpace(ats.String()), "\n")
	at := new(rmsstats.Atom)
	if len(lines) != 2 || json.Unmarshal([]byte(lines[1]), at) != nil || !at.IsHydrogen() {
		Te.Errorf("unexpected atoms %q", lines)
	}
}

func TestJobSelection(Te *testing.T) {
	O := new(Options)
	if err := json.Unmarshal([]byte(`{"SelNames":["obj"],"IntOptions":[[0],[]],"StringOptions":[["", "/tmp"]],"BoolOptions":[[true]]}`), O); err != nil {
		Te.Fatal(err)
	}
	ro, sel, jerr := Job(O)
	if jerr != nil {
		Te.Fatal(jerr)
	}
	if sel == nil || len(sel) != 0 {
		Te.Errorf("an empty selection must not become 'everything': %v", sel)
	}
	if !ro.Export || ro.ReportPath != "/tmp" || ro.Level != rmsstats.Summary {
		Te.Errorf("unexpected options %+v", ro)
	}
	if _, _, jerr = Job(&Options{}); jerr == nil || !jerr.InOptions {
		Te.Error("a job without an object should fail")
	}
}

func TestErrors(Te *testing.T) {
	top, states := testMolecule(Te)
	var in bytes.Buffer
	if err := SendMolecule(top, states, &in); err != nil {
		Te.Fatal(err)
	}
	//one state less than announced.
	lines := strings.Split(strings.TrimSpace(in.String()), "\n")
	trunc := strings.Join(lines[:len(lines)-1], "\n")
	_, got, jerr := DecodeMolecule(bufio.NewReader(strings.NewReader(trunc)), 2, 3)
	if jerr == nil || jerr.State != 3 || len(got) != 2 {
		Te.Errorf("expected an error in state 3, got %v (%d states)", jerr, len(got))
	}
	if _, _, jerr = DecodeMolecule(bufio.NewReader(strings.NewReader("{\"Name\":\"CA\"}\n{\"Coords\":[1,2]}\n")), 1, 1); jerr == nil {
		Te.Error("expected an error for 2 coordinates")
	}
	if _, jerr = DecodeOptions(bufio.NewReader(strings.NewReader("not json\n"))); jerr == nil || !jerr.InOptions {
		Te.Error("expected an options error")
	}
	//errors from the calculation carry their kind.
	R := rmsstats.RMSStats(states[:1], []bool{true}, nil, nil)
	var out bytes.Buffer
	if jerr = SendResult(R, &out); jerr != nil {
		Te.Fatal(jerr)
	}
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		Te.Fatalf("expected the result and an error, got %d lines", len(lines))
	}
	E := new(Error)
	if err := json.Unmarshal([]byte(lines[1]), E); err != nil {
		Te.Fatal(err)
	}
	if !E.IsError || E.Kind != rmsstats.StructuralInconsistency || !E.Critical() || !E.InProcess {
		Te.Errorf("unexpected error %+v", E)
	}
	if !bytes.Contains(E.Marshal(), []byte(`"Kind":"StructuralInconsistency"`)) {
		Te.Errorf("unexpected serialized error %s", E.Marshal())
	}
}
