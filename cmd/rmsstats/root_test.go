/*
 * root_test.go, part of rmsstats.
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


package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/rmsstats"
	"github.com/rmera/rmsstats/chemjson"
)

const ensemble = "../../test/ensemble.pdb"

func execute(Te *testing.T, stdin string, args ...string) (string, error) {
	Te.Helper()
	cmd := newRootCommand(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFile(Te *testing.T) {
	dir := Te.TempDir()
	out, err := execute(Te, "", "--level", "2", "--plot-dir", dir, ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	for _, s := range []string{"Object: ensemble", "Resolved selection: (ensemble) and (all)", "States inspected: 3", "  All: 6", "  Heavy (no H): 4",
		"set to => 2 (full detail)", "To export the report to a file, use --export.", "Plot written to: "} {
		if !strings.Contains(out, s) {
			Te.Errorf("output lacks %q:\n%s", s, out)
		}
	}
	plots, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	if len(plots) != 4 {
		Te.Errorf("expected 4 plots, got %v", plots)
	}
}

func TestSelectionFlags(Te *testing.T) {
	out, err := execute(Te, "", "--chains", "B", "--object", "prot", ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "Resolved selection: (prot) and (chain B)") || !strings.Contains(out, "  All: 2") {
		Te.Errorf("unexpected report:\n%s", out)
	}
	out, err = execute(Te, "", "--atoms", "3-4", ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "(index 3-4)") || !strings.Contains(out, "  Heavy (no H): 0") || !strings.Contains(out, "no atoms matched") {
		Te.Errorf("unexpected report for a hydrogen-only selection:\n%s", out)
	}
	if _, err = execute(Te, "", "--atoms", "7", ensemble); rmsstats.KindOf(err) != rmsstats.InvalidSelection {
		Te.Errorf("expected %s, got %v", rmsstats.InvalidSelection, err)
	}
	if _, err = execute(Te, "", "--resids", "x", ensemble); err == nil {
		Te.Error("expected an error for a broken range")
	}
}

func TestExportFlags(Te *testing.T) {
	dir := Te.TempDir()
	out, err := execute(Te, "", "--export", "--report-path", dir, "--quiet", ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if out != "" {
		Te.Errorf("quiet runs should print nothing, got:\n%s", out)
	}
	reports, _ := filepath.Glob(filepath.Join(dir, "rms_report_ensemble_*.txt"))
	if len(reports) != 1 {
		Te.Errorf("expected one report, got %v", reports)
	}
	_, err = execute(Te, "", "--export", "--report-path", filepath.Join(dir, "nothere", "r.txt"), "--quiet", ensemble)
	if rmsstats.KindOf(err) != rmsstats.ReportWriteFailure {
		Te.Errorf("expected %s, got %v", rmsstats.ReportWriteFailure, err)
	}
}

func TestConfig(Te *testing.T) {
	conf := filepath.Join(Te.TempDir(), "rmsstats.yaml")
	if err := os.WriteFile(conf, []byte("level: 2\nchains: A\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	out, err := execute(Te, "", "--config", conf, ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "set to => 2 (full detail)") || !strings.Contains(out, "(chain A)") {
		Te.Errorf("configuration not used:\n%s", out)
	}
	//the environment takes precedence over the file, and the flags over both.
	Te.Setenv("RMSSTATS_LEVEL", "0")
	out, err = execute(Te, "", "--config", conf, ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "set to => 0 (average values only)") {
		Te.Errorf("environment not used:\n%s", out)
	}
	out, err = execute(Te, "", "--config", conf, "--level", "1", ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "set to => 1 (") {
		Te.Errorf("flag not used:\n%s", out)
	}
	if _, err = execute(Te, "", "--config", conf+".missing", ensemble); err == nil {
		Te.Error("expected an error for a missing configuration file")
	}
}

func TestHelpAndErrors(Te *testing.T) {
	out, err := execute(Te, "")
	if err != nil || !strings.Contains(out, "Usage:") {
		Te.Errorf("expected the help, got %v:\n%s", err, out)
	}
	if _, err = execute(Te, "", "../../test/nothere.pdb"); rmsstats.KindOf(err) != rmsstats.ObjectNotFound {
		Te.Errorf("expected %s, got %v", rmsstats.ObjectNotFound, err)
	}
	if n := objectName("/data/my.ens.xyz.GZ"); n != "my.ens" {
		Te.Errorf("unexpected object name %q", n)
	}
}

func TestJSON(Te *testing.T) {
	mol, err := rmsstats.FileRead(ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	var in bytes.Buffer
	O := &chemjson.Options{
		SelNames:     []string{"ens"},
		AtomsPerSel:  []int{mol.Len()},
		StatesPerSel: []int{mol.States()},
		IntOptions:   [][]int{{0, 2}, {0, 1}},
	}
	if err := json.NewEncoder(&in).Encode(O); err != nil {
		Te.Fatal(err)
	}
	if jerr := chemjson.SendMolecule(mol, mol.Coords, &in); jerr != nil {
		Te.Fatal(jerr)
	}
	out, err := execute(Te, in.String(), "--json", "--quiet")
	if err != nil {
		Te.Fatal(err)
	}
	R := new(rmsstats.Result)
	if err := json.Unmarshal([]byte(out), R); err != nil {
		Te.Fatalf("%v:\n%s", err, out)
	}
	if R.Selection != "(ens) and (index 1-2)" || R.AtomCounts[rmsstats.All] != 2 || R.States != 3 {
		Te.Errorf("unexpected result %+v", R)
	}
	out, err = execute(Te, "{\"SelNames\":[]}\n", "--json")
	if err == nil || !strings.Contains(out, `"InOptions":true`) {
		Te.Errorf("expected an options error, got %v:\n%s", err, out)
	}
}

// The selection is dumped, and the dumped states are used as a trajectory.
func TestTrajectory(Te *testing.T) {
	dir := Te.TempDir()
	all := filepath.Join(dir, "ens.stf")
	sel := filepath.Join(dir, "chainB.stz")
	if _, err := execute(Te, "", "--quiet", "--dump", all, ensemble); err != nil {
		Te.Fatal(err)
	}
	if _, err := execute(Te, "", "--quiet", "--chains", "B", "--dump", sel, ensemble); err != nil {
		Te.Fatal(err)
	}
	xyz := filepath.Join(dir, "chainB.xyz.gz")
	if _, err := execute(Te, "", "--quiet", "--chains", "B", "--dump", xyz, ensemble); err != nil {
		Te.Fatal(err)
	}
	mol, err := rmsstats.FileRead(xyz)
	if err != nil || mol.Len() != 2 || mol.States() != 3 {
		Te.Fatalf("unexpected dump: %v", err)
	}
	out, err := execute(Te, "", "--traj", all, ensemble)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "States inspected: 3") || !strings.Contains(out, "  All: 6") {
		Te.Errorf("unexpected report:\n%s", out)
	}
	if _, err = execute(Te, "", "--traj", sel, ensemble); rmsstats.KindOf(err) != rmsstats.StructuralInconsistency {
		Te.Errorf("expected %s, got %v", rmsstats.StructuralInconsistency, err)
	}
	if _, err = execute(Te, "", "--traj", filepath.Join(dir, "nothere.stf"), ensemble); err == nil {
		Te.Error("expected an error for a missing trajectory")
	}
}
