/*
 * report_test.go, part of rmsstats.
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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func reportResult(Te *testing.T, O *Options) *Result {
	Te.Helper()
	st := makeStates(Te,
		[]float64{0, 0, 0, 1, 0, 0},
		[]float64{0, 0, 3, 1, 0, 0},
		[]float64{0, 4, 0, 1, 0, 1})
	R := RMSStats(st, []bool{false, true}, nil, O)
	if R.Error != "" {
		Te.Fatal(R.Error)
	}
	return R
}

func TestReportLevels(Te *testing.T) {
	R := reportResult(Te, &Options{Object: "prot", Level: Full})
	var prev string
	for _, level := range []Level{Summary, PerState, Full} {
		var b bytes.Buffer
		if err := R.WriteReport(&b, level); err != nil {
			Te.Fatal(err)
		}
		rep := b.String()
		Te.Log("\n" + rep)
		if !strings.Contains(rep, "set to => "+level.String()) {
			Te.Errorf("level %d: the level is not reported", level)
		}
		for _, s := range []string{"Object: prot", "Resolved selection: (prot) and (all)", "States inspected: 3", "  All: 2", "  Heavy (no H): 1", "RMS Summary", "no explicit selection"} {
			if !strings.Contains(rep, s) {
				Te.Errorf("level %d: report lacks %q", level, s)
			}
		}
		perState := strings.Contains(rep, "Average RMS per state (n/a where unavailable):")
		full := strings.Contains(rep, "Detailed per-state individual pair RMS values:") && strings.Contains(rep, "Distribution of pair RMS values")
		if perState != (level >= PerState) || full != (level == Full) {
			Te.Errorf("level %d: wrong sections (per-state: %v, full: %v)", level, perState, full)
		}
		suppressed := strings.Contains(rep, "output suppressed")
		if suppressed != (level < Full) {
			Te.Errorf("level %d: the suppression notice is wrong", level)
		}
		//each level keeps everything the lower ones print.
		for _, line := range strings.Split(prev, "\n") {
			if line == "" || strings.HasPrefix(line, "Generated: ") || strings.Contains(line, "set to => ") || strings.Contains(line, "suppressed") {
				continue
			}
			if !strings.Contains(rep, line) {
				Te.Errorf("level %d lacks the line %q of the previous level", level, line)
			}
		}
		if len(rep) <= len(prev) {
			Te.Errorf("level %d should give a longer report than the previous one", level)
		}
		prev = rep
	}
	//the values are those of the model: 3, 4 and 5 for the heavy atom.
	S := R.Mode(NoHydrogen)
	if *S.Mean != 4 || *S.SD != 1 {
		Te.Errorf("expected mean 4 and sd 1, got %v %v", *S.Mean, *S.SD)
	}
	row := fmt.Sprintf("%-16s %7d %9d %10s %10s", "Heavy atoms", 1, 3, "4.000", "1.000")
	if !strings.Contains(prev, row) {
		Te.Errorf("summary row %q not found", row)
	}
	for i, p := range Pairs(3) {
		s := fmt.Sprintf("%7s %12s", p, fmt.Sprintf("%.3f", float64(i+3)))
		if !strings.Contains(prev, s) {
			Te.Errorf("pair line %q not found", s)
		}
	}
}

func TestReportUndefined(Te *testing.T) {
	st := makeStates(Te, []float64{0, 0, 0})
	R := RMSStats(st, []bool{true}, nil, &Options{Object: "single", Selection: "resi 3", Level: Full})
	rep := R.String()
	if !strings.Contains(rep, "n/a") || !strings.Contains(rep, "no pairs to compare") || !strings.Contains(rep, "no atoms matched") {
		Te.Errorf("undefined values and notices should be reported:\n%s", rep)
	}
	if strings.Contains(rep, "no explicit selection") {
		Te.Error("a selection was given")
	}
	R = RMSStats(nil, nil, nil, &Options{Object: "ghost"})
	if rep = R.String(); !strings.Contains(rep, "Object: ghost") || !strings.Contains(rep, "Error: ObjectNotFound") || strings.Contains(rep, "RMS Summary") {
		Te.Errorf("unexpected report for a fatal error:\n%s", rep)
	}
}

func TestReportName(Te *testing.T) {
	R := &Result{Object: "my obj/1", rawsel: "chain A and  resi 1-10"}
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if n := R.ReportName(t); n != "rms_report_my_obj_1_sel_chain_A_and_resi_1-10_20260102_030405.txt" {
		Te.Errorf("unexpected name %q", n)
	}
	R = &Result{Object: strings.Repeat("x", 40), rawsel: "all"}
	if n := R.ReportName(t); n != "rms_report_"+strings.Repeat("x", 30)+"_20260102_030405.txt" {
		Te.Errorf("unexpected name %q", n)
	}
}

func TestExport(Te *testing.T) {
	dir := Te.TempDir()
	R := reportResult(Te, &Options{Object: "prot", Selection: "chain A", Export: true, ReportPath: dir, Level: Summary})
	if R.ReportFile == "" || filepath.Dir(R.ReportFile) != dir {
		Te.Fatalf("unexpected report file %q", R.ReportFile)
	}
	if !strings.HasPrefix(filepath.Base(R.ReportFile), "rms_report_prot_sel_chain_A_") {
		Te.Errorf("unexpected report name %q", R.ReportFile)
	}
	b, err := os.ReadFile(R.ReportFile)
	if err != nil {
		Te.Fatal(err)
	}
	if string(b) != R.String()+"\n" {
		Te.Error("the exported report differs from the rendered one")
	}
	//an explicit file name.
	name := filepath.Join(dir, "report.txt")
	got, err := R.Export(name)
	if err != nil || got != name {
		Te.Errorf("expected %q, got %q (%v)", name, got, err)
	}
}

func TestExportFailure(Te *testing.T) {
	bad := filepath.Join(Te.TempDir(), "missing", "report.txt")
	R := RMSStats(makeStates(Te, []float64{0, 0, 0}, []float64{1, 0, 0}), nil, nil, &Options{Object: "o", Export: true, ReportPath: bad})
	if KindOf(R.Err()) != ReportWriteFailure {
		Te.Fatalf("expected %s, got %q", ReportWriteFailure, R.Error)
	}
	if !errors.Is(R.Err(), os.ErrNotExist) {
		Te.Errorf("the cause should be kept: %v", R.Err())
	}
	//the statistics survive.
	if R.Fatal() || R.ReportFile != "" || R.Mode(All) == nil || *R.Mode(All).Mean != 1 {
		Te.Errorf("statistics should be kept after a write failure: %+v", R)
	}
	if _, err := os.Stat(filepath.Dir(bad)); !errors.Is(err, os.ErrNotExist) {
		Te.Error("Export should not create directories")
	}
}
