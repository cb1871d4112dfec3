/*
 * report.go, part of rmsstats.
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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rmera/rmsstats/histo"
)

const (
	rule     = "------------------------------------------------------------"
	shortRul = "----------------------------------"
	histBins = 10
	barWidth = 40
)

// fmtNum formats an optional value for reports.
func fmtNum(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

func fmtVal(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmtNum(&v)
}

// ReportLines returns the report for R, at the given level of detail, one line per element.
// All the values are taken from R; nothing is recalculated.
func (R *Result) ReportLines(level Level) []string {
	level = level.Clamp()
	l := make([]string, 0, 50)
	l = append(l, "",
		"*****************************",
		"* RMS Statistics Calculator *",
		"*****************************",
		"",
		"The level of detail in this report has been set to => "+level.String(),
		"",
		"############ Data selection ############")
	if !R.SelectionGiven() {
		l = append(l, "Note: no explicit selection was provided, so all atoms in the object were selected.",
			"It is not necessary to explicitly exclude hydrogen atoms. RMS statistics are calculated both including and excluding hydrogens automatically.",
			"")
	}
	l = append(l, "", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		"Object: "+R.Object,
		"Resolved selection: "+R.Selection,
		fmt.Sprintf("States inspected: %d", R.States))
	if R.AtomCounts != nil {
		l = append(l, "Atoms selected:",
			fmt.Sprintf("  All: %d", R.AtomCounts[All]),
			fmt.Sprintf("  Heavy (no H): %d", R.AtomCounts[NoHydrogen]))
	}
	l = append(l, "Generated: "+R.Generated.Format("2006-01-02 15:04:05"),
		"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		"",
		"########################################",
		"")
	if R.Fatal() || R.Modes == nil {
		l = append(l, "Error: "+R.Error, "")
		return l
	}
	l = append(l, "======================== RMS Summary ========================",
		fmt.Sprintf("%-16s %7s %9s %10s %10s", "Mode", "#atoms", "#values", "mean", "sd"),
		rule)
	for _, m := range Modes {
		S := R.Modes[m]
		l = append(l, fmt.Sprintf("%-16s %7d %9d %10s %10s", m.Label(), S.AtomCount, len(S.Pairs), fmtNum(S.Mean), fmtNum(S.SD)))
	}
	l = append(l, rule)
	for _, m := range Modes {
		switch R.Modes[m].Notice {
		case EmptySelection:
			l = append(l, fmt.Sprintf("Note: no atoms matched the selection for mode %q.", m.Label()))
		case InsufficientStates:
			l = append(l, fmt.Sprintf("Note: %d state(s) only, there are no pairs to compare for mode %q.", R.States, m.Label()))
		}
	}
	if level >= PerState {
		l = append(l, "Average RMS per state (n/a where unavailable):")
		for _, m := range Modes {
			S := R.Modes[m]
			l = append(l, "", m.Label()+":",
				fmt.Sprintf("%5s %12s %10s", "State", "Mean RMS", "#pairs"),
				shortRul)
			for i := 0; i < R.States; i++ {
				v, ok := S.StateMean(i)
				l = append(l, fmt.Sprintf("%5d %12s %10d", i+1, fmtVal(v, ok), len(S.StatePairs(i))))
			}
		}
		l = append(l, rule)
	}
	if level >= Full {
		l = append(l, "Detailed per-state individual pair RMS values:")
		for i := 0; i < R.States; i++ {
			for _, m := range Modes {
				S := R.Modes[m]
				v, ok := S.StateMean(i)
				l = append(l, "", fmt.Sprintf("State %d - %s (mean = %s)", i+1, m.Label(), fmtVal(v, ok)),
					fmt.Sprintf("%7s %12s", "Pair", "RMS"),
					"----------------------")
				pairs := S.StatePairs(i)
				if len(pairs) == 0 {
					l = append(l, "   (no pair RMS values)")
				}
				for _, p := range pairs {
					l = append(l, fmt.Sprintf("%7s %12s", p.Pair, fmtVal(p.RMSD, true)))
				}
			}
			l = append(l, rule)
		}
		for _, m := range Modes {
			values := R.Modes[m].Values()
			if len(values) == 0 {
				continue
			}
			bins := histBins
			if len(values) < bins {
				bins = len(values)
			}
			l = append(l, "", "Distribution of pair RMS values - "+m.Label()+":")
			l = append(l, histo.FromValues(values, bins).Bars(barWidth)...)
		}
	} else if level == Summary {
		l = append(l, "(Average RMS per state and detailed per-pair output suppressed; use level 1 to enable per-state means or level 2 for full detail)")
	} else {
		l = append(l, "(Detailed per-pair output suppressed; use level 2 to enable)")
	}
	if R.Error != "" {
		l = append(l, "Error: "+R.Error)
	}
	l = append(l, "========================================================", "")
	return l
}

// WriteReport writes the report for R, at the given level of detail, to w.
func (R *Result) WriteReport(w io.Writer, level Level) error {
	_, err := io.WriteString(w, strings.Join(R.ReportLines(level), "\n")+"\n")
	return err
}

// String returns the report at R's level.
func (R *Result) String() string {
	return strings.Join(R.ReportLines(R.Level), "\n")
}

// ReportName returns the name used for a report exported to a directory:
// rms_report_<object>[_sel_<selection>]_<YYYYMMDD_HHMMSS>.txt
func (R *Result) ReportName(t time.Time) string {
	obj := cut(sanitize(R.Object), 30)
	sel := ""
	if R.SelectionGiven() {
		s := sanitize(R.rawsel)
		for strings.Contains(s, "__") {
			s = strings.ReplaceAll(s, "__", "_")
		}
		sel = "_sel_" + cut(strings.Trim(s, "_"), 40)
	}
	return fmt.Sprintf("rms_report_%s%s_%s.txt", obj, sel, t.Format("20060102_150405"))
}

// sanitize replaces every character that is not a letter, a digit, '-' or '_' with '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}

func cut(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// Export writes the report, at R's level, to a file, and returns the absolute path of the file.
// If path is an existing directory, the file is created there, with the name given by ReportName.
// Otherwise, path is taken as the file name. Directories are not created.
// Errors are of kind ReportWriteFailure.
func (R *Result) Export(path string) (string, error) {
	if path == "" {
		path = "."
	}
	name := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		name = filepath.Join(path, R.ReportName(R.Generated))
	}
	fout, err := os.Create(name)
	if err != nil {
		return "", wrapError(ReportWriteFailure, "Result.Export", err, "Failed to write report to %q", path)
	}
	err = R.WriteReport(fout, R.Level)
	cerr := fout.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		return "", wrapError(ReportWriteFailure, "Result.Export", err, "Failed to write report to %q", path)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return name, nil
	}
	return abs, nil
}
