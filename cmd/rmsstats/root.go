/*
 * root.go, part of rmsstats.
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
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rmera/rmsstats"
	"github.com/rmera/rmsstats/chemjson"
	"github.com/rmera/rmsstats/chemplot"
	"github.com/rmera/rmsstats/traj/stf"
)

const envPrefix = "RMSSTATS"

// newViper returns a viper that takes RMSSTATS_* environment variables,
// with dashes in keys replaced by underscores (RMSSTATS_REPORT_PATH).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// newRootCommand returns the rmsstats command. stdin is only read in JSON mode.
// Flags take precedence over environment variables, which take precedence over
// the configuration file.
func newRootCommand(stdin io.Reader) *cobra.Command {
	v := newViper()
	var config string
	cmd := &cobra.Command{
		Use:   "rmsstats [flags] FILE",
		Short: "Pairwise RMSD statistics across the states of a structure",
		Long: "rmsstats calculates the RMSD between every pair of states (models) of a structure,\n" +
			"for all the selected atoms and for the selected non-hydrogen atoms, and reports the mean\n" +
			"and standard deviation, the mean per state and, optionally, every pair value.\n" +
			"Coordinates are compared as given: the states are not superimposed first.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if config == "" {
				return nil
			}
			v.SetConfigFile(config)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading configuration %q: %w", config, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("json") {
				return runJSON(v, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFile(v, args[0], cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&config, "config", "", "YAML configuration file with defaults for the flags")
	f.String("object", "", "name of the structure in reports (default: the file name)")
	f.String("atoms", "", "1-based atom numbers to select, e.g. 1-20,25")
	f.String("chains", "", "chains to select, e.g. A,B")
	f.String("resids", "", "residue numbers to select, e.g. 1-50")
	f.String("resnames", "", "residue names to select, e.g. A,G,C,U")
	f.Int("level", int(rmsstats.PerState), "report detail: 0 summary, 1 per-state means, 2 every pair")
	f.Bool("export", false, "write the report to a file")
	f.String("report-path", ".", "directory for a timestamped report, or the report file name")
	f.BoolP("quiet", "q", false, "don't print the report")
	f.Int("cores", 1, "goroutines used for the pairwise RMSDs")
	f.String("plot-dir", "", "if given, write a heat map and a histogram of the RMSDs for each mode there")
	f.String("traj", "", "STF trajectory with the states; FILE then only provides the atoms")
	f.String("dump", "", "write the selected atoms, in all states, to this XYZ or STF file")
	f.Bool("json", false, "read a chemjson stream from the standard input and write the result as JSON")
	return cmd
}

func options(v *viper.Viper) *rmsstats.Options {
	return &rmsstats.Options{
		Object:     v.GetString("object"),
		Level:      rmsstats.Level(v.GetInt("level")),
		Export:     v.GetBool("export"),
		ReportPath: v.GetString("report-path"),
		Cores:      v.GetInt("cores"),
	}
}

// filter builds the atom filter from the selection flags.
func filter(v *viper.Viper) (*rmsstats.Filter, error) {
	var err error
	F := new(rmsstats.Filter)
	F.Chains = rmsstats.SplitList(v.GetString("chains"))
	F.Resnames = rmsstats.SplitList(v.GetString("resnames"))
	if F.Residues, err = rmsstats.ParseRanges(v.GetString("resids"), 0); err != nil {
		return nil, fmt.Errorf("--resids: %w", err)
	}
	if F.Atoms, err = rmsstats.ParseRanges(v.GetString("atoms"), 1); err != nil {
		return nil, fmt.Errorf("--atoms: %w", err)
	}
	return F, nil
}

func runFile(v *viper.Viper, name string, out io.Writer) error {
	O := options(v)
	if O.Object == "" {
		O.Object = objectName(name)
	}
	F, err := filter(v)
	if err != nil {
		return err
	}
	if !F.Empty() {
		O.Selection = F.String()
	}
	mol, err := rmsstats.FileRead(name)
	if err != nil {
		return err
	}
	if traj := v.GetString("traj"); traj != "" {
		if mol, err = trajStates(mol, traj); err != nil {
			return err
		}
	}
	sel := rmsstats.Select(mol, F)
	if d := v.GetString("dump"); d != "" {
		if err := dump(mol, sel, d); err != nil {
			return fmt.Errorf("--dump: %w", err)
		}
	}
	R := rmsstats.MoleculeRMSStats(mol, sel, O)
	return finish(v, R, out)
}

// trajStates returns a molecule with the atoms of mol and the states in the trajectory traj.
func trajStates(mol *rmsstats.Molecule, traj string) (*rmsstats.Molecule, error) {
	frames, _, err := stf.ReadAll(traj)
	if err != nil {
		return nil, err
	}
	return rmsstats.NewMolecule(frames, mol.Topology)
}

// dump writes the atoms of mol in sel (all, if sel is nil) to name, as an STF trajectory
// if the extension is .stf, .stz or .str, and as an XYZ file otherwise.
func dump(mol *rmsstats.Molecule, sel []int, name string) error {
	if sel != nil {
		var err error
		if mol, err = mol.Sub(sel); err != nil {
			return err
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".stf", ".stz", ".str":
		w, err := stf.NewWriter(name, mol.Len(), nil)
		if err != nil {
			return err
		}
		for _, c := range mol.Coords {
			if err := w.WNext(c); err != nil {
				w.Close()
				return err
			}
		}
		return w.Close()
	default:
		return rmsstats.XYZFileWrite(name, mol)
	}
}

// finish prints the report for R, and writes the plots, as requested. It returns the error in R, if any.
func finish(v *viper.Viper, R *rmsstats.Result, out io.Writer) error {
	quiet := v.GetBool("quiet")
	if !quiet {
		if err := R.WriteReport(out, R.Level); err != nil {
			return err
		}
		switch {
		case R.ReportFile != "":
			fmt.Fprintf(out, "Report exported to: %s\n", R.ReportFile)
		case !v.GetBool("export"):
			exportHint(out)
		}
	}
	if dir := v.GetString("plot-dir"); dir != "" && !R.Fatal() {
		names, err := chemplot.ResultPlots(R, dir)
		if err != nil {
			log.Printf("plots: %v", err)
		}
		if !quiet {
			for _, n := range names {
				fmt.Fprintf(out, "Plot written to: %s\n", n)
			}
		}
	}
	return R.Err()
}

func exportHint(out io.Writer) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	fmt.Fprintln(out, "To export the report to a file, use --export.")
	fmt.Fprintln(out, "Set a specified path with --report-path.")
	fmt.Fprintf(out, "In absence of a specified path, the report will be saved in the current working directory: %s\n", wd)
}

// runJSON reads options and a molecule in chemjson format from in, and writes the result to out.
// The report, unless quiet, goes to rep.
func runJSON(v *viper.Viper, in io.Reader, out, rep io.Writer) error {
	stdin := bufio.NewReader(in)
	JO, jerr := chemjson.DecodeOptions(stdin)
	if jerr != nil {
		return sendError(jerr, out)
	}
	O, sel, jerr := chemjson.Job(JO)
	if jerr != nil {
		return sendError(jerr, out)
	}
	if len(JO.AtomsPerSel) == 0 || len(JO.StatesPerSel) == 0 {
		return sendError(chemjson.NewError("options", "runJSON", fmt.Errorf("the number of atoms and states must be given")), out)
	}
	top, coords, jerr := chemjson.DecodeMolecule(stdin, JO.AtomsPerSel[0], JO.StatesPerSel[0])
	if jerr != nil {
		return sendError(jerr, out)
	}
	if O.Selection == "" && sel != nil {
		O.Selection = "index " + rmsstats.FormatRanges(sel, 1)
	}
	R := rmsstats.RMSStats(coords, top.HydrogenFlags(), sel, O)
	if jerr = chemjson.SendResult(R, out); jerr != nil {
		return jerr
	}
	return finish(v, R, rep)
}

func sendError(jerr *chemjson.Error, out io.Writer) error {
	fmt.Fprintln(out, string(jerr.Marshal()))
	return jerr
}

// objectName returns the name of the file without directories and extensions (compression included).
func objectName(name string) string {
	base := filepath.Base(name)
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
