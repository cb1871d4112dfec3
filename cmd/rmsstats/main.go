/*
 * main.go, part of rmsstats.
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

// Command rmsstats calculates the RMSD between all pairs of states of a structure,
// with and without hydrogens, and reports the statistics.
//
//	rmsstats [flags] FILE
//
// FILE can be a multi-model PDB or a multi-frame XYZ file, optionally compressed
// with gzip (.gz) or zstd (.zst). With --json, a chemjson stream is read from the
// standard input instead, and the result is written as JSON to the standard output.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("rmsstats: ")
	if err := newRootCommand(os.Stdin).Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
