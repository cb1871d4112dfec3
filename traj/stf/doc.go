/*
 * doc.go, part of rmsstats.
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
 *
 */

// Package stf reads and writes the simple trajectory format, a compressed text format
// for ensembles of states. rmsstats uses it to take the states of an ensemble from a
// trajectory, while the atoms are taken from a PDB or XYZ file.
//
// An STF file is compressed with z-standard (extension .stf) or, alternatively, gzip (.stz)
// or deflate (.str), and may only contain ASCII symbols.
//
// The file starts with a header of key=value lines, ending with a line that starts with
// "**", followed by one or more spaces and the number of atoms per frame. The header
// must include the precision, a positive integer, with the key "prec", for instance:
//
//	prec=2
//
// After the header, each frame has one line per atom with 3 integers: the x, y and z
// coordinates in Angstrom, multiplied by 10 to the power of the precision and rounded.
// Each frame ends with a line starting with "*", optionally followed by the 9 numbers
// of the box vectors, in Angstrom. The "**" sequence may only appear at the end of the header.
package stf
