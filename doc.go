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
 */

/*
Package rmsstats calculates RMSD (root-mean-square deviation) statistics between
the states (conformations) of a multi-state structure, such as an NMR ensemble or
a set of models.

	**rmsstats Capabilities**

    Calculates the RMSD between every pair of states, twice: once with all the selected
	atoms, and once with the selected atoms that are not hydrogens (or deuteriums).
	No superposition is performed. The states are expected to be already in a common
	reference frame.

    Aggregates the pair RMSDs into a mean RMSD for each state, and an overall mean and
	sample standard deviation for each mode.

    Writes reports with 3 levels of detail, to any io.Writer or to a timestamped file.

    Reads multi-model PDB and multi-frame XYZ files, plain or compressed with gzip or
	zstd.

    Selects atoms by chain, residue number, residue name and index.

The calculation is done by RMSStats, which takes plain coordinates (one v3.Matrix per state),
so it can be fed from any source. MoleculeRMSStats takes the coordinates and hydrogen flags
from a Molecule. Problems are never reported by panicking, but in the Error field of the
Result, which also allows to obtain the typed error and its Kind.

The chemjson package allows to receive structures from, and send results to, other programs
(such as a PyMOL plugin). The chemplot package draws the results.
*/
package rmsstats
