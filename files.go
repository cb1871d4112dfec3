/*
 * files.go, part of rmsstats.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v3 "github.com/rmera/rmsstats/v3"
)

// readCloser closes a decompressor and then the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// writeCloser closes (and flushes) a compressor and then the underlying file.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// compression returns the compression suffix of name (".gz", ".zst" or "") and
// the lowercase extension of the file without it.
func compression(name string) (comp, ext string) {
	low := strings.ToLower(name)
	for _, c := range []string{".gz", ".zst"} {
		if strings.HasSuffix(low, c) {
			comp = c
			low = strings.TrimSuffix(low, c)
			break
		}
	}
	return comp, filepath.Ext(low)
}

// openFile opens name for reading, decompressing it with gzip or zstd if
// its name ends with .gz or .zst.
func openFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	comp, _ := compression(name)
	switch comp {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("openFile: %s: %w", name, err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("openFile: %s: %w", name, err)
		}
		zr := dec.IOReadCloser()
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	}
	return f, nil
}

// createFile creates name for writing, compressing with gzip or zstd if
// its name ends with .gz or .zst.
func createFile(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	comp, _ := compression(name)
	switch comp {
	case ".gz":
		gz := gzip.NewWriter(f)
		return &writeCloser{Writer: gz, closers: []io.Closer{gz, f}}, nil
	case ".zst":
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("createFile: %s: %w", name, err)
		}
		return &writeCloser{Writer: enc, closers: []io.Closer{enc, f}}, nil
	}
	return f, nil
}

// FileRead reads a multi-state structure from the file name. The format is taken from the extension:
// .pdb and .ent files are read as PDB, .xyz as XYZ. Files with an additional .gz or .zst extension
// are decompressed. A file that doesn't exist gives an ObjectNotFound error.
func FileRead(name string) (*Molecule, error) {
	_, ext := compression(name)
	var read func(io.Reader) (*Molecule, error)
	switch ext {
	case ".pdb", ".ent":
		read = PDBRead
	case ".xyz":
		read = XYZRead
	default:
		return nil, fmt.Errorf("FileRead: unknown format for file %s", name)
	}
	fin, err := openFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapError(ObjectNotFound, "FileRead", err, "can't open %s", name)
		}
		return nil, fmt.Errorf("FileRead: %w", err)
	}
	defer fin.Close()
	mol, err := read(fin)
	if err != nil {
		return nil, errDecorate(err, "FileRead "+name)
	}
	return mol, nil
}

// PDBFileRead reads a multi-model PDB file, which can be gzip or zstd compressed.
func PDBFileRead(name string) (*Molecule, error) {
	fin, err := openFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapError(ObjectNotFound, "PDBFileRead", err, "can't open %s", name)
		}
		return nil, fmt.Errorf("PDBFileRead: %w", err)
	}
	defer fin.Close()
	return PDBRead(fin)
}

// XYZFileRead reads a multi-frame XYZ file, which can be gzip or zstd compressed.
func XYZFileRead(name string) (*Molecule, error) {
	fin, err := openFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapError(ObjectNotFound, "XYZFileRead", err, "can't open %s", name)
		}
		return nil, fmt.Errorf("XYZFileRead: %w", err)
	}
	defer fin.Close()
	return XYZRead(fin)
}

/***PDB***/

// parseCoord parses one coordinate. NaN and infinities are not coordinates.
func parseCoord(s string) (float64, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, newError(StructuralInconsistency, "parseCoord", "non-finite coordinate %q", strings.TrimSpace(s))
	}
	return c, nil
}

// readFullPDBLine parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates, which are returned
// separately.
func readFullPDBLine(line string, contlines int) (*Atom, [3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return nil, coords, fmt.Errorf("line %d too short for a PDB atom", contlines)
	}
	err := make([]error, 5) //accumulate errors to check at the end of the read line.
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	//PDB says that pos. 17 is for other thing but I see that is
	//used for residue name in many cases
	atom.Molname = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.Molid, err[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], err[2] = parseCoord(line[30:38])
	coords[1], err[3] = parseCoord(line[38:46])
	coords[2], err[4] = parseCoord(line[46:54])
	if len(line) >= 78 {
		atom.Symbol = normalizeSymbol(line[76:78])
	}
	//If the symbol is not there, it is guessed from the name.
	if atom.Symbol == "" {
		var serr error
		atom.Symbol, serr = symbolFromName(atom.Name)
		if serr != nil {
			log.Printf("PDBRead: line %d: %v", contlines, serr)
		}
	}
	for i := range err {
		if err[i] != nil {
			return nil, coords, fmt.Errorf("line %d: %w", contlines, err[i])
		}
	}
	return atom, coords, nil
}

// readOnlyCoordsPDBLine parses a PDB line if only the coordinates are to be read.
func readOnlyCoordsPDBLine(line string, contlines int) ([3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return coords, fmt.Errorf("line %d too short for a PDB atom", contlines)
	}
	var err error
	for i, start := range []int{30, 38, 46} {
		coords[i], err = parseCoord(line[start : start+8])
		if err != nil {
			return coords, fmt.Errorf("line %d: %w", contlines, err)
		}
	}
	return coords, nil
}

// PDBRead reads the ATOM and HETATM entries of a PDB stream, with one state per model.
// The atoms of the first model are used for the topology, the following models only contribute
// coordinates. A model with a different number of atoms gives a StructuralInconsistency error.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	atoms := make([]*Atom, 0, 100)
	coords := [][]float64{make([]float64, 0, 300)}
	firstModel := true //are we reading the first model? if not we only save coordinates
	scanner := bufio.NewScanner(pdb)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	contlines := 0 //count the lines read to better report errors
	for scanner.Scan() {
		contlines++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			var c [3]float64
			var err error
			if firstModel {
				var at *Atom
				at, c, err = readFullPDBLine(line, contlines)
				if err == nil {
					atoms = append(atoms, at)
				}
			} else {
				c, err = readOnlyCoordsPDBLine(line, contlines)
			}
			if err != nil {
				return nil, fmt.Errorf("PDBRead: %w", err)
			}
			coords[len(coords)-1] = append(coords[len(coords)-1], c[:]...)
		case strings.HasPrefix(line, "MODEL"):
			//new bunch of coords for a new state, unless the current one is still empty.
			if len(coords[len(coords)-1]) > 0 {
				firstModel = false
				coords = append(coords, make([]float64, 0, len(atoms)*3))
			}
		case strings.HasPrefix(line, "ENDMDL"):
			if len(atoms) > 0 {
				firstModel = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("PDBRead: %w", err)
	}
	//a trailing MODEL record without atoms.
	if len(coords) > 1 && len(coords[len(coords)-1]) == 0 {
		coords = coords[:len(coords)-1]
	}
	return buildMolecule(atoms, coords, "PDBRead")
}

// buildMolecule makes a molecule out of the atoms and the raw coordinates for each state.
func buildMolecule(atoms []*Atom, coords [][]float64, caller string) (*Molecule, error) {
	if len(atoms) == 0 {
		return nil, newError(ObjectNotFound, caller, "no atoms found")
	}
	states := make([]*v3.Matrix, len(coords))
	for i, c := range coords {
		if len(c) != 3*len(atoms) {
			return nil, newError(StructuralInconsistency, caller, "state %d has %d atoms, but state 1 has %d", i+1, len(c)/3, len(atoms))
		}
		var err error
		states[i], err = v3.NewMatrix(c)
		if err != nil {
			return nil, fmt.Errorf("%s: state %d: %w", caller, i+1, err)
		}
	}
	return NewMolecule(states, NewTopology(atoms))
}

/***XYZ***/

// XYZRead reads a multi-frame XYZ stream. Each frame is a line with the number of atoms,
// a comment line, and one "Symbol X Y Z" line per atom. Every frame must have the same atoms.
func XYZRead(xyz io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(xyz)
	contlines := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		contlines++
		return scanner.Text(), true
	}
	var atoms []*Atom
	var coords [][]float64
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		natoms, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("XYZRead: line %d: expected the number of atoms: %w", contlines, err)
		}
		if atoms != nil && natoms != len(atoms) {
			return nil, newError(StructuralInconsistency, "XYZRead", "frame %d has %d atoms, but frame 1 has %d", len(coords)+1, natoms, len(atoms))
		}
		if _, ok = next(); !ok { //comment
			return nil, fmt.Errorf("XYZRead: unexpected end of file in frame %d", len(coords)+1)
		}
		frame := make([]float64, 0, 3*natoms)
		first := atoms == nil
		for i := 0; i < natoms; i++ {
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("XYZRead: unexpected end of file in frame %d", len(coords)+1)
			}
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return nil, fmt.Errorf("XYZRead: line %d: expected a symbol and 3 coordinates", contlines)
			}
			for _, f := range fields[1:4] {
				c, err := parseCoord(f)
				if err != nil {
					return nil, fmt.Errorf("XYZRead: line %d: %w", contlines, err)
				}
				frame = append(frame, c)
			}
			if first {
				sym := normalizeSymbol(fields[0])
				if !knownSymbols[sym] {
					log.Printf("XYZRead: line %d: unknown element %s", contlines, fields[0])
				}
				atoms = append(atoms, &Atom{Name: fields[0], ID: i + 1, Symbol: sym})
			}
		}
		if first && atoms == nil {
			atoms = []*Atom{}
		}
		coords = append(coords, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("XYZRead: %w", err)
	}
	return buildMolecule(atoms, coords, "XYZRead")
}

// XYZWrite writes all the states of mol to out, in XYZ format.
func XYZWrite(out io.Writer, mol *Molecule) error {
	if err := mol.Corrupted(); err != nil {
		return errDecorate(err, "XYZWrite")
	}
	w := bufio.NewWriter(out)
	for i, c := range mol.Coords {
		fmt.Fprintf(w, "%d\nstate %d\n", mol.Len(), i+1)
		for j := 0; j < mol.Len(); j++ {
			sym := mol.Atom(j).Symbol
			if sym == "" {
				sym = mol.Atom(j).Name
			}
			fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", sym, c.At(j, 0), c.At(j, 1), c.At(j, 2))
		}
	}
	return w.Flush()
}

// XYZFileWrite writes all the states of mol to the file name, compressing it if the
// name ends with .gz or .zst.
func XYZFileWrite(name string, mol *Molecule) error {
	fout, err := createFile(name)
	if err != nil {
		return fmt.Errorf("XYZFileWrite: %w", err)
	}
	err = XYZWrite(fout, mol)
	cerr := fout.Close()
	if err != nil {
		return errDecorate(err, "XYZFileWrite")
	}
	if cerr != nil {
		return fmt.Errorf("XYZFileWrite: %w", cerr)
	}
	return nil
}
