/*
 * stf.go, part of rmsstats.
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

package stf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	v3 "github.com/rmera/rmsstats/v3"
)

// DefaultPrec is the precision used when none is given: coordinates are kept to 0.01 A.
const DefaultPrec = 2

// Writer writes an STF trajectory.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	b         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	mult      float64
}

// NewWriter creates the file name and writes the header for a trajectory of natoms atoms per frame.
// The compression is chosen by extension (.stz for gzip, .str for deflate, zstd otherwise).
// The header is written in alphabetical order of its keys. If it doesn't contain "prec",
// DefaultPrec is used.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("can't write frames of %d atoms", natoms), name, []string{"NewWriter"}, true}
	}
	prec := DefaultPrec
	if p, ok := header["prec"]; ok {
		var err error
		if prec, err = strconv.Atoi(p); err != nil || prec <= 0 {
			return nil, Error{fmt.Sprintf("invalid precision %q", p), name, []string{"NewWriter"}, true}
		}
	}
	S := &Writer{natoms: natoms, filename: name, mult: math.Pow(10, float64(prec))}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	switch ext(name) {
	case 'z':
		S.h, err = gzip.NewWriterLevel(S.f, gzip.BestCompression)
	case 'r':
		S.h, err = flate.NewWriter(S.f, flate.BestCompression)
	default:
		S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	if err != nil {
		S.f.Close()
		return nil, Error{"can't start compression: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.b = bufio.NewWriter(S.h)
	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if k != "prec" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fmt.Fprintf(S.b, "prec=%d\n", prec)
	for _, k := range keys {
		fmt.Fprintf(S.b, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(S.b, "** %d\n", natoms)
	S.writeable = true
	return S, nil
}

// Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

// WNext writes the coordinates in coord as a new frame, with the box vectors
// in box, if given.
func (S *Writer) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	if v := coord.NVecs(); v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	for i := 0; i < S.natoms; i++ {
		fmt.Fprintf(S.b, "%d %d %d\n", S.encode(coord.At(i, 0)), S.encode(coord.At(i, 1)), S.encode(coord.At(i, 2)))
	}
	var err error
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		_, err = fmt.Fprintf(S.b, "* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n", b[0],
			b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		_, err = S.b.WriteString("*\n")
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

func (S *Writer) encode(f float64) int {
	return int(math.RoundToEven(f * S.mult))
}

// Close flushes the trajectory and closes the file. The Writer can't be used after this call.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.b.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

// Reader reads an STF trajectory.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	mult     float64
	readable bool
}

// zstd.Decoder.Close doesn't return an error.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func ext(name string) byte {
	name = strings.ToLower(name)
	if name == "" {
		return 0
	}
	return name[len(name)-1]
}

// New opens an STF trajectory for reading, and returns the handle and a map with the header.
func New(name string) (*Reader, map[string]string, error) {
	S := &Reader{filename: name, natoms: -1}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, Error{err.Error(), name, []string{"New"}, true}
	}
	in := bufio.NewReader(S.f)
	switch ext(name) {
	case 'z':
		S.dec, err = gzip.NewReader(in)
	case 'r':
		S.dec = flate.NewReader(in)
	default:
		var d *zstd.Decoder
		d, err = zstd.NewReader(in)
		if err == nil {
			S.dec = zstdCloser{d}
		}
	}
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"can't read header: " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.close()
			return nil, nil, Error{"can't read header: " + err.Error(), name, []string{"New"}, true}
		}
		str = strings.TrimSpace(str)
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				S.close()
				return nil, nil, Error{fmt.Sprintf("can't read the atom number from '%s'", str), name, []string{"New"}, true}
			}
			if S.natoms, err = strconv.Atoi(nat[1]); err != nil || S.natoms <= 0 {
				S.close()
				return nil, nil, Error{fmt.Sprintf("can't read the atom number from '%s'", nat[1]), name, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			S.close()
			return nil, nil, Error{fmt.Sprintf("malformed header line '%s'", str), name, []string{"New"}, true}
		}
		m[kv[0]] = kv[1]
	}
	prec := DefaultPrec
	if p, ok := m["prec"]; ok {
		if pr, err := strconv.Atoi(p); err == nil && pr > 0 {
			prec = pr
		} else {
			log.Printf("stf: invalid precision %q for trajectory %s, will assume %d", p, name, DefaultPrec)
		}
	}
	S.mult = math.Pow(10, float64(prec))
	S.readable = true
	return S, m, nil
}

// Readable returns true if it is possible to call Next on the handle.
func (S *Reader) Readable() bool {
	return S.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *Reader) Len() int {
	return S.natoms
}

func (S *Reader) decode(str string, temp *[3]float64) error {
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill-formatted coordinates line: %d fields in '%s'", len(s), str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / S.mult
	}
	return nil
}

// Next puts in c the coordinates for the next frame of the trajectory and, if
// given and present in the file, the box vectors in box. If c is nil, the frame
// is read and checked, but not kept. At the end of the trajectory, Next returns
// an error for which IsLastFrame is true, and closes the handle.
func (S *Reader) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("matrix of %d rows given for frames of %d atoms", c.NVecs(), S.natoms), S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && i == 0 && b == "" {
				S.Close()
				return newLastFrameError(S.filename, "Next")
			}
			return Error{fmt.Sprintf("reading atom %d: %s", i+1, err), S.filename, []string{"Next"}, true}
		}
		if err = S.decode(strings.TrimSpace(b), &temp); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return Error{"can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if s[0] != '*' {
		return Error{WrongFormat + ": wrong number of atoms in frame", S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		fields := strings.Fields(s)
		if len(fields) < 10 {
			log.Printf("stf: trajectory %s does not contain box information", S.filename)
			return nil
		}
		for j, v := range fields[1:10] {
			if box[0][j], err = strconv.ParseFloat(v, 64); err != nil {
				log.Printf("stf: failed to read the box in a frame from %s", S.filename)
				for k := range box[0] {
					box[0][k] = 0
				}
				break
			}
		}
	}
	return nil
}

func (S *Reader) close() {
	S.dec.Close()
	S.f.Close()
}

// Close closes the trajectory, and marks it as unreadable.
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.close()
	S.readable = false
}

// ReadAll reads all the frames in the trajectory name, and returns them, with the header.
func ReadAll(name string) ([]*v3.Matrix, map[string]string, error) {
	S, header, err := New(name)
	if err != nil {
		return nil, nil, err
	}
	defer S.Close()
	var frames []*v3.Matrix
	for {
		c := v3.Zeros(S.Len())
		if err := S.Next(c); err != nil {
			if IsLastFrame(err) {
				break
			}
			return nil, nil, errDecorate(err, "ReadAll")
		}
		frames = append(frames, c)
	}
	return frames, header, nil
}

//Errors

// errDecorate decorates err with the caller's name, if it is one of the errors of this package.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}

// Error is the general structure for STF trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error. As the receiver is a value, the returned
// slice must be used to keep the decoration.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

// lastFrameError signals the normal end of a trajectory.
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing. It marks the error as a normal end of trajectory.
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "stf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

// IsLastFrame returns true if err marks the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var l interface{ NormalLastFrameTermination() }
	return errors.As(err, &l)
}
