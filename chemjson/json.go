/*
 * json.go, part of rmsstats.
 *
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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/rmera/rmsstats"
	v3 "github.com/rmera/rmsstats/v3"
)

// A ready-to-serialize container for coordinates
type Coords struct {
	Coords []float64
}

// An easily JSON-serializable error type,
type Error struct {
	deco          []string
	IsError       bool //If this is false (no error) all the other fields will be at their zero-values.
	InOptions     bool //If error, was it in parsing the options?
	InSelections  bool //Was it in parsing selections?
	InProcess     bool
	InPostProcess bool          //was it in preparing the output?
	Kind          rmsstats.Kind `json:",omitempty"` //the kind of problem, if it came from rmsstats.
	Selection     string        //Which selection?
	State         int           //Which state of it?
	Atom          int
	Function      string //which go function gave the error
	Message       string //the error itself
}

// Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

// Critical returns true if the problem prevented the calculation.
func (J *Error) Critical() bool {
	return J.IsError && (J.Kind == rmsstats.NoProblem || J.Kind.Fatal())
}

// Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - ")) // Yo, dawg, I heard you like errors, so I got an error while serializing your error so you can... you know the drill.
	}
	return ret
}

// Options passed from the calling external program.
// For an RMS statistics job, SelNames[0] is the name of the object, and the other fields are
// read by Job.
type Options struct {
	SelNames      []string
	AtomsPerSel   []int //Knowing in advance makes memory allocation more efficient
	StatesPerSel  []int //How many states does each selection have?
	StringOptions [][]string
	IntOptions    [][]int
	BoolOptions   [][]bool
	FloatOptions  [][]float64
}

// Takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "options":
		jerr.InOptions = true
	case "selection":
		jerr.InSelections = true
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	jerr.Kind = rmsstats.KindOf(err)
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

// readLine reads one line. A last line without a newline is accepted.
func readLine(stream *bufio.Reader) ([]byte, error) {
	line, err := stream.ReadBytes('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	return line, err
}

// DecodeOptions Decodes or unmarshals json options into an Options structure
func DecodeOptions(stdin *bufio.Reader) (*Options, *Error) {
	line, err := readLine(stdin)
	if err != nil {
		return nil, NewError("options", "DecodeOptions", err)
	}
	ret := new(Options)
	err = json.Unmarshal(line, ret)
	if err != nil {
		return nil, NewError("options", "DecodeOptions", err)
	}
	return ret, nil
}

// Job takes the options for an RMS statistics calculation from O:
//
//	SelNames[0]: the name of the object.
//	StringOptions[0]: the description of the selection and the report path (both optional).
//	IntOptions[0]: the report level and the number of cores to use (both optional).
//	IntOptions[1]: the indexes (0-based) of the selected atoms. If absent, all atoms are used.
//	BoolOptions[0]: whether to export the report (optional).
//
// It returns the options for rmsstats.RMSStats and the selected atoms.
func Job(O *Options) (*rmsstats.Options, []int, *Error) {
	if O == nil || len(O.SelNames) == 0 || O.SelNames[0] == "" {
		return nil, nil, NewError("options", "Job", fmt.Errorf("no object given"))
	}
	ret := rmsstats.DefaultOptions()
	ret.Object = O.SelNames[0]
	if len(O.StringOptions) > 0 {
		s := O.StringOptions[0]
		if len(s) > 0 {
			ret.Selection = s[0]
		}
		if len(s) > 1 && s[1] != "" {
			ret.ReportPath = s[1]
		}
	}
	var sel []int
	if len(O.IntOptions) > 0 {
		i := O.IntOptions[0]
		if len(i) > 0 {
			ret.Level = rmsstats.Level(i[0])
		}
		if len(i) > 1 {
			ret.Cores = i[1]
		}
		if len(O.IntOptions) > 1 {
			sel = O.IntOptions[1]
			if sel == nil {
				sel = []int{} //it was given, but empty.
			}
		}
	}
	if len(O.BoolOptions) > 0 && len(O.BoolOptions[0]) > 0 {
		ret.Export = O.BoolOptions[0][0]
	}
	return ret, sel, nil
}

// DecodeMolecule Decodes a JSON molecule into a topology and a set of coordinates, one per state. Can handle several states
// (all of which need to have the same amount of atoms). The stream contains one atom line followed
// by one coordinates line per atom, for the first state, and then only coordinate lines for the others.
func DecodeMolecule(stream *bufio.Reader, atomnumber, frames int) (*rmsstats.Topology, []*v3.Matrix, *Error) {
	const funcname = "DecodeMolecule" //for the error
	if atomnumber <= 0 || frames <= 0 {
		return nil, nil, NewError("selection", funcname, fmt.Errorf("can't read %d atoms in %d states", atomnumber, frames))
	}
	atoms := make([]*rmsstats.Atom, 0, atomnumber)
	coordset := make([]*v3.Matrix, 0, frames)
	rawcoords := make([]float64, 0, 3*atomnumber)
	for i := 0; i < atomnumber; i++ {
		line, err := readLine(stream) //Using this function allocates a lot without need. There is no function that takes a []bytes AND a limit. I might write one at some point.
		if err != nil {
			return nil, nil, NewError("selection", funcname, fmt.Errorf("reading atom %d: %w", i+1, err))
		}
		at := new(rmsstats.Atom)
		err = json.Unmarshal(line, at)
		if err != nil {
			return nil, nil, NewError("selection", funcname, err)
		}
		atoms = append(atoms, at)
		line, err = readLine(stream) //See previous comment.
		if err != nil {
			return nil, nil, NewError("selection", funcname, fmt.Errorf("reading coordinates for atom %d: %w", i+1, err))
		}
		ctemp := new(Coords)
		if err = json.Unmarshal(line, ctemp); err != nil {
			return nil, nil, NewError("selection", funcname, err)
		}
		if len(ctemp.Coords) != 3 {
			return nil, nil, NewError("selection", funcname, fmt.Errorf("atom %d has %d coordinates", i+1, len(ctemp.Coords)))
		}
		rawcoords = append(rawcoords, ctemp.Coords...)
	}
	mol := rmsstats.NewTopology(atoms)
	coords, err := v3.NewMatrix(rawcoords)
	if err != nil {
		return nil, nil, NewError("selection", funcname, err)
	}
	coordset = append(coordset, coords)
	for i := 0; i < (frames - 1); i++ {
		coords, err := DecodeCoords(stream, atomnumber)
		if err != nil {
			err.State = i + 2
			err.Decorate(funcname)
			return mol, coordset, err
		}
		coordset = append(coordset, coords)
	}
	return mol, coordset, nil
}

// Decodecoords decodes streams from a bufio.Reader containing 3*atomnumber JSON floats into a v3.Matrix with atomnumber rows.
func DecodeCoords(stream *bufio.Reader, atomnumber int) (*v3.Matrix, *Error) {
	const funcname = "DecodeCoords"
	rawcoords := make([]float64, 0, 3*atomnumber)
	for i := 0; i < atomnumber; i++ {
		line, err := readLine(stream)
		if err != nil {
			jerr := NewError("selection", funcname, fmt.Errorf("reading coordinates for atom %d: %w", i+1, err))
			jerr.Atom = i + 1
			return nil, jerr
		}
		ctemp := new(Coords)
		if err = json.Unmarshal(line, ctemp); err != nil {
			return nil, NewError("selection", funcname, err)
		}
		if len(ctemp.Coords) != 3 {
			jerr := NewError("selection", funcname, fmt.Errorf("atom %d has %d coordinates", i+1, len(ctemp.Coords)))
			jerr.Atom = i + 1
			return nil, jerr
		}
		rawcoords = append(rawcoords, ctemp.Coords...)
	}
	coords, err := v3.NewMatrix(rawcoords)
	if err != nil {
		return nil, NewError("selection", funcname, err)
	}
	return coords, nil
}

// SendMolecule encodes mol and its coordinates, in the format read by DecodeMolecule, and
// writes them to out.
func SendMolecule(mol rmsstats.Atomer, coordset []*v3.Matrix, out io.Writer) *Error {
	const funcname = "SendMolecule"
	if mol == nil || len(coordset) == 0 {
		return NewError("postprocess", funcname, fmt.Errorf("nothing to send"))
	}
	enc := json.NewEncoder(out)
	c := new(Coords)
	for i := 0; i < mol.Len(); i++ {
		if err := enc.Encode(mol.Atom(i)); err != nil {
			return NewError("postprocess", funcname, err)
		}
		c.Coords = mat.Row(nil, i, coordset[0])
		if err := enc.Encode(c); err != nil {
			return NewError("postprocess", funcname, err)
		}
	}
	for _, coords := range coordset[1:] {
		if err := EncodeCoords(coords, enc); err != nil {
			err.Decorate(funcname)
			return err
		}
	}
	return nil
}

// Encodes an rmsstats Atomer into a JSON, one atom per line.
func EncodeAtoms(mol rmsstats.Atomer, enc *json.Encoder) *Error {
	const funcname = "EncodeAtoms"
	if mol == nil {
		return nil //Its assumed to be intentional.
	}
	for i := 0; i < mol.Len(); i++ {
		if err := enc.Encode(mol.Atom(i)); err != nil {
			return NewError("postprocess", funcname, err)
		}
	}
	return nil
}

// Encodes a set of coordinates into JSON
func EncodeCoords(coords *v3.Matrix, enc *json.Encoder) *Error {
	c := new(Coords)
	t := make([]float64, 3)
	for i := 0; i < coords.NVecs(); i++ {
		c.Coords = mat.Row(t, i, coords)
		if err := enc.Encode(c); err != nil {
			return NewError("postprocess", "chemjson.EncodeCoords", err)
		}
	}
	return nil
}

// SendResult writes the result of an RMS statistics calculation to out, as one line of JSON.
// If the result carries an error, a line with the corresponding Error follows.
func SendResult(R *rmsstats.Result, out io.Writer) *Error {
	const funcname = "SendResult"
	enc := json.NewEncoder(out)
	if err := enc.Encode(R); err != nil {
		return NewError("postprocess", funcname, err)
	}
	if R.Err() != nil {
		jerr := NewError("process", "rmsstats.RMSStats", R.Err())
		jerr.Selection = R.Selection
		if err := enc.Encode(jerr); err != nil {
			return NewError("postprocess", funcname, err)
		}
	}
	return nil
}
