/*
 * errors.go, part of rmsstats.
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
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the problems that can arise while computing RMS statistics.
type Kind int

const (
	NoProblem Kind = iota
	//the structure is absent, or no states were given.
	ObjectNotFound
	//the selection contains atoms outside the structure.
	InvalidSelection
	//states (or per-atom data) with differing atom counts.
	StructuralInconsistency
	//a mode with no atoms. Not fatal.
	EmptySelection
	//less than 2 states, so there are no pairs. Not fatal.
	InsufficientStates
	//the report could not be written. The statistics are still valid.
	ReportWriteFailure
)

var kindNames = []string{
	NoProblem:               "",
	ObjectNotFound:          "ObjectNotFound",
	InvalidSelection:        "InvalidSelection",
	StructuralInconsistency: "StructuralInconsistency",
	EmptySelection:          "EmptySelection",
	InsufficientStates:      "InsufficientStates",
	ReportWriteFailure:      "ReportWriteFailure",
}

func (K Kind) String() string {
	if K < 0 || int(K) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(K))
	}
	return kindNames[K]
}

// Fatal returns true if a problem of kind K prevents any statistics from being returned.
func (K Kind) Fatal() bool {
	return K == ObjectNotFound || K == InvalidSelection || K == StructuralInconsistency
}

// MarshalText implements encoding.TextMarshaler, so kinds show up by name in JSON.
func (K Kind) MarshalText() ([]byte, error) {
	return []byte(K.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (K *Kind) UnmarshalText(b []byte) error {
	s := string(b)
	for i, v := range kindNames {
		if v == s {
			*K = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", s)
}

// CalcError is the error type returned by the functions of this package.
// It fulfills the Error interface.
type CalcError struct {
	kind     Kind
	message  string
	deco     []string
	critical bool
	cause    error
}

func newError(kind Kind, function string, format string, a ...interface{}) *CalcError {
	return &CalcError{kind: kind, message: fmt.Sprintf(format, a...), deco: []string{function}, critical: kind.Fatal()}
}

// wrapError is like newError, but keeps cause, which is added to the message.
func wrapError(kind Kind, function string, cause error, format string, a ...interface{}) *CalcError {
	err := newError(kind, function, format, a...)
	err.cause = cause
	return err
}

// Error returns the error message, prefixed by the kind of the error.
func (err *CalcError) Error() string {
	if err.cause != nil {
		return fmt.Sprintf("%s: %s: %v", err.kind, err.message, err.cause)
	}
	return fmt.Sprintf("%s: %s", err.kind, err.message)
}

// Unwrap returns the error that caused err, if any.
func (err *CalcError) Unwrap() error { return err.cause }

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CalcError) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Trace returns the chain of functions the error went through, innermost first.
func (err *CalcError) Trace() string {
	return strings.Join(err.deco, " <- ")
}

// Critical returns true if the error is fatal for the calculation.
func (err *CalcError) Critical() bool { return err.critical }

// Kind returns the kind of the error.
func (err *CalcError) Kind() Kind { return err.kind }

// KindOf returns the Kind of err if it is, or wraps, a *CalcError.
// It returns NoProblem for nil and for other errors.
func KindOf(err error) Kind {
	var cerr *CalcError
	if errors.As(err, &cerr) {
		return cerr.kind
	}
	return NoProblem
}

// errDecorate adds caller to the decoration of err, if err is an Error,
// and returns it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}
