/*
 * atomicdata.go, part of rmsstats.
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
	"strings"
)

// The elements we know about, by symbol.
// Note that just common "bio-elements" are present
var knownSymbols = map[string]bool{
	"H":  true,
	"D":  true,
	"C":  true,
	"O":  true,
	"N":  true,
	"P":  true,
	"S":  true,
	"Se": true,
	"K":  true,
	"Ca": true,
	"Mg": true,
	"Cl": true,
	"Na": true,
	"Cu": true,
	"Zn": true,
	"Co": true,
	"Fe": true,
	"Mn": true,
	"Cr": true,
	"Si": true,
	"Be": true,
	"F":  true,
	"Br": true,
	"I":  true,
}

// isHydrogenSymbol returns true for hydrogen and deuterium.
func isHydrogenSymbol(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s == "H" || s == "D"
}

// normalizeSymbol takes a symbol as found in PDB columns 77-78 or XYZ files ("CL", "cl", " C")
// and returns it with the capitalization used in knownSymbols.
func normalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return s
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	return s
}

// symbolFromName tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
// It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("Couldn't guess symbol from empty PDB name")
	}
	//Names like 1HB2 or 2HD1.
	if name[0] >= '0' && name[0] <= '9' {
		name = name[1:]
		if name == "" {
			return "", fmt.Errorf("Couldn't guess symbol from PDB name")
		}
	}
	symbol := ""
	switch {
	case name[0] == 'H':
		//HG is taken as the gamma hydrogen of Ser/Cys, not as mercury.
		symbol = "H"
	case name[0] == 'D':
		symbol = "D"
	case name[0] == 'C':
		switch name {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		default:
			symbol = "C" //Ca is not considered here
		}
	case name[0] == 'N':
		if name == "NA" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	case name[0] == 'O':
		symbol = "O"
	case name[0] == 'P':
		symbol = "P"
	case name[0] == 'S':
		if name == "SE" {
			symbol = "Se"
		} else {
			symbol = "S"
		}
	case strings.HasPrefix(name, "ZN"):
		symbol = "Zn"
	case strings.HasPrefix(name, "MG"):
		symbol = "Mg"
	case strings.HasPrefix(name, "FE"):
		symbol = "Fe"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}
