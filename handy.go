/*
 * handy.go, part of rmsstats.
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
	"sort"
	"strconv"
	"strings"
)

// ParseRanges parses a comma-separated list of integers and inclusive ranges, such as "1-10,15,20-22",
// and returns the corresponding integers minus offset, in the order given. With offset 1, 1-based
// atom numbers become 0-based indexes. An empty string gives a nil slice.
func ParseRanges(s string, offset int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	ret := make([]int, 0, 10)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		//the first character can be a minus sign for negative residue numbers.
		sep := strings.Index(field[1:], "-")
		if sep < 0 {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("ParseRanges: can't parse %q: %w", field, err)
			}
			ret = append(ret, v-offset)
			continue
		}
		sep++
		first, err := strconv.Atoi(strings.TrimSpace(field[:sep]))
		if err != nil {
			return nil, fmt.Errorf("ParseRanges: can't parse range start in %q: %w", field, err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(field[sep+1:]))
		if err != nil {
			return nil, fmt.Errorf("ParseRanges: can't parse range end in %q: %w", field, err)
		}
		if last < first {
			return nil, fmt.Errorf("ParseRanges: range %q ends before it starts", field)
		}
		for i := first; i <= last; i++ {
			ret = append(ret, i-offset)
		}
	}
	return ret, nil
}

// FormatRanges is the inverse of ParseRanges: it returns a compact, sorted, representation
// of the integers in list, plus offset, such as "1-10,15".
func FormatRanges(list []int, offset int) string {
	if len(list) == 0 {
		return ""
	}
	l := make([]int, len(list))
	copy(l, list)
	sort.Ints(l)
	s := make([]string, 0, len(l))
	start := l[0]
	prev := l[0]
	flush := func() {
		if start == prev {
			s = append(s, strconv.Itoa(start+offset))
		} else {
			s = append(s, fmt.Sprintf("%d-%d", start+offset, prev+offset))
		}
	}
	for _, v := range l[1:] {
		if v == prev || v == prev+1 {
			prev = v
			continue
		}
		flush()
		start, prev = v, v
	}
	flush()
	return strings.Join(s, ",")
}

// SplitList splits a comma-separated list, such as "A,B" and returns the non-empty,
// trimmed, elements.
func SplitList(s string) []string {
	var ret []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

//Some internal convenience functions.

// isInInt returns true if test is in container, false otherwise.
func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

// Same as the previous, but with strings.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
