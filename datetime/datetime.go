// @license
// Copyright (C) 2025  Dinko Korunic
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package datetime converts TDSB Connects API timestamps into time.Time values.
//
// Different endpoints use different conventions: UTC timestamps with a Z suffix,
// naive timestamps in school board local time, and timestamps carrying an explicit
// numeric UTC offset. Parse accepts all three, in that order of precedence.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // America/Toronto must resolve on hosts without zoneinfo
)

const (
	LayoutNaive       = "2006-01-02T15:04:05"       // naive timestamp, no zone designator
	LayoutOffsetColon = "2006-01-02T15:04:05-07:00" // explicit numeric offset, ISO 8601 extended
	LayoutOffset      = "2006-01-02T15:04:05-0700"  // explicit numeric offset, ISO 8601 basic
	LayoutDate        = "02012006"                  // DDMMYYYY as used in endpoint paths
	BoardTimezone     = "America/Toronto"
)

var ErrParse = errors.New("unable to parse value")

// Toronto returns the board civil timezone with its historical DST rules.
var Toronto = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(BoardTimezone)
	if err != nil {
		// unreachable with embedded tzdata
		panic(err)
	}

	return loc
})

// Parse converts an API timestamp to time.Time. A trailing Z is parsed as UTC, otherwise the
// timestamp is taken as local board time, falling back to an embedded numeric UTC offset.
//
// Local wall clock times that occur twice when DST ends resolve to the standard time
// occurrence. Wall clock times skipped when DST starts are read with the standard offset,
// so 02:30 on the spring transition day is the instant 03:30 EDT.
func Parse(timestamp string) (time.Time, error) {
	if naive, ok := strings.CutSuffix(timestamp, "Z"); ok {
		t, err := time.ParseInLocation(LayoutNaive, naive, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrParse, timestamp)
		}

		return t, nil
	}

	if wall, err := time.ParseInLocation(LayoutNaive, timestamp, time.UTC); err == nil {
		return localize(wall, Toronto()), nil
	}

	for _, layout := range []string{LayoutOffsetColon, LayoutOffset} {
		if t, err := time.Parse(layout, timestamp); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: timestamp %q", ErrParse, timestamp)
}

// localize interprets the UTC fields of wall as a wall clock reading in loc, preferring
// standard time whenever the reading is ambiguous or skipped.
func localize(wall time.Time, loc *time.Location) time.Time {
	// zone offsets in effect half a day either side of the reading
	_, before := wall.Add(-12 * time.Hour).In(loc).Zone()
	_, after := wall.Add(12 * time.Hour).In(loc).Zone()

	var candidates []time.Time

	for _, offset := range []int{before, after} {
		t := wall.Add(-time.Duration(offset) * time.Second).In(loc)
		if _, actual := t.Zone(); actual != offset {
			continue
		}

		if len(candidates) == 0 || !candidates[0].Equal(t) {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0]
	case 2:
		if candidates[0].IsDST() {
			return candidates[1]
		}

		return candidates[0]
	}

	// skipped reading: apply whichever surrounding offset is standard time
	standard := before
	if wall.Add(-12 * time.Hour).In(loc).IsDST() {
		standard = after
	}

	return wall.Add(-time.Duration(standard) * time.Second).In(loc)
}

// FormatDate renders t as DDMMYYYY, zero-padded, in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(LayoutDate)
}
