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

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dkorunic/tdsb-connects/format"
	"github.com/dkorunic/tdsb-connects/ical"
	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/dkorunic/tdsb-connects/objects"
	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2/maybe"
)

const calendarFileMode = 0o644

// printReport writes timetable and day cycle names of every school in the report to w.
func printReport(w io.Writer, r userReport, markup bool) error {
	for _, s := range r.schools {
		var out string
		if markup {
			out = format.MarkupTimetable(r.user.Name(), s.school.Name(), s.timetable)
		} else {
			out = format.PlainTimetable(r.user.Name(), s.school.Name(), s.timetable)
		}

		if len(s.dayCycles) > 0 {
			out += "\n" + format.PlainDayCycles(r.user.Name(), s.school.Name(), s.dayCycles)
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}

	return nil
}

// writeCalendar encodes timetable items as iCalendar and atomically replaces file with the result.
func writeCalendar(file string, items []*objects.TimetableItem) error {
	var buf bytes.Buffer

	if err := ical.Encode(&buf, items); err != nil {
		return err
	}

	if err := maybe.WriteFile(file, buf.Bytes(), calendarFileMode); err != nil {
		return err
	}

	logger.Info().Msgf("Exported %v timetable events (%v) to %v", len(items), humanize.Bytes(uint64(buf.Len())), file)

	return nil
}
