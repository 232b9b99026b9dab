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

package format

import (
	"strings"
	"time"

	"github.com/dkorunic/tdsb-connects/datetime"
	"github.com/dkorunic/tdsb-connects/objects"
)

const (
	TimetablePrefix = "Timetable: "  // timetable title prefix
	DayCyclePrefix  = "Day cycles: " // day cycle title prefix
	LayoutClock     = "15:04"
	unknownTime     = "??:??"
)

// PlainTimetable formats timetable as cleartext block in a string.
func PlainTimetable(username, school string, items []*objects.TimetableItem) string {
	sb := &strings.Builder{}

	plainAddHeader(sb, TimetablePrefix, username, school)
	plainFormatItems(sb, items)

	return sb.String()
}

// PlainDayCycles formats day cycle names as cleartext block in a string.
func PlainDayCycles(username, school string, names []string) string {
	sb := &strings.Builder{}

	plainAddHeader(sb, DayCyclePrefix, username, school)
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString("\n")

	return sb.String()
}

// plainFormatItems formats one timetable item per line.
//
//nolint:interfacer
func plainFormatItems(sb *strings.Builder, items []*objects.TimetableItem) {
	if len(items) == 0 {
		sb.WriteString("No classes\n")

		return
	}

	for _, it := range items {
		formatItem(sb, it)
		sb.WriteString("\n")
	}
}

// PlainFormatSubject adds cleartext header containing prefix, username and school.
//
//nolint:interfacer
func PlainFormatSubject(sb *strings.Builder, prefix, user, school string) {
	sb.WriteString(prefix)
	sb.WriteString(user)
	sb.WriteString(" / ")
	sb.WriteString(school)
}

// plainAddHeader adds cleartext header containing username and school name, and a delimiter.
func plainAddHeader(sb *strings.Builder, prefix, user, school string) {
	PlainFormatSubject(sb, prefix, user, school)
	sb.WriteString("\n\n")
}

// formatItem writes a single timetable row with class times in board local time.
func formatItem(sb *strings.Builder, it *objects.TimetableItem) {
	sb.WriteString(it.Period())
	sb.WriteString(". ")
	sb.WriteString(clock(it.Start))
	sb.WriteString("-")
	sb.WriteString(clock(it.End))
	sb.WriteString(" ")
	sb.WriteString(it.Code())
	sb.WriteString(" ")
	sb.WriteString(it.Name())

	if it.Room() != "" {
		sb.WriteString(", room ")
		sb.WriteString(it.Room())
	}

	if it.TeacherName() != "" {
		sb.WriteString(", ")
		sb.WriteString(it.TeacherName())
	}
}

func clock(fn func() (time.Time, error)) string {
	t, err := fn()
	if err != nil {
		return unknownTime
	}

	return t.In(datetime.Toronto()).Format(LayoutClock)
}
