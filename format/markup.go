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

	"github.com/dkorunic/tdsb-connects/objects"
)

// MarkupTimetable formats timetable as preformatted Markup block in a string.
func MarkupTimetable(username, school string, items []*objects.TimetableItem) string {
	sb := &strings.Builder{}

	markupAddHeader(sb, TimetablePrefix, username, school)

	sb.WriteString("```\n")
	plainFormatItems(sb, items)
	sb.WriteString("```\n")

	return sb.String()
}

// markupAddHeader adds Markup bold header containing prefix, username and school name.
func markupAddHeader(sb *strings.Builder, prefix, user, school string) {
	sb.WriteString("*")
	PlainFormatSubject(sb, prefix, user, school)
	sb.WriteString("*\n\n")
}
