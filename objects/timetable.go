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

package objects

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dkorunic/tdsb-connects/datetime"
)

type timetableRecord struct {
	Period       string `mapstructure:"Period"`
	Code         string `mapstructure:"ClassCode"`
	Name         string `mapstructure:"ClassName"`
	Block        string `mapstructure:"Block"`
	Room         string `mapstructure:"RoomNo"`
	TeacherName  string `mapstructure:"TeacherName"`
	TeacherEmail string `mapstructure:"TeacherEmail"`
	StartTime    string `mapstructure:"StartTime"`
	EndTime      string `mapstructure:"EndTime"`
	CycleDay     string `mapstructure:"CycleDay"`
	Semester     int    `mapstructure:"Semester"`
	Term         int    `mapstructure:"Term"`
}

// timetableDay is the per-school entry of a GetTimeTable response, keyed by school code.
type timetableDay struct {
	CourseTable []timetableRecord `mapstructure:"CourseTable"`
}

// TimetableItem is a single scheduled course on a given day.
type TimetableItem struct {
	fetcher Fetcher
	rec     timetableRecord
}

// FetchTimetable fetches the student timetable for a school code and day. It returns nil items and
// nil error when f has no authenticated session yet.
func FetchTimetable(ctx context.Context, f Fetcher, schoolCode int, date time.Time) ([]*TimetableItem, error) {
	body, err := f.GetEndpoint(ctx, TimetablePath(schoolCode, date))
	if err != nil || body == nil {
		return nil, err
	}

	return NewTimetable(f, schoolCode, body)
}

// NewTimetable builds timetable items out of a GetTimeTable response body for a school code.
func NewTimetable(f Fetcher, schoolCode int, body []byte) ([]*TimetableItem, error) {
	v, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	var days map[string]timetableDay
	if err := decodeRecord(v, &days); err != nil {
		return nil, err
	}

	day, ok := days[strconv.Itoa(schoolCode)]
	if !ok {
		return nil, fmt.Errorf("%w: no timetable for school %d", ErrMissingField, schoolCode)
	}

	items := make([]*TimetableItem, 0, len(day.CourseTable))
	for _, rec := range day.CourseTable {
		items = append(items, &TimetableItem{fetcher: f, rec: rec})
	}

	return items, nil
}

func (t *TimetableItem) Period() string       { return t.rec.Period }
func (t *TimetableItem) Code() string         { return t.rec.Code }
func (t *TimetableItem) Name() string         { return t.rec.Name }
func (t *TimetableItem) Block() string        { return t.rec.Block }
func (t *TimetableItem) Room() string         { return t.rec.Room }
func (t *TimetableItem) TeacherName() string  { return t.rec.TeacherName }
func (t *TimetableItem) TeacherEmail() string { return t.rec.TeacherEmail }
func (t *TimetableItem) CycleDay() string     { return t.rec.CycleDay }
func (t *TimetableItem) Semester() int        { return t.rec.Semester }
func (t *TimetableItem) Term() int            { return t.rec.Term }

func (t *TimetableItem) Start() (time.Time, error) {
	return datetime.Parse(t.rec.StartTime)
}

func (t *TimetableItem) End() (time.Time, error) {
	return datetime.Parse(t.rec.EndTime)
}
