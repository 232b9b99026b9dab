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

// Package ical exports timetable items as an iCalendar (RFC 5545) document.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkorunic/tdsb-connects/objects"
	"github.com/jordic/goics"
)

const (
	ProdID         = "-//dkorunic//tdsb-connects//EN"
	LayoutDateTime = "20060102T150405Z"
	UIDDomain      = "tdsb-connects"
)

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

type event struct {
	uid         string
	start, end  time.Time
	summary     string
	location    string
	description string
}

type calendar struct {
	events []event
	stamp  time.Time
}

// EmitICal builds VCALENDAR with one VEVENT per timetable item.
func (c calendar) EmitICal() goics.Componenter {
	root := goics.NewComponent()
	root.SetType("VCALENDAR")
	root.AddProperty("VERSION", "2.0")
	root.AddProperty("PRODID", ProdID)
	root.AddProperty("CALSCALE", "GREGORIAN")

	for _, e := range c.events {
		ve := goics.NewComponent()
		ve.SetType("VEVENT")
		ve.AddProperty("UID", e.uid)
		ve.AddProperty("DTSTAMP", c.stamp.UTC().Format(LayoutDateTime))
		ve.AddProperty("DTSTART", e.start.UTC().Format(LayoutDateTime))
		ve.AddProperty("DTEND", e.end.UTC().Format(LayoutDateTime))
		ve.AddProperty("SUMMARY", textEscaper.Replace(e.summary))
		ve.AddProperty("LOCATION", textEscaper.Replace(e.location))
		ve.AddProperty("DESCRIPTION", textEscaper.Replace(e.description))

		root.AddComponent(ve)
	}

	return root
}

// errWriter keeps the first write error, goics encoder does not report it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(p)
	e.err = err

	return n, err
}

// Encode writes items as a VCALENDAR document to w. Start and end times are written in UTC.
//
// An item whose start or end time does not parse aborts the export before anything is written.
func Encode(w io.Writer, items []*objects.TimetableItem) error {
	cal := calendar{
		events: make([]event, 0, len(items)),
		stamp:  time.Now(),
	}

	for _, it := range items {
		e, err := newEvent(it)
		if err != nil {
			return err
		}

		cal.events = append(cal.events, e)
	}

	ew := &errWriter{w: w}
	goics.NewICalEncode(ew).Encode(cal)

	return ew.err
}

func newEvent(it *objects.TimetableItem) (event, error) {
	start, err := it.Start()
	if err != nil {
		return event{}, err
	}

	end, err := it.End()
	if err != nil {
		return event{}, err
	}

	desc := fmt.Sprintf("Teacher: %v <%v>\nPeriod: %v, Block: %v\nCycle day: %v, Semester: %v, Term: %v",
		it.TeacherName(), it.TeacherEmail(), it.Period(), it.Block(), it.CycleDay(), it.Semester(), it.Term())

	return event{
		uid:         fmt.Sprintf("%v-%v-%v@%v", it.Code(), it.Period(), start.UTC().Format(LayoutDateTime), UIDDomain),
		start:       start,
		end:         end,
		summary:     strings.Join([]string{it.Code(), it.Name()}, " - "),
		location:    it.Room(),
		description: desc,
	}, nil
}
