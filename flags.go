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
	"os"
	"time"

	"github.com/dkorunic/tdsb-connects/datetime"
	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/pborman/getopt/v2"
)

const (
	DefaultConfFile = ".tdsb-connects.toml" // default configuration filename
	DefaultDays     = 7                     // default day cycle window
	MaxDays         = 366
)

var (
	debug, colorLogs, markup, help *bool
	confFile, dateString, icalFile *string
	days                           *int
	date                           time.Time
)

// init initializes flags configuration.
func init() {
	debug = getopt.BoolLong("verbose", 'v', "enable verbose/debug log level")
	colorLogs = getopt.BoolLong("colorlogs", 'l', "enable colorized console logs")
	confFile = getopt.StringLong("conffile", 'f', DefaultConfFile, "configuration file (in TOML)")
	dateString = getopt.StringLong("date", 't', "", "timetable day as YYYY-MM-DD, defaults to today")
	days = getopt.IntLong("days", 'c', DefaultDays, "number of days to fetch day cycle names for")
	icalFile = getopt.StringLong("ical", 'o', "", "export timetable to an iCalendar file")
	markup = getopt.BoolLong("markup", 'm', "print timetable as Markup")
	help = getopt.BoolLong("help", 'h', "display help")
}

// parseFlags parses input arguments and flags.
func parseFlags() {
	getopt.Parse()

	if *help {
		getopt.Usage()
		os.Exit(0)
	}

	var err error

	date, err = parseDate(*dateString, time.Now())
	if err != nil {
		logger.Fatal().Msgf("Unable to parse the timetable day %q: %v", *dateString, err)
	}

	if *days < 1 || *days > MaxDays {
		logger.Info().Msgf("Day cycle window %v is out of range, so I will default to %v", *days, DefaultDays)

		*days = DefaultDays
	}
}

// parseDate parses a YYYY-MM-DD day in the board timezone, returning the board local day of now when s is empty.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.In(datetime.Toronto()).Date()

		return time.Date(y, m, d, 0, 0, 0, 0, datetime.Toronto()), nil
	}

	return time.ParseInLocation(time.DateOnly, s, datetime.Toronto())
}
