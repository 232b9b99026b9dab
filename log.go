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
	"strconv"
	"strings"
	"time"

	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/mattn/go-isatty"
	"github.com/reiver/go-cast"
	"github.com/rs/zerolog"
)

const logLevelEnv = "LOG_LEVEL"

// initLog configures the global logger. Timetable output goes to stdout, so console logging
// is switched on for -l or an interactive stderr only.
func initLog() {
	level := logLevel(*debug, os.LookupEnv)
	zerolog.SetGlobalLevel(level)

	if !*colorLogs && !isTerminal(os.Stderr) {
		return
	}

	logger.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// logLevel picks debug when verbose, else a numeric zerolog level from LOG_LEVEL. Anything
// unparsable or outside int8 leaves the level at info.
func logLevel(verbose bool, lookup func(string) (string, bool)) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}

	v, ok := lookup(logLevelEnv)
	if !ok {
		return zerolog.InfoLevel
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return zerolog.InfoLevel
	}

	l8, err := cast.Int8(n)
	if err != nil {
		return zerolog.InfoLevel
	}

	return zerolog.Level(l8)
}

// isTerminal reports whether f is a color capable terminal. NO_COLOR or TERM=dumb opt out.
func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
