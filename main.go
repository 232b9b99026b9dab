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
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dkorunic/tdsb-connects/config"
	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/dkorunic/tdsb-connects/objects"
	"github.com/dkorunic/tdsb-connects/version"
)

var (
	exitWithError atomic.Bool
	GitTag        = ""
	GitCommit     = ""
	GitDirty      = ""
	BuildTime     = ""
)

// fatalIfErrors checks if any errors were encountered during the run and exits with an exit code of 1 if so.
func fatalIfErrors() {
	if exitWithError.Load() {
		logger.Fatal().Msg("Exiting, during run some errors were encountered.")
	}

	logger.Info().Msg("Exiting with a success.")
}

// main is the entry point of the application.
//
// It parses flags, sets the global log level, sets up a context with signal integration, loads the TOML config,
// fetches timetables for all configured users concurrently, prints them and optionally exports them as iCalendar.
func main() {
	parseFlags()

	initLog()

	logger.Info().Msg(buildInfo(GitTag, GitCommit, GitDirty, BuildTime))
	logger.Debug().Msgf("Identifying as %v", version.UserAgent())

	// context with signal integration
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// load TOML config
	cfg, err := config.LoadConfig(*confFile)
	if err != nil {
		logger.Fatal().Msgf("Error loading configuration: %v", err)
	}

	logger.Info().Msgf("Fetching timetable for %v", date.Format("Monday, "+time.DateOnly))

	reportCh := make(chan userReport, len(cfg.User))

	var wgFetch sync.WaitGroup

	fetchers(ctx, &wgFetch, reportCh, cfg, date, *days)

	wgFetch.Wait()
	close(reportCh)

	reports := make([]userReport, 0, len(cfg.User))
	for r := range reportCh {
		reports = append(reports, r)
	}

	// stable output regardless of fetch completion order
	slices.SortFunc(reports, func(a, b userReport) int {
		return strings.Compare(a.username, b.username)
	})

	var items []*objects.TimetableItem

	for _, r := range reports {
		if err := printReport(os.Stdout, r, *markup); err != nil {
			logger.Error().Msgf("Unable to print report for %v: %v", r.username, err)
			exitWithError.Store(true)
		}

		items = append(items, r.timetable()...)
	}

	if *icalFile != "" {
		if err := writeCalendar(*icalFile, items); err != nil {
			logger.Error().Msgf("Unable to export timetable to %v: %v", *icalFile, err)
			exitWithError.Store(true)
		}
	}

	fatalIfErrors()
}
