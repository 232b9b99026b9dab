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
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkorunic/tdsb-connects/config"
	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/dkorunic/tdsb-connects/objects"
	"github.com/dkorunic/tdsb-connects/session"
)

var (
	ErrFetchingUser = errors.New("error fetching data for user")
	ErrNoUserInfo   = errors.New("no user information returned")
)

// schoolReport holds everything fetched for a single school of a user.
type schoolReport struct {
	school    *objects.School
	timetable []*objects.TimetableItem
	dayCycles []string
}

// userReport holds everything fetched for a single configured user.
type userReport struct {
	username string
	user     *objects.User
	schools  []schoolReport
}

// timetable returns timetable items of all schools in the report.
func (r userReport) timetable() []*objects.TimetableItem {
	var items []*objects.TimetableItem
	for _, s := range r.schools {
		items = append(items, s.timetable...)
	}

	return items
}

// fetchers will fetch user, school and timetable information for every configured user and send reports to a
// channel.
func fetchers(ctx context.Context, wgFetch *sync.WaitGroup, reports chan<- userReport, cfg config.TomlConfig,
	date time.Time, days int,
) {
	logger.Debug().Msg("Starting fetchers")

	for _, u := range cfg.User {
		wgFetch.Add(1)

		go func() {
			defer wgFetch.Done()

			r, err := fetchUser(ctx, u, cfg.Session, date, days)
			if err != nil {
				logger.Warn().Msgf("%v %v: %v", ErrFetchingUser, u.Username, err)
				exitWithError.Store(true)

				return
			}

			reports <- r
		}()
	}
}

// fetchUser logs in a single user in its own session and fetches the user profile, and for every onboarded school
// the timetable for date and day cycle names for days starting with date.
func fetchUser(ctx context.Context, u config.User, sc config.Session, date time.Time, days int) (userReport, error) {
	r := userReport{username: u.Username}

	s := session.New(sessionOptions(sc)...)
	defer s.Close()

	if err := s.Login(ctx, u.Username, u.Password); err != nil {
		return r, err
	}

	user, err := s.GetUserInfo(ctx)
	if err != nil {
		return r, err
	}

	if user == nil {
		return r, ErrNoUserInfo
	}

	r.user = user

	if roles, err := user.Roles(); err != nil {
		logger.Warn().Msgf("Unable to decode roles for %v: %v", u.Username, err)
	} else {
		logger.Debug().Msgf("User %v has roles %v", u.Username, roles)
	}

	for _, school := range user.Schools() {
		if !school.IsOnboard() {
			logger.Debug().Msgf("School %v is not onboarded, skipping", school.Name())

			continue
		}

		sr := schoolReport{school: school}

		sr.timetable, err = school.Timetable(ctx, date)
		if err != nil {
			return r, err
		}

		// day cycle names are informational only
		sr.dayCycles, err = school.DayCycleNames(ctx, date, date.AddDate(0, 0, days-1))
		if err != nil {
			logger.Warn().Msgf("Unable to fetch day cycle names for %v: %v", school.Name(), err)
		}

		r.schools = append(r.schools, sr)
	}

	return r, nil
}

// sessionOptions maps configuration onto session options, keeping session defaults for unset values.
func sessionOptions(sc config.Session) []session.Option {
	opts := []session.Option{session.WithAutoRefresh(sc.AutoRefreshEnabled())}

	if sc.MinTokenLife != nil {
		opts = append(opts, session.WithMinTokenLife(*sc.MinTokenLife))
	}

	if sc.Timeout > 0 {
		opts = append(opts, session.WithHTTPClient(&http.Client{Timeout: sc.Timeout}))
	}

	if sc.BaseURL != "" {
		opts = append(opts, session.WithBaseURL(sc.BaseURL))
	}

	return opts
}
