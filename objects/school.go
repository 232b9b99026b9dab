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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dkorunic/tdsb-connects/datetime"
)

// dayCycleNameRegex matches "Mon(D1)", capturing the cycle token
var dayCycleNameRegex = regexp.MustCompile(`^[A-Za-z]{3}\(([0-9D]+)\)$`)

type schoolSetting struct {
	ID           int    `mapstructure:"Id"`
	SchoolYear   string `mapstructure:"CurrentSession"`
	Track        string `mapstructure:"SchoolYearTrack"`
	SessionStart string `mapstructure:"SessionStart"`
	SessionEnd   string `mapstructure:"SessionEnd"`
}

type schoolRecord struct {
	Name      string        `mapstructure:"SchoolName"`
	Code      int           `mapstructure:"SchoolCode"`
	IsOnboard bool          `mapstructure:"IsOnboard"`
	Setting   schoolSetting `mapstructure:"SchoolSetting"`
}

// School is a school the user belongs to, along with the user's settings for it.
type School struct {
	fetcher Fetcher
	rec     schoolRecord
}

func (s *School) Name() string    { return s.rec.Name }
func (s *School) Code() int       { return s.rec.Code }
func (s *School) IsOnboard() bool { return s.rec.IsOnboard }

// ID is the ID of the school for this user only. Use Code for the board-wide school identifier.
func (s *School) ID() int { return s.rec.Setting.ID }

// SchoolYear is the current session, e.g. "20202021".
func (s *School) SchoolYear() string { return s.rec.Setting.SchoolYear }

// Track is the school year track.
func (s *School) Track() string { return s.rec.Setting.Track }

func (s *School) SchoolYearStart() (time.Time, error) {
	return datetime.Parse(s.rec.Setting.SessionStart)
}

func (s *School) SchoolYearEnd() (time.Time, error) {
	return datetime.Parse(s.rec.Setting.SessionEnd)
}

// Timetable fetches the user's timetable at this school for the given day.
func (s *School) Timetable(ctx context.Context, date time.Time) ([]*TimetableItem, error) {
	return FetchTimetable(ctx, s.fetcher, s.rec.Code, date)
}

// DayCycleNames fetches the cycle day names (e.g. "D1") for each school day between start and end,
// in the order returned by the API.
func (s *School) DayCycleNames(ctx context.Context, start, end time.Time) ([]string, error) {
	path := DayCycleNamesPath(s.rec.Code, s.rec.Setting.SchoolYear, s.rec.Setting.Track, start, end)

	body, err := s.fetcher.GetEndpoint(ctx, path)
	if err != nil || body == nil {
		return nil, err
	}

	v, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of day cycle names", ErrMalformedResponse)
	}

	return parseDayCycleNames(raw)
}

// TimetablePath builds the student timetable path for a school code and day.
func TimetablePath(schoolCode int, date time.Time) string {
	return strings.Join([]string{
		"api/TimeTable/GetTimeTable/Student",
		strconv.Itoa(schoolCode),
		datetime.FormatDate(date),
	}, "/")
}

// DayCycleNamesPath builds the day cycle names path for a school and an inclusive date range.
func DayCycleNamesPath(schoolCode int, schoolYear, track string, start, end time.Time) string {
	return strings.Join([]string{
		"api/TimeTable/GetDayNameDayCycle",
		strconv.Itoa(schoolCode),
		schoolYear,
		track,
		datetime.FormatDate(start),
		datetime.FormatDate(end),
	}, "/")
}

// parseDayCycleNames extracts the parenthesized cycle token from every "Www(TOKEN)" entry.
func parseDayCycleNames(raw []any) ([]string, error) {
	names := make([]string, 0, len(raw))

	for _, el := range raw {
		r, _ := el.(string)

		m := dayCycleNameRegex.FindStringSubmatch(r)
		if m == nil {
			return nil, fmt.Errorf("%w: day cycle name %v", ErrParse, el)
		}

		names = append(names, m[1])
	}

	return names, nil
}
