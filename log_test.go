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
	"runtime"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		verbose  bool
		env      map[string]string
		expected zerolog.Level
	}{
		{name: "Default", expected: zerolog.InfoLevel},
		{name: "Verbose", verbose: true, env: map[string]string{logLevelEnv: "3"}, expected: zerolog.DebugLevel},
		{name: "Warn", env: map[string]string{logLevelEnv: "2"}, expected: zerolog.WarnLevel},
		{name: "Trace", env: map[string]string{logLevelEnv: " -1 "}, expected: zerolog.TraceLevel},
		{name: "Garbage", env: map[string]string{logLevelEnv: "loud"}, expected: zerolog.InfoLevel},
		{name: "OutOfRange", env: map[string]string{logLevelEnv: "300"}, expected: zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lookup := func(key string) (string, bool) {
				v, ok := tc.env[key]

				return v, ok
			}

			if actual := logLevel(tc.verbose, lookup); actual != tc.expected {
				t.Errorf("expected level %v, got %v", tc.expected, actual)
			}
		})
	}
}

func TestIsTerminalRegularFile(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Error("regular file reported as terminal")
	}
}

func TestBuildInfo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name                      string
		tag, commit, dirty, built string
		expected                  string
	}{
		{
			name:     "Linker",
			tag:      " v1.2.0\n",
			commit:   "abc123 ",
			dirty:    "-dirty\n",
			built:    " 2025-01-04_08:45:00 ",
			expected: "tdsb-connects v1.2.0 abc123-dirty, built on 2025-01-04_08:45:00, with " + runtime.Version(),
		},
		{
			name:     "Unset",
			expected: "tdsb-connects (devel) unknown, built on unknown, with " + runtime.Version(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if actual := buildInfo(tc.tag, tc.commit, tc.dirty, tc.built); actual != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}
