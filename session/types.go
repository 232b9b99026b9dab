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

package session

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
)

// Session holds the HTTP client, the bearer token state and the session configuration.
//
// Token state is guarded for memory safety only. Refreshes are not serialized: two callers that
// both observe an expiring token may both refresh it, and the last response wins.
type Session struct {
	httpClient   *http.Client
	oauthConfig  *oauth2.Config
	baseURL      string
	minTokenLife time.Duration
	closeDelay   time.Duration
	autoRefresh  bool
	closed       atomic.Bool
	mu           sync.RWMutex
	token        *oauth2.Token // access token, refresh token and expiry, nil before login
}

// Option configures a Session.
type Option func(*Session)

// WithAutoRefresh toggles proactive token refresh before every authenticated request.
func WithAutoRefresh(enabled bool) Option {
	return func(s *Session) {
		s.autoRefresh = enabled
	}
}

// WithMinTokenLife sets the minimum remaining token lifetime below which the token is refreshed.
func WithMinTokenLife(d time.Duration) Option {
	return func(s *Session) {
		s.minTokenLife = d
	}
}

// WithHTTPClient sets the HTTP client used for all requests. The client is copied, never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		s.httpClient = c
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(s *Session) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}

		s.baseURL = u
	}
}

// WithCloseDelay sets the grace delay Close waits for in-flight connection teardown.
func WithCloseDelay(d time.Duration) Option {
	return func(s *Session) {
		s.closeDelay = d
	}
}
