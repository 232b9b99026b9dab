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

// Package session authenticates against the TDSB Connects API and issues authenticated requests,
// refreshing the bearer token before it expires.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/dkorunic/tdsb-connects/objects"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL      = "https://zappsmaprd.tdsb.on.ca/"
	TokenPath           = "token"
	DefaultMinTokenLife = 30 * time.Second
	DefaultCloseDelay   = 250 * time.Millisecond
	Timeout             = 60 * time.Second // board API can get really slow sometimes
	ClientAppInfoHeader = "X-Client-App-Info"

	// ClientAppInfo is Platform|App UUID|Time|First Launch|Version|First Launch Version|Build|First Launch Build.
	// Only the build number is checked and it only has to be high enough.
	ClientAppInfo = "pytdsbconnects||||0.0.0||2147483647|"
)

var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrClosed           = errors.New("session is closed")
)

// New creates an unauthenticated *Session. Login must be called before any authenticated request,
// and Close must be called to release the transport.
func New(opts ...Option) *Session {
	s := &Session{
		baseURL:      DefaultBaseURL,
		minTokenLife: DefaultMinTokenLife,
		closeDelay:   DefaultCloseDelay,
		autoRefresh:  true,
	}

	for _, o := range opts {
		o(s)
	}

	// private copy so the identification header does not leak into the caller's client
	hc := http.Client{Timeout: Timeout}
	if s.httpClient != nil {
		hc = *s.httpClient
	}

	hc.Transport = &clientInfoTransport{base: hc.Transport}
	s.httpClient = &hc

	s.oauthConfig = &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  s.baseURL + TokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return s
}

// Login authenticates with username (student number) and password using the password grant,
// storing the access token, refresh token and expiry.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	logger.Debug().Msgf("Logging in as user %v", username)

	tok, err := s.oauthConfig.PasswordCredentialsToken(s.oauthContext(ctx), username, password)
	if err != nil {
		return authError(err)
	}

	return s.updateAuth(tok)
}

// RefreshToken exchanges the refresh token for a new access token. It does nothing when no refresh
// token is held.
func (s *Session) RefreshToken(ctx context.Context) error {
	cur := s.currentToken()
	if cur == nil || cur.RefreshToken == "" {
		return nil
	}

	if s.closed.Load() {
		return ErrClosed
	}

	logger.Debug().Msg("Refreshing access token")

	// token without access token is never valid, so the source always goes to the token endpoint
	src := s.oauthConfig.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: cur.RefreshToken})

	tok, err := src.Token()
	if err != nil {
		return authError(err)
	}

	return s.updateAuth(tok)
}

// RefreshIfExpired refreshes the token when it expires within the minimum token life. It does
// nothing when no refresh token is held. Failed refreshes are not retried.
func (s *Session) RefreshIfExpired(ctx context.Context) error {
	cur := s.currentToken()
	if cur == nil || cur.RefreshToken == "" {
		return nil
	}

	if time.Now().Add(s.minTokenLife).Before(cur.Expiry) {
		return nil
	}

	return s.RefreshToken(ctx)
}

// GetEndpoint issues an authenticated GET for an API path and returns the raw JSON body.
//
// Before login it returns a nil body and a nil error without issuing any request. With auto-refresh
// enabled the token is refreshed first when close to expiry.
func (s *Session) GetEndpoint(ctx context.Context, path string) ([]byte, error) {
	if s.currentToken() == nil {
		logger.Debug().Msgf("Not logged in, skipping fetch of %v", path)

		return nil, nil
	}

	if s.closed.Load() {
		return nil, ErrClosed
	}

	if s.autoRefresh {
		if err := s.RefreshIfExpired(ctx); err != nil {
			return nil, err
		}
	}

	return s.get(ctx, path)
}

// GetUserInfo fetches the authenticated user's profile, or nil before login.
func (s *Session) GetUserInfo(ctx context.Context) (*objects.User, error) {
	return objects.FetchUser(ctx, s)
}

// GetTimetable fetches the student timetable for a school code and day, or nil before login.
func (s *Session) GetTimetable(ctx context.Context, schoolCode int, date time.Time) ([]*objects.TimetableItem, error) {
	return objects.FetchTimetable(ctx, s, schoolCode, date)
}

// Authenticated reports whether a token has been obtained.
func (s *Session) Authenticated() bool {
	return s.currentToken() != nil
}

// Expiry returns the access token expiry, or zero time before login.
func (s *Session) Expiry() time.Time {
	if tok := s.currentToken(); tok != nil {
		return tok.Expiry
	}

	return time.Time{}
}

// Close closes all idle connections on its transport and waits a short grace delay for
// connection teardown. Requests already in flight are not aborted and run until their context
// is cancelled or they complete. Requests issued after Close fail with ErrClosed.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	logger.Debug().Msg("Closing session")

	s.httpClient.CloseIdleConnections()
	time.Sleep(s.closeDelay)

	return nil
}
