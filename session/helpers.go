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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dkorunic/tdsb-connects/logger"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"golang.org/x/oauth2"
)

var errMissingTokenFields = errors.New("token response missing refresh_token or expires_in")

// oauthContext makes the oauth2 package use the session HTTP client for token requests.
func (s *Session) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// currentToken returns the current token state, nil before login.
func (s *Session) currentToken() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// updateAuth replaces access token, refresh token and expiry at once.
func (s *Session) updateAuth(tok *oauth2.Token) error {
	if tok.RefreshToken == "" || tok.Expiry.IsZero() {
		return fmt.Errorf("%w: %w", ErrAuthentication, errMissingTokenFields)
	}

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()

	logger.Debug().Msgf("Access token updated, valid for %v", durafmt.Parse(time.Until(tok.Expiry)).LimitFirstN(2))

	return nil
}

// authError classifies a token endpoint failure: transport failures pass through unmodified,
// everything else (error status, malformed or incomplete response) is an authentication error.
func authError(err error) error {
	var uErr *url.Error
	if errors.As(err, &uErr) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrAuthentication, err)
}

// get fetches an API path with the current bearer token and returns the body.
func (s *Session) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	// read at request time so a token refreshed by another caller is honored
	s.currentToken().SetAuthHeader(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain rest of the body
		io.Copy(io.Discard, resp.Body) //nolint:errcheck

		return nil, fmt.Errorf("%w: %v", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Debug().Msgf("Fetched %v from %v", humanize.Bytes(uint64(len(body))), path)

	return body, nil
}
