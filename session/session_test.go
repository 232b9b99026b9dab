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
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkorunic/tdsb-connects/version"
)

const (
	testUsername = "123456789"
	testPassword = "secret"
	testUserBody = `{"Email": "123456789@tdsb.ca", "UserId": "123456789", "UserName": "Test Student",
		"Gender": "F", "Age": "16", "AWUserId": "aw", "FirstName": "Test", "LastName": "Student",
		"Picture": "", "Thumbnail": "", "PrincipalEmailsList": [], "VicePrincipalEmailsList": [],
		"SuperintendentEmailsList": [], "Role": [3], "BirthDate": "2005-03-09T00:00:00", "SchoolList": []}`
	testTimetableBody = `{"123": {"CourseTable": [{"Period": "1", "ClassCode": "ENG3U1-01", "ClassName": "English",
		"Block": "A", "RoomNo": "214", "TeacherName": "Ms. Teacher", "TeacherEmail": "t@tdsb.ca",
		"StartTime": "2021-01-04T08:45:00", "EndTime": "2021-01-04T10:00:00", "CycleDay": "D1",
		"Semester": 1, "Term": 2}]}}`
)

// fakeAPI is a minimal TDSB Connects API: a token endpoint and a couple of JSON endpoints.
type fakeAPI struct {
	expiresIn    int
	omitFields   bool // omit refresh_token and expires_in from the login response
	refreshFails bool // reject every refresh_token grant

	// api/slow reports on arrived, then blocks until held yields or the client goes away
	arrived chan struct{}
	held    chan struct{}

	logins    atomic.Int32
	refreshes atomic.Int32
	gets      atomic.Int32

	mu       sync.Mutex
	lastAuth string
	lastInfo string
	lastUA   string
}

func (f *fakeAPI) writeToken(w http.ResponseWriter, access, refresh string) {
	w.Header().Set("Content-Type", "application/json")

	if f.omitFields {
		fmt.Fprintf(w, `{"access_token": %q, "token_type": "bearer"}`, access)

		return
	}

	if refresh == "" {
		fmt.Fprintf(w, `{"access_token": %q, "token_type": "bearer", "expires_in": %d}`, access, f.expiresIn)

		return
	}

	fmt.Fprintf(w, `{"access_token": %q, "token_type": "bearer", "expires_in": %d, "refresh_token": %q}`,
		access, f.expiresIn, refresh)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(ClientAppInfoHeader) != ClientAppInfo {
			http.Error(w, `{"error": "unsupported client"}`, http.StatusUnauthorized)

			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		switch r.PostForm.Get("grant_type") {
		case "password":
			if r.PostForm.Get("username") != testUsername || r.PostForm.Get("password") != testPassword {
				http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)

				return
			}

			n := f.logins.Add(1)
			f.writeToken(w, fmt.Sprintf("access-%d", n), "refresh-1")
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "refresh-1" {
				http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)

				return
			}

			n := f.refreshes.Add(1)
			if f.refreshFails {
				http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)

				return
			}

			// server keeps the refresh token and does not send it back
			f.writeToken(w, fmt.Sprintf("refreshed-%d", n), "")
		default:
			http.Error(w, `{"error": "unsupported_grant_type"}`, http.StatusBadRequest)
		}
	})

	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.gets.Add(1)

			f.mu.Lock()
			f.lastAuth = r.Header.Get("Authorization")
			f.lastInfo = r.Header.Get(ClientAppInfoHeader)
			f.lastUA = r.Header.Get("User-Agent")
			f.mu.Unlock()

			if r.Header.Get("Authorization") == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)

				return
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		}
	}

	mux.HandleFunc("GET /api/Account/GetUserInfo", serve(testUserBody))
	mux.HandleFunc("GET /api/TimeTable/GetTimeTable/Student/123/04012021", serve(testTimetableBody))
	mux.HandleFunc("GET /api/slow", func(w http.ResponseWriter, r *http.Request) {
		f.arrived <- struct{}{}

		select {
		case <-f.held:
		case <-r.Context().Done():
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("GET /api/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	return mux
}

func (f *fakeAPI) auth() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastAuth, f.lastInfo
}

// newTestSession starts a fake API and returns a Session pointed at it.
func newTestSession(t *testing.T, api *fakeAPI, opts ...Option) *Session {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithCloseDelay(0)}, opts...)
	s := New(opts...)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func login(t *testing.T, s *Session) {
	t.Helper()

	if err := s.Login(context.Background(), testUsername, testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
}

func TestLoginStoresToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)

	if s.Authenticated() || !s.Expiry().IsZero() {
		t.Fatal("expected new session to be unauthenticated")
	}

	before := time.Now()
	login(t, s)
	after := time.Now()

	lifetime := time.Duration(api.expiresIn) * time.Second
	if s.Expiry().Before(before.Add(lifetime).Add(-time.Second)) || s.Expiry().After(after.Add(lifetime).Add(time.Second)) {
		t.Errorf("expiry %v not within [%v, %v]", s.Expiry(), before.Add(lifetime), after.Add(lifetime))
	}

	tok := s.currentToken()
	if tok.AccessToken != "access-1" || tok.RefreshToken != "refresh-1" {
		t.Errorf("unexpected token state: %+v", tok)
	}
}

func TestLoginErrors(t *testing.T) {
	t.Parallel()

	t.Run("WrongPassword", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t, &fakeAPI{expiresIn: 3600})

		err := s.Login(context.Background(), testUsername, "wrong")
		if !errors.Is(err, ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", err)
		}

		if s.Authenticated() {
			t.Error("failed login must not leave token state behind")
		}
	})

	t.Run("MissingFields", func(t *testing.T) {
		t.Parallel()

		s := newTestSession(t, &fakeAPI{omitFields: true})

		err := s.Login(context.Background(), testUsername, testPassword)
		if !errors.Is(err, ErrAuthentication) {
			t.Errorf("expected ErrAuthentication, got %v", err)
		}

		if s.Authenticated() {
			t.Error("incomplete token response must not be stored")
		}
	})

	t.Run("Transport", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		s := New(WithBaseURL(srv.URL), WithCloseDelay(0))
		defer s.Close()

		err := s.Login(context.Background(), testUsername, testPassword)

		var uErr *url.Error
		if !errors.As(err, &uErr) || errors.Is(err, ErrAuthentication) {
			t.Errorf("expected unmodified transport error, got %v", err)
		}
	})
}

func TestRefreshIfExpiredFarFromExpiry(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api, WithMinTokenLife(30*time.Second))
	login(t, s)

	for range 5 {
		if err := s.RefreshIfExpired(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if n := api.refreshes.Load(); n != 0 {
		t.Errorf("expected no refreshes, got %d", n)
	}
}

func TestRefreshIfExpiredNearExpiry(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 10}
	s := newTestSession(t, api, WithMinTokenLife(30*time.Second))
	login(t, s)

	if err := s.RefreshIfExpired(context.Background()); err != nil {
		t.Fatal(err)
	}

	if n := api.refreshes.Load(); n != 1 {
		t.Errorf("expected exactly one refresh, got %d", n)
	}
}

func TestRefreshTokenKeepsRefreshToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)
	login(t, s)

	for range 2 {
		if err := s.RefreshToken(context.Background()); err != nil {
			t.Fatalf("RefreshToken failed: %v", err)
		}
	}

	tok := s.currentToken()
	if tok.AccessToken != "refreshed-2" || tok.RefreshToken != "refresh-1" {
		t.Errorf("unexpected token state after refresh: %+v", tok)
	}

	if n := api.logins.Load(); n != 1 {
		t.Errorf("expected a single login, got %d", n)
	}
}

func TestRefreshRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		call func(ctx context.Context, s *Session) error
	}{
		{
			name: "RefreshToken",
			call: func(ctx context.Context, s *Session) error { return s.RefreshToken(ctx) },
		},
		{
			name: "RefreshIfExpired",
			call: func(ctx context.Context, s *Session) error { return s.RefreshIfExpired(ctx) },
		},
		{
			name: "GetEndpoint",
			call: func(ctx context.Context, s *Session) error {
				_, err := s.GetEndpoint(ctx, "api/Account/GetUserInfo")

				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{expiresIn: 10, refreshFails: true}
			s := newTestSession(t, api, WithMinTokenLife(30*time.Second))
			login(t, s)

			if err := tc.call(context.Background(), s); !errors.Is(err, ErrAuthentication) {
				t.Fatalf("expected ErrAuthentication, got %v", err)
			}

			if n := api.refreshes.Load(); n != 1 {
				t.Errorf("expected exactly one refresh attempt, got %d", n)
			}

			if n := api.gets.Load(); n != 0 {
				t.Errorf("expected no endpoint requests, got %d", n)
			}

			if tok := s.currentToken(); tok.AccessToken != "access-1" || tok.RefreshToken != "refresh-1" {
				t.Errorf("token changed by failed refresh: %+v", tok)
			}
		})
	}
}

func TestRefreshBeforeLogin(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 10}
	s := newTestSession(t, api)

	if err := s.RefreshToken(context.Background()); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}

	if err := s.RefreshIfExpired(context.Background()); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}

	if n := api.refreshes.Load(); n != 0 {
		t.Errorf("expected no refreshes, got %d", n)
	}
}

func TestGetEndpointBeforeLogin(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)
	ctx := context.Background()

	body, err := s.GetEndpoint(ctx, "api/Account/GetUserInfo")
	if body != nil || err != nil {
		t.Errorf("expected nil body and nil error, got %q, %v", body, err)
	}

	u, err := s.GetUserInfo(ctx)
	if u != nil || err != nil {
		t.Errorf("expected nil user and nil error, got %v, %v", u, err)
	}

	items, err := s.GetTimetable(ctx, 123, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC))
	if items != nil || err != nil {
		t.Errorf("expected nil items and nil error, got %v, %v", items, err)
	}

	if n := api.gets.Load(); n != 0 {
		t.Errorf("expected no requests before login, got %d", n)
	}
}

func TestGetUserInfo(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)
	login(t, s)

	u, err := s.GetUserInfo(context.Background())
	if err != nil {
		t.Fatalf("GetUserInfo failed: %v", err)
	}

	if u.Name() != "Test Student" {
		t.Errorf("unexpected user name %q", u.Name())
	}

	authz, info := api.auth()
	if authz != "Bearer access-1" {
		t.Errorf("unexpected Authorization header %q", authz)
	}

	if info != ClientAppInfo {
		t.Errorf("unexpected %v header %q", ClientAppInfoHeader, info)
	}

	api.mu.Lock()
	ua := api.lastUA
	api.mu.Unlock()

	if !strings.HasPrefix(ua, version.Name+"/") {
		t.Errorf("unexpected User-Agent %q", ua)
	}
}

func TestGetTimetable(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)
	login(t, s)

	items, err := s.GetTimetable(context.Background(), 123, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetTimetable failed: %v", err)
	}

	if len(items) != 1 || items[0].Code() != "ENG3U1-01" {
		t.Errorf("unexpected timetable: %v", items)
	}
}

func TestGetEndpointAutoRefresh(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		autoRefresh  bool
		expectedAuth string
		refreshes    int32
	}{
		{name: "Enabled", autoRefresh: true, expectedAuth: "Bearer refreshed-1", refreshes: 1},
		{name: "Disabled", autoRefresh: false, expectedAuth: "Bearer access-1", refreshes: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{expiresIn: 10}
			s := newTestSession(t, api, WithMinTokenLife(30*time.Second), WithAutoRefresh(tc.autoRefresh))
			login(t, s)

			if _, err := s.GetEndpoint(context.Background(), "api/Account/GetUserInfo"); err != nil {
				t.Fatalf("GetEndpoint failed: %v", err)
			}

			if authz, _ := api.auth(); authz != tc.expectedAuth {
				t.Errorf("expected Authorization %q, got %q", tc.expectedAuth, authz)
			}

			if n := api.refreshes.Load(); n != tc.refreshes {
				t.Errorf("expected %d refreshes, got %d", tc.refreshes, n)
			}
		})
	}
}

func TestGetEndpointStatus(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, &fakeAPI{expiresIn: 3600})
	login(t, s)

	if _, err := s.GetEndpoint(context.Background(), "api/broken"); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{expiresIn: 3600}
	s := newTestSession(t, api)
	login(t, s)

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, err := s.GetEndpoint(context.Background(), "api/Account/GetUserInfo"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	if err := s.Login(context.Background(), testUsername, testPassword); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	if n := api.gets.Load(); n != 0 {
		t.Errorf("expected no requests after close, got %d", n)
	}
}

func TestCloseLeavesInFlightRequests(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		cancel bool
	}{
		{name: "Completes", cancel: false},
		{name: "ContextCancel", cancel: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{expiresIn: 3600, arrived: make(chan struct{}), held: make(chan struct{})}
			s := newTestSession(t, api)
			t.Cleanup(func() { close(api.held) })
			login(t, s)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			done := make(chan error, 1)

			go func() {
				_, err := s.GetEndpoint(ctx, "api/slow")
				done <- err
			}()

			<-api.arrived

			if err := s.Close(); err != nil {
				t.Fatal(err)
			}

			select {
			case err := <-done:
				t.Fatalf("request ended by Close: %v", err)
			case <-time.After(50 * time.Millisecond):
			}

			if tc.cancel {
				cancel()

				if err := <-done; !errors.Is(err, context.Canceled) {
					t.Errorf("expected context.Canceled, got %v", err)
				}

				return
			}

			api.held <- struct{}{}

			if err := <-done; err != nil {
				t.Errorf("in-flight request failed after Close: %v", err)
			}
		})
	}
}

func TestNewKeepsCallerClient(t *testing.T) {
	t.Parallel()

	hc := &http.Client{Timeout: time.Second}
	s := New(WithHTTPClient(hc), WithBaseURL("http://example.invalid"), WithCloseDelay(0))
	defer s.Close()

	if hc.Transport != nil {
		t.Error("caller's HTTP client transport was modified")
	}

	if s.baseURL != "http://example.invalid/" {
		t.Errorf("expected base URL with trailing slash, got %q", s.baseURL)
	}

	if s.httpClient.Timeout != time.Second {
		t.Errorf("expected caller timeout to be kept, got %v", s.httpClient.Timeout)
	}
}
