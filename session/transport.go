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

	"github.com/dkorunic/tdsb-connects/version"
)

// clientInfoTransport adds the client identification headers to every request, token requests
// included. A User-Agent already set by the caller is kept.
type clientInfoTransport struct {
	base http.RoundTripper
}

func (t *clientInfoTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set(ClientAppInfoHeader, ClientAppInfo)

	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", version.UserAgent())
	}

	return t.transport().RoundTrip(r)
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the wrapped transport.
func (t *clientInfoTransport) CloseIdleConnections() {
	type closeIdler interface {
		CloseIdleConnections()
	}

	if c, ok := t.transport().(closeIdler); ok {
		c.CloseIdleConnections()
	}
}

func (t *clientInfoTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}

	return http.DefaultTransport
}
