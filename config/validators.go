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

//nolint:godot
package config

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	studentNumberRegex = regexp.MustCompile(`^[0-9]{9}$`)
	userAtDomainRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// isValidStudentNumber checks if the given string is a 9-digit TDSB student number.
//
// Parameters:
// - user: the username to validate
//
// Returns:
// - true if the username is a student number, false otherwise
func isValidStudentNumber(user string) bool {
	return studentNumberRegex.MatchString(user)
}

// isValidUserAtDomain checks if the given string is a valid username at domain
// (User@domain.tld).
//
// Parameters:
// - User: the username at domain to validate
//
// Returns:
// - true if the username at domain is valid, false otherwise
func isValidUserAtDomain(user string) bool {
	return userAtDomainRegex.MatchString(user)
}

// normalizeBaseURL checks if the given string is an absolute http or https URL
// and returns it with a trailing slash.
//
// Parameters:
// - raw: the URL to validate
//
// Returns:
// - normalized URL and true if the URL is valid, empty string and false otherwise
func normalizeBaseURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	s := u.String()
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}

	return s, true
}
