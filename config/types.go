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

package config

import "time"

// User struct holds a single TDSB Connects login (student number or board e-Mail).
type User struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Session struct holds API session tuning. Pointer fields tell an explicit zero from an omitted key.
type Session struct {
	AutoRefresh  *bool          `toml:"auto_refresh"`
	MinTokenLife *time.Duration `toml:"min_token_life"`
	Timeout      time.Duration  `toml:"timeout"`
	BaseURL      string         `toml:"base_url"`
}

// TomlConfig struct holds all other configuration structures.
type TomlConfig struct {
	User    []User  `toml:"user"`
	Session Session `toml:"session"`
}

// AutoRefreshEnabled reports whether proactive token refresh is enabled, defaulting to true when unset.
func (s Session) AutoRefreshEnabled() bool {
	return s.AutoRefresh == nil || *s.AutoRefresh
}
