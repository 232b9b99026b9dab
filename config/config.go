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

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dkorunic/tdsb-connects/logger"
)

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidBaseURL  = errors.New("invalid base URL")
)

// LoadConfig attempts to load and decode configuration file in TOML format, doing a minimal sanity checking and
// optionally returning an error.
func LoadConfig(file string) (TomlConfig, error) {
	var config TomlConfig
	if _, err := toml.DecodeFile(file, &config); err != nil {
		return config, err
	}

	checkUserConf(config)

	if err := checkSessionConf(&config); err != nil {
		return config, err
	}

	return config, nil
}

// checkSessionConf does a minimal sanity check on the Session configuration block, ensuring that:
//
// 1. durations are not negative
//
// 2. base URL, if set, is an absolute http(s) URL
//
// Base URL is normalized to end with a slash.
func checkSessionConf(config *TomlConfig) error {
	if mtl := config.Session.MinTokenLife; mtl != nil && *mtl < 0 {
		return fmt.Errorf("%w: min_token_life %v", ErrInvalidDuration, *mtl)
	}

	if config.Session.Timeout < 0 {
		return fmt.Errorf("%w: timeout %v", ErrInvalidDuration, config.Session.Timeout)
	}

	if config.Session.BaseURL != "" {
		u, ok := normalizeBaseURL(config.Session.BaseURL)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidBaseURL, config.Session.BaseURL)
		}

		logger.Info().Msgf("Configuration: using custom API base URL %v", u)

		config.Session.BaseURL = u
	}

	return nil
}

// checkUserConf does a minimal sanity check on the User configuration block, ensuring that:
//
// 1. at least one User is defined
//
// 2. all users have both username and password
//
// 3. all usernames are either student numbers or in User@domain format (a warning is logged if not)
func checkUserConf(config TomlConfig) {
	if len(config.User) == 0 {
		logger.Fatal().Msg("Configuration error: No users defined")
	}

	for _, u := range config.User {
		if u.Username == "" || u.Password == "" {
			logger.Fatal().Msgf("Configuration error: User requires username and password: %q", u.Username)
		}

		if !isValidStudentNumber(u.Username) && !isValidUserAtDomain(u.Username) {
			logger.Warn().Msgf("Configuration issue: username is neither a student number nor an e-Mail: %q",
				u.Username)
		}
	}
}
