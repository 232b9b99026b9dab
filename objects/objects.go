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

// Package objects holds typed, read-only views over TDSB Connects API responses.
//
// Every object is built from a JSON payload once, at construction, and keeps a
// Fetcher so it can issue further authenticated requests of its own, such as a
// School fetching its timetable.
package objects

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkorunic/tdsb-connects/datetime"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

var (
	ErrMalformedResponse = errors.New("malformed API response")
	ErrMissingField      = errors.New("missing or mistyped field in API response")
	ErrUnknownRole       = errors.New("unknown user role")
	ErrParse             = datetime.ErrParse
)

// Fetcher issues an authenticated GET for an API path and returns the raw JSON body. A nil body
// with a nil error means there is no authenticated session yet.
type Fetcher interface {
	GetEndpoint(ctx context.Context, path string) ([]byte, error)
}

// unmarshal decodes a raw JSON body into generic maps and slices.
func unmarshal(body []byte) (any, error) {
	var v any

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return v, nil
}

// decodeRecord maps a generic JSON value onto a tagged record, failing on any record field that
// the payload does not carry.
func decodeRecord(input, record any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnset:       true,
		WeaklyTypedInput: true,
		Result:           record,
	})
	if err != nil {
		return err
	}

	if err := d.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingField, err)
	}

	return nil
}
