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

package objects

import (
	"context"
	"time"

	"github.com/dkorunic/tdsb-connects/datetime"
)

const UserInfoPath = "api/Account/GetUserInfo"

// userRecord is the GetUserInfo payload.
type userRecord struct {
	Email                string         `mapstructure:"Email"`
	ID                   string         `mapstructure:"UserId"`
	Name                 string         `mapstructure:"UserName"`
	Gender               string         `mapstructure:"Gender"`
	Age                  string         `mapstructure:"Age"`
	AWUserID             string         `mapstructure:"AWUserId"`
	FirstName            string         `mapstructure:"FirstName"`
	LastName             string         `mapstructure:"LastName"`
	Picture              string         `mapstructure:"Picture"`
	Thumbnail            string         `mapstructure:"Thumbnail"`
	PrincipalEmails      []string       `mapstructure:"PrincipalEmailsList"`
	VicePrincipalEmails  []string       `mapstructure:"VicePrincipalEmailsList"`
	SuperintendentEmails []string       `mapstructure:"SuperintendentEmailsList"`
	Roles                []int          `mapstructure:"Role"`
	BirthDate            string         `mapstructure:"BirthDate"`
	Schools              []schoolRecord `mapstructure:"SchoolList"`
}

// User is the profile of the authenticated user, including the schools the user belongs to.
type User struct {
	fetcher Fetcher
	rec     userRecord
}

// NewUser builds a User out of a GetUserInfo response body.
func NewUser(f Fetcher, body []byte) (*User, error) {
	v, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	u := &User{fetcher: f}
	if err := decodeRecord(v, &u.rec); err != nil {
		return nil, err
	}

	return u, nil
}

// FetchUser fetches the authenticated user's profile. It returns nil User and nil error when f has
// no authenticated session yet.
func FetchUser(ctx context.Context, f Fetcher) (*User, error) {
	body, err := f.GetEndpoint(ctx, UserInfoPath)
	if err != nil || body == nil {
		return nil, err
	}

	return NewUser(f, body)
}

func (u *User) Email() string     { return u.rec.Email }
func (u *User) ID() string        { return u.rec.ID }
func (u *User) Name() string      { return u.rec.Name }
func (u *User) Gender() string    { return u.rec.Gender }
func (u *User) Age() string       { return u.rec.Age }
func (u *User) AWUserID() string  { return u.rec.AWUserID }
func (u *User) FirstName() string { return u.rec.FirstName }
func (u *User) LastName() string  { return u.rec.LastName }
func (u *User) Picture() string   { return u.rec.Picture }
func (u *User) Thumbnail() string { return u.rec.Thumbnail }

func (u *User) PrincipalEmails() []string {
	return append([]string(nil), u.rec.PrincipalEmails...)
}

func (u *User) VicePrincipalEmails() []string {
	return append([]string(nil), u.rec.VicePrincipalEmails...)
}

func (u *User) SuperintendentEmails() []string {
	return append([]string(nil), u.rec.SuperintendentEmails...)
}

// Roles maps the user's role codes, failing with ErrUnknownRole on the first unknown code.
func (u *User) Roles() ([]Role, error) {
	roles := make([]Role, 0, len(u.rec.Roles))

	for _, code := range u.rec.Roles {
		r, err := RoleFromCode(code)
		if err != nil {
			return nil, err
		}

		roles = append(roles, r)
	}

	return roles, nil
}

// Birthdate parses the user's birth date.
func (u *User) Birthdate() (time.Time, error) {
	return datetime.Parse(u.rec.BirthDate)
}

// Schools returns the schools embedded in the user's profile, each able to fetch further data
// through the same Fetcher.
func (u *User) Schools() []*School {
	schools := make([]*School, 0, len(u.rec.Schools))

	for _, rec := range u.rec.Schools {
		schools = append(schools, &School{fetcher: u.fetcher, rec: rec})
	}

	return schools
}
