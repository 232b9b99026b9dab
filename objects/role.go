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
	"fmt"
)

// Role is a closed set of user role kinds.
type Role int

const (
	RoleUnauthorized Role = iota
	RoleAdmin
	RoleStaff
	RoleStudent
	RoleSuperintendent
	RolePrincipal
	RoleVicePrincipal
	RoleTeacher
	RoleExecSuperintendent
)

var roleNames = [...]string{
	RoleUnauthorized:       "Unauthorized",
	RoleAdmin:              "Admin",
	RoleStaff:              "Staff",
	RoleStudent:            "Student",
	RoleSuperintendent:     "Superintendent",
	RolePrincipal:          "Principal",
	RoleVicePrincipal:      "Vice-Principal",
	RoleTeacher:            "Teacher",
	RoleExecSuperintendent: "Executive Superintendent",
}

// RoleFromCode maps an API role code to a Role, returning ErrUnknownRole for codes outside the
// known set.
func RoleFromCode(code int) (Role, error) {
	if code < int(RoleUnauthorized) || code > int(RoleExecSuperintendent) {
		return RoleUnauthorized, fmt.Errorf("%w: %d", ErrUnknownRole, code)
	}

	return Role(code), nil
}

func (r Role) String() string {
	if r < RoleUnauthorized || r > RoleExecSuperintendent {
		return fmt.Sprintf("Role(%d)", int(r))
	}

	return roleNames[r]
}
