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

package main

import (
	"cmp"
	"fmt"
	"runtime"
	"strings"

	"github.com/dkorunic/tdsb-connects/version"
)

// buildInfo renders the startup banner from linker provided variables, which may carry
// stray whitespace from the build script.
func buildInfo(tag, commit, dirty, built string) string {
	tag = cmp.Or(strings.TrimSpace(tag), version.DevelVersion)
	commit = cmp.Or(strings.TrimSpace(commit), "unknown")
	built = cmp.Or(strings.TrimSpace(built), "unknown")

	return fmt.Sprintf("%v %v %v%v, built on %v, with %v", version.Name, tag, commit, strings.TrimSpace(dirty),
		built, runtime.Version())
}
