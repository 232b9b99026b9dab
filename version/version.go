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

package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

const (
	ModulePath   = "github.com/dkorunic/tdsb-connects"
	Name         = "tdsb-connects"
	DevelVersion = "(devel)"
)

// UserAgent is the HTTP User-Agent of this client build, name/version.
var UserAgent = sync.OnceValue(func() string {
	return Name + "/" + mainVersion()
})

// ReadVersion takes a module path and returns a string in the format "path@version". The main module is
// matched first, then the dependencies of the running binary. If no version is known, it returns just the path.
func ReadVersion(path string) string {
	i, ok := debug.ReadBuildInfo()
	if !ok {
		return path
	}

	if i.Main.Path == path && i.Main.Version != "" {
		return strings.Join([]string{path, i.Main.Version}, "@")
	}

	for _, d := range i.Deps {
		if d.Path == path {
			return strings.Join([]string{path, d.Version}, "@")
		}
	}

	return path
}

func mainVersion() string {
	if _, v, ok := strings.Cut(ReadVersion(ModulePath), "@"); ok {
		return v
	}

	return DevelVersion
}
