// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"os"
	"regexp"
	"sort"

	"github.com/pingcap/errors"
)

var experimentDirRE = regexp.MustCompile(`^d[0-9]+`)

// ListExperimentDirs returns the names of the directories directly
// under root whose names start with "d" and a digit, sorted
// lexicographically. A missing root yields no names and no error.
func ListExperimentDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Annotatef(err, "list %s", root)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && experimentDirRE.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
