// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff describes differences between expected and actual
// report text in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
)

// Diff returns a human-readable description of the differences between s1 and s2.
// If the "diff" command is available, it returns the output of unified diff on s1 and s2.
// If the result is non-empty, the strings differ or the diff command failed.
func Diff(s1, s2 string) string {
	if s1 == s2 {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant: %q\ngot:  %q", s1, s2)
	}
	dir, err := os.MkdirTemp("", "mhaperf_diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)

	for name, s := range map[string]string{"want": s1, "got": s2} {
		if err := os.WriteFile(dir+"/"+name, []byte(s), 0666); err != nil {
			return err.Error()
		}
	}

	cmd := exec.Command("diff", "-u", "want", "got")
	cmd.Dir = dir
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		err = nil
	}
	if err != nil {
		data = append(data, []byte(err.Error())...)
	}
	return string(data)
}
