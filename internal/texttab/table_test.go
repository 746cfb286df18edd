// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		got := a.pad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 6, "abc   ")
	check("abc", alignCenter, 6, " abc  ")
	check("abc", alignCenter, 7, "  abc  ")
	check("abc", alignRight, 6, "   abc")
	check("☃", alignRight, 4, "   ☃")
	check("toolong", alignRight, 3, "toolong")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var got strings.Builder
		if err := tab.Format(&got); err != nil {
			t.Fatal(err)
		}
		if want != got.String() {
			t.Errorf("want:\n%sgot:\n%s", want, got.String())
		}
		tab = Table{}
	}

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Padding, without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a     b  c\nlong  e  long\n")

	// Alignment.
	tab.Row().Cell("index").Cell("TFLOPS", Right)
	tab.Row().Cell("0", Right).Cell("95.50", Right)
	tab.Row().Cell("12", Right).Cell("130.25", Right)
	check("index  TFLOPS\n    0   95.50\n   12  130.25\n")

	// Ragged rows.
	tab.Row().Cell("x")
	tab.Row().Cell("y").Cell("z")
	check("x\ny  z\n")

	// Empty.
	check("")
}
