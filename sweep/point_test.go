// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFolderName(t *testing.T) {
	for _, test := range []struct {
		p    Point
		want string
	}{
		{Point{128, 8, 8, 2048, 2048}, "d128_hq8_hk8_sq2048_sk2048"},
		{Point{56, 128, 128, 131072, 131072}, "d56_hq128_hk128_sq131072_sk131072"},
		{Point{64, 32, 8, 1024, 4096}, "d64_hq32_hk8_sq1024_sk4096"},
	} {
		if got := test.p.FolderName(); got != test.want {
			t.Errorf("%+v.FolderName() = %q, want %q", test.p, got, test.want)
		}
		back, err := ParseFolderName(test.want)
		require.NoError(t, err)
		require.Equal(t, test.p, back)
	}
}

func TestParseFolderNameErrors(t *testing.T) {
	for _, name := range []string{
		"",
		"results",
		"d128_hq8_hk8_sq2048",
		"d128_hq8_hk8_sq2048_sk2048_x",
		"d128_hk8_hq8_sq2048_sk2048",
		"dx_hq8_hk8_sq2048_sk2048",
		"d128_hq_hk8_sq2048_sk2048",
		"d0128_hq8_hk8_sq2048_sk2048",
		"d-1_hq8_hk8_sq2048_sk2048",
	} {
		if _, err := ParseFolderName(name); err == nil {
			t.Errorf("ParseFolderName(%q) succeeded, want error", name)
		}
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Point{128, 8, 8, 2048, 2048}.Validate())

	err := Point{128, 8, 0, 2048, 2048}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "num_kv_heads")

	require.Error(t, Point{-1, 8, 8, 2048, 2048}.Validate())
	require.Error(t, Point{}.Validate())
}
