// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const oldTable = `fused-attention-fwd-d128-layoutbshd:
   BATCH     HQ     HK  N_CTX_Q  N_CTX_K  fwd_TFLOPS
0    1.0  128.0  128.0   2048.0   2048.0      100.00
1    1.0  128.0  128.0   4096.0   4096.0      200.00
2    1.0  128.0  128.0   8192.0   8192.0      300.00
`

const newTable = `fused-attention-fwd-d128-layoutbshd:
   BATCH     HQ     HK  N_CTX_Q  N_CTX_K  fwd_TFLOPS
0    1.0  128.0  128.0   2048.0   2048.0      150.00
2    1.0  128.0  128.0   8192.0   8192.0      300.00
3    1.0  128.0  128.0  16384.0  16384.0      400.00
`

func writeTables(t *testing.T) (dir, oldPath, newPath string) {
	t.Helper()
	dir = t.TempDir()
	oldPath = filepath.Join(dir, "old.txt")
	newPath = filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte(oldTable), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(newTable), 0o644))
	return dir, oldPath, newPath
}

func TestText(t *testing.T) {
	dir, oldPath, newPath := writeTables(t)
	chart := filepath.Join(dir, "chart.svg")

	var out, outErr bytes.Buffer
	require.NoError(t, mhacompare(&out, &outErr, []string{"-o", chart, oldPath, newPath}))

	got := out.String()
	require.Contains(t, got, "old - Mean: 200.00 TFLOPS\n")
	require.Contains(t, got, "new - Mean: 225.00 TFLOPS\n")
	require.Contains(t, got, "old - Max: 300.00 TFLOPS\n")
	require.Contains(t, got, "Average Speedup (new/old): 1.250x\n")
	require.Contains(t, got, "Best case: 1.500x (config 0)\n")
	require.Contains(t, got, "Worst case: 1.000x (config 2)\n")
	require.Contains(t, got, "U-test: ")
	require.NotContains(t, got, "16384")
	require.Equal(t, "Plot saved as '"+chart+"'\n", outErr.String())

	fi, err := os.Stat(chart)
	require.NoError(t, err)
	require.NotZero(t, fi.Size())
}

func TestCSV(t *testing.T) {
	_, oldPath, newPath := writeTables(t)
	var out, outErr bytes.Buffer
	require.NoError(t, mhacompare(&out, &outErr, []string{"-o", "", "-format", "csv", oldPath, newPath}))
	require.Equal(t, strings.Join([]string{
		"index,BATCH,HQ,HK,N_CTX_Q,N_CTX_K,fwd_TFLOPS_old,fwd_TFLOPS_new,speedup",
		"0,1,128,128,2048,2048,100,150,1.5000",
		"2,1,128,128,8192,8192,300,300,1.0000",
		"",
	}, "\n"), out.String())
	require.Empty(t, outErr.String())
}

func TestHTML(t *testing.T) {
	_, oldPath, newPath := writeTables(t)
	var out, outErr bytes.Buffer
	require.NoError(t, mhacompare(&out, &outErr, []string{"-o", "", "-format", "html", oldPath, newPath}))
	require.Contains(t, out.String(), "<table")
	require.Contains(t, out.String(), "1.500x")
}

func TestErrors(t *testing.T) {
	dir, oldPath, newPath := writeTables(t)
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("BATCH HQ HK N_CTX_Q N_CTX_K fwd_TFLOPS\n9 1 8 8 2048 2048 10\n"), 0o644))

	for _, test := range []struct {
		args []string
		want string
	}{
		{[]string{"-o", "", oldPath, filepath.Join(dir, "missing.txt")}, "not found"},
		{[]string{"-o", "", oldPath, other}, "no common configurations"},
		{[]string{"-o", filepath.Join(dir, "chart.gif"), oldPath, newPath}, "unsupported chart format"},
	} {
		var out, outErr bytes.Buffer
		err := mhacompare(&out, &outErr, test.args)
		require.Error(t, err, "args %q", test.args)
		require.Contains(t, err.Error(), test.want)
	}
}

func TestUsage(t *testing.T) {
	_, oldPath, newPath := writeTables(t)
	for _, args := range [][]string{
		{},
		{oldPath},
		{oldPath, newPath, newPath},
		{"-format", "json", oldPath, newPath},
		{"-bogus", oldPath, newPath},
	} {
		var out, outErr bytes.Buffer
		err := mhacompare(&out, &outErr, args)
		require.True(t, errors.Is(err, errUsage), "args %q: got %v", args, err)
		require.Contains(t, outErr.String(), "usage: mhacompare")
	}
}
