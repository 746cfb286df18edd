// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToolArgs(t *testing.T) {
	args := DefaultTool().Args(Point{128, 8, 8, 2048, 2048}, "out/d128_hq8_hk8_sq2048_sk2048")
	require.Equal(t, []string{
		"rocprofv3", "-i", "input.txt", "--kernel-trace", "-d", "out/d128_hq8_hk8_sq2048_sk2048", "--",
		"python3", "op_tests/op_benchmarks/triton/bench_mha.py",
		"-b", "1", "--layout", "bshd",
		"-d", "128", "-hq", "8", "-hk", "8", "-sq", "2048", "-sk", "2048",
	}, args)
}

func TestToolArgsKeepsBoundaries(t *testing.T) {
	tool := Tool{
		Profiler:  "/opt/rocm/bin/rocprofv3",
		InputList: "my counters.txt",
		Benchmark: []string{"bench; rm -rf /"},
	}
	args := tool.Args(Point{56, 128, 128, 131072, 131072}, "a b")
	require.Equal(t, "my counters.txt", args[2])
	require.Equal(t, "a b", args[5])
	require.Equal(t, "bench; rm -rf /", args[7])
	require.Equal(t, "131072", args[len(args)-1])
}

func TestQuote(t *testing.T) {
	for _, test := range []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"rocprofv3", "-d", "out"}, "rocprofv3 -d out"},
		{[]string{"echo", "a b"}, "echo 'a b'"},
		{[]string{"echo", ""}, "echo ''"},
		{[]string{"echo", "it's"}, `echo 'it'\''s'`},
		{[]string{"x;y"}, "'x;y'"},
	} {
		if got := Quote(test.args); got != test.want {
			t.Errorf("Quote(%q) = %q, want %q", test.args, got, test.want)
		}
	}
}

func TestExecExecutor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()
	var e ExecExecutor

	status, err := e.Run(ctx, []string{"sh", "-c", "exit 0"})
	require.NoError(t, err)
	require.Equal(t, 0, status)

	status, err = e.Run(ctx, []string{"sh", "-c", "exit 3"})
	require.Error(t, err)
	require.Equal(t, 3, status)

	status, err = e.Run(ctx, []string{filepath.Join(t.TempDir(), "no-such-profiler")})
	require.Error(t, err)
	require.Equal(t, -1, status)

	status, err = e.Run(ctx, nil)
	require.Error(t, err)
	require.Equal(t, -1, status)
}
