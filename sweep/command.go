// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"strconv"
	"strings"
)

// Defaults used when neither a plan file nor a flag overrides them.
const (
	DefaultProfiler  = "rocprofv3"
	DefaultInputList = "input.txt"
	DefaultOutputDir = "rocprof_results"
)

// DefaultBenchmark is the benchmark invocation wrapped by the profiler.
var DefaultBenchmark = []string{"python3", "op_tests/op_benchmarks/triton/bench_mha.py"}

// Fixed benchmark settings shared by every point.
const (
	benchBatch  = "1"
	benchLayout = "bshd"
)

// A Tool describes how to launch the profiler around the benchmark.
type Tool struct {
	Profiler  string   // profiler executable
	InputList string   // counter input list passed with -i
	Benchmark []string // benchmark command and leading arguments
}

// DefaultTool returns the Tool used when nothing is configured.
func DefaultTool() Tool {
	return Tool{
		Profiler:  DefaultProfiler,
		InputList: DefaultInputList,
		Benchmark: append([]string(nil), DefaultBenchmark...),
	}
}

// Args returns the argument vector that profiles p's benchmark run and
// writes the trace into outDir. Element 0 is the profiler.
func (t Tool) Args(p Point, outDir string) []string {
	args := []string{t.Profiler, "-i", t.InputList, "--kernel-trace", "-d", outDir, "--"}
	args = append(args, t.Benchmark...)
	return append(args,
		"-b", benchBatch,
		"--layout", benchLayout,
		"-d", strconv.Itoa(p.HeadDim),
		"-hq", strconv.Itoa(p.NumQueryHeads),
		"-hk", strconv.Itoa(p.NumKVHeads),
		"-sq", strconv.Itoa(p.QuerySeqLen),
		"-sk", strconv.Itoa(p.KVSeqLen),
	)
}

// Quote renders args as a single line for display. Arguments that
// contain spaces or shell metacharacters are single-quoted. The result
// is never executed.
func Quote(args []string) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$`|&;<>()*?[]{}~!#") {
			b.WriteString(a)
			continue
		}
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(a, "'", `'\''`))
		b.WriteByte('\'')
	}
	return b.String()
}
