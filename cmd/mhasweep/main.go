// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mhasweep profiles the Triton MHA benchmark over a grid of attention
// shapes.
//
// Usage:
//
//	mhasweep [-plan plan.toml] [-o dir] [-policy continue|abort] [-db driver:dsn] [-n]
//
// For every point of the grid, mhasweep creates the directory
// <dir>/d<D>_hq<HQ>_hk<HK>_sq<SQ>_sk<SK> and runs
//
//	rocprofv3 -i input.txt --kernel-trace -d <that directory> -- \
//		python3 op_tests/op_benchmarks/triton/bench_mha.py \
//		-b 1 --layout bshd -d <D> -hq <HQ> -hk <HK> -sq <SQ> -sk <SK>
//
// one point at a time. The default grid is head dimension 128 with 8,
// 16, 32, 64 and 128 heads, followed by head dimension 56 with 128
// heads, each at sequence lengths 2048 through 131072: 42 points in
// all. When the sweep ends, mhasweep prints the output directory and
// the experiment directories found in it.
//
// The -policy flag decides what happens when a point fails. With
// "continue", the default, the failure is reported and the sweep goes
// on; with "abort" the sweep stops at the first failure. Either way,
// mhasweep exits with status 1 if any point failed.
//
// The -plan flag names a TOML file that overrides the profiler, the
// benchmark command, the output directory, the policy and the grid:
//
//	output_dir = "rocprof_results"
//	profiler = "rocprofv3"
//	input_list = "input.txt"
//	benchmark = ["python3", "op_tests/op_benchmarks/triton/bench_mha.py"]
//	policy = "continue"
//	timeout = "30m"
//
//	[[configuration]]
//	name = "d64"
//	head_dim = 64
//	heads = [8, 16]
//	seq_lens = [2048, 4096]
//
// Flags given on the command line take precedence over the plan.
//
// The -db flag records the sweep and the outcome of every point in a
// database: "sqlite3:runs.db" or "mysql:user:pass@tcp(host:3306)/runs".
//
// The -n flag prints the commands that would be run and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tritonbench/mhaperf/runlog"
	_ "github.com/tritonbench/mhaperf/runlog/sqlite3"
	"github.com/tritonbench/mhaperf/sweep"
)

var exit = os.Exit // replaced during testing

// errUsage reports bad command-line arguments; the usage message has
// already been printed.
var errUsage = errors.New("usage")

// errFailed reports that the sweep ran but some points failed; the
// failures have already been reported.
var errFailed = errors.New("some experiments failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := mhasweep(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	switch {
	case err == nil:
		exit(0)
	case errors.Is(err, errUsage):
		exit(2)
	case errors.Is(err, errFailed):
		exit(1)
	default:
		fmt.Fprintf(os.Stderr, "mhasweep: %v\n", err)
		exit(1)
	}
}

func mhasweep(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("mhasweep", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: mhasweep [options]\n")
		fmt.Fprintf(stderr, "options:\n")
		flags.PrintDefaults()
	}
	var (
		flagPlan      = flags.String("plan", "", "read the sweep plan from TOML `file`")
		flagOut       = flags.String("o", "", "write experiment directories under `dir` (default \""+sweep.DefaultOutputDir+"\")")
		flagProfiler  = flags.String("profiler", "", "profiler `command` (default \""+sweep.DefaultProfiler+"\")")
		flagInputList = flags.String("input-list", "", "profiler counter input `file` (default \""+sweep.DefaultInputList+"\")")
		flagBenchmark = flags.String("benchmark", "", "benchmark `command`, split on spaces (default \""+strings.Join(sweep.DefaultBenchmark, " ")+"\")")
		flagPolicy    = flags.String("policy", "", "on failure, `continue` with the next point or abort the sweep (default \"continue\")")
		flagTimeout   = flags.Duration("timeout", 0, "kill a point's command after `duration` (0 means never)")
		flagDB        = flags.String("db", "", "record outcomes in `driver:dsn` (sqlite3 or mysql)")
		flagDryRun    = flags.Bool("n", false, "print the commands without running them")
		flagLogLevel  = flags.String("log-level", "warn", "diagnostic log `level`: debug, info, warn or error")
	)
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 0 {
		flags.Usage()
		return errUsage
	}
	if err := initLogger(*flagLogLevel, stderr); err != nil {
		return err
	}

	plan := sweep.DefaultPlan()
	if *flagPlan != "" {
		var err error
		if plan, err = sweep.LoadPlan(*flagPlan); err != nil {
			return err
		}
		log.Info("loaded plan", zap.String("path", *flagPlan), zap.Int("points", len(plan.Points())))
	}
	if *flagOut != "" {
		plan.OutputDir = *flagOut
	}
	if *flagProfiler != "" {
		plan.Profiler = *flagProfiler
	}
	if *flagInputList != "" {
		plan.InputList = *flagInputList
	}
	if *flagBenchmark != "" {
		plan.Benchmark = strings.Fields(*flagBenchmark)
	}
	if *flagPolicy != "" {
		plan.Policy = *flagPolicy
	}
	flags.Visit(func(f *flag.Flag) {
		// -timeout 0 clears a plan's timeout.
		if f.Name == "timeout" {
			plan.Timeout.Duration = *flagTimeout
		}
	})
	if err := plan.Validate(); err != nil {
		fmt.Fprintf(stderr, "mhasweep: %v\n", err)
		flags.Usage()
		return errUsage
	}
	policy, _ := sweep.ParsePolicy(plan.Policy)
	pts := plan.Points()
	tool := plan.Tool()

	if *flagDryRun {
		for _, p := range pts {
			fmt.Fprintln(stdout, sweep.Quote(tool.Args(p, filepath.Join(plan.OutputDir, p.FolderName()))))
		}
		return nil
	}

	r := &sweep.Runner{
		Root:     plan.OutputDir,
		Tool:     tool,
		Executor: sweep.ExecExecutor{Stdout: stdout, Stderr: stderr},
		Policy:   policy,
		Timeout:  plan.Timeout.Duration,
		Out:      stdout,
	}

	if *flagDB != "" {
		db, err := openRunLog(*flagDB)
		if err != nil {
			return err
		}
		defer db.Close()
		s, err := db.NewSweep(ctx, plan.OutputDir, policy)
		if err != nil {
			return err
		}
		log.Info("recording sweep", zap.String("db", *flagDB), zap.String("uuid", s.UUID))
		fmt.Fprintf(stdout, "Sweep ID: %s\n", s.UUID)
		// The point an interrupt cut short is still recorded.
		recordCtx := context.WithoutCancel(ctx)
		r.OnOutcome = func(o sweep.Outcome) error {
			return s.Record(recordCtx, o)
		}
	}

	start := time.Now()
	rep, err := r.Run(ctx, pts)
	log.Info("sweep done", zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		var cf *sweep.CommandFailedError
		if errors.As(err, &cf) {
			return errFailed
		}
		return err
	}
	if rep.Err() != nil {
		return errFailed
	}
	return nil
}

// openRunLog opens the run log named by arg, "driver:dsn".
func openRunLog(arg string) (*runlog.DB, error) {
	driver, dsn, ok := strings.Cut(arg, ":")
	if !ok || dsn == "" {
		return nil, fmt.Errorf("invalid -db %q: want sqlite3:file or mysql:dsn", arg)
	}
	switch driver {
	case "sqlite3":
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %v", err)
		}
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported -db driver %q: want sqlite3 or mysql", driver)
	}
	return runlog.OpenSQL(driver, dsn)
}

func initLogger(level string, w io.Writer) error {
	ws := zapcore.AddSync(w)
	lg, props, err := log.InitLoggerWithWriteSyncer(&log.Config{Level: level, Format: "text"}, ws, ws)
	if err != nil {
		return fmt.Errorf("init logger: %v", err)
	}
	log.ReplaceGlobals(lg, props)
	return nil
}
