// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweep profiles a benchmark over a grid of attention shapes.
//
// Each Point is run under the profiler in its own output directory,
// strictly one at a time. A Runner reports every point before and after
// it runs and, once the grid is exhausted, lists the experiment
// directories found under its root.
package sweep

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// A Policy decides what a Runner does after a point fails.
type Policy int

const (
	// ContinueOnFailure records the failure and runs the remaining
	// points. The sweep still fails overall.
	ContinueOnFailure Policy = iota
	// AbortOnFailure stops the sweep at the first failed point.
	AbortOnFailure
)

func (p Policy) String() string {
	switch p {
	case ContinueOnFailure:
		return "continue"
	case AbortOnFailure:
		return "abort"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "continue" or "abort".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return ContinueOnFailure, nil
	case "abort":
		return AbortOnFailure, nil
	}
	return 0, errors.Errorf("unknown failure policy %q (want continue or abort)", s)
}

// CommandFailedError reports that the profiled command for one
// experiment exited unsuccessfully.
type CommandFailedError struct {
	Folder     string
	ExitStatus int
	Err        error // underlying process error, may be nil
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("experiment %s failed with exit status %d", e.Folder, e.ExitStatus)
}

func (e *CommandFailedError) Unwrap() error { return e.Err }

// An Outcome is the result of running one Point.
type Outcome struct {
	Point      Point
	Folder     string
	Dir        string   // output directory
	Args       []string // argument vector, nil if nothing was run
	ExitStatus int      // -1 if the command never ran to completion
	Err        error
	Start      time.Time
	Duration   time.Duration
}

// Succeeded reports whether the point's command exited with status 0.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.ExitStatus == 0
}

// A Runner profiles points one at a time.
type Runner struct {
	Root     string // base output directory
	Tool     Tool
	Executor Executor
	Policy   Policy

	// Timeout bounds each point's command. Zero means no limit.
	Timeout time.Duration

	// Out receives the human-readable progress report.
	// If nil, os.Stdout is used.
	Out io.Writer

	// OnOutcome, if non-nil, is called after each point completes.
	// An error stops the sweep.
	OnOutcome func(Outcome) error
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) executor() Executor {
	if r.Executor == nil {
		return ExecExecutor{}
	}
	return r.Executor
}

const banner = "=========================================="

// RunExperiment creates p's output directory and runs the profiled
// benchmark in it. It never panics on a bad point; problems are
// reported in the returned Outcome.
func (r *Runner) RunExperiment(ctx context.Context, p Point) Outcome {
	w := r.out()
	o := Outcome{
		Point:      p,
		Folder:     p.FolderName(),
		ExitStatus: -1,
		Start:      time.Now(),
	}
	o.Dir = filepath.Join(r.Root, o.Folder)

	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Running experiment: %s\n", o.Folder)
	fmt.Fprintf(w, "Parameters: %s\n", p)

	if err := p.Validate(); err != nil {
		o.Err = err
		r.finish(&o)
		return o
	}
	if err := os.MkdirAll(o.Dir, 0777); err != nil {
		o.Err = errors.Annotatef(err, "create output directory for %s", o.Folder)
		r.finish(&o)
		return o
	}

	o.Args = r.Tool.Args(p, o.Dir)
	fmt.Fprintf(w, "Command: %s\n", Quote(o.Args))

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	status, err := r.executor().Run(runCtx, o.Args)
	o.ExitStatus = status
	if err != nil || status != 0 {
		o.Err = &CommandFailedError{Folder: o.Folder, ExitStatus: status, Err: err}
	}
	r.finish(&o)
	return o
}

func (r *Runner) finish(o *Outcome) {
	o.Duration = time.Since(o.Start)
	w := r.out()
	if o.Succeeded() {
		fmt.Fprintf(w, "✓ Completed: %s\n", o.Folder)
		log.Info("experiment completed",
			zap.String("folder", o.Folder),
			zap.Duration("duration", o.Duration))
		return
	}
	if cf, ok := o.Err.(*CommandFailedError); ok {
		fmt.Fprintf(w, "✗ Failed: %s (exit status %d)\n", o.Folder, cf.ExitStatus)
	} else {
		fmt.Fprintf(w, "✗ Failed: %s (%v)\n", o.Folder, o.Err)
	}
	log.Warn("experiment failed",
		zap.String("folder", o.Folder),
		zap.Int("exitStatus", o.ExitStatus),
		zap.Duration("duration", o.Duration),
		zap.Error(o.Err))
}

// A Report summarizes a sweep.
type Report struct {
	Root     string
	Policy   Policy
	Outcomes []Outcome
	// Dirs lists the experiment directories under Root after the
	// sweep, sorted.
	Dirs []string
	// Stray lists the entries of Dirs whose names do not parse as a
	// Point's folder name.
	Stray []string
}

// Failed returns the outcomes that did not succeed, in run order.
func (rep *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range rep.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err combines the errors of every failed point, or returns nil.
func (rep *Report) Err() error {
	var err error
	for _, o := range rep.Failed() {
		err = multierr.Append(err, o.Err)
	}
	return err
}

// Print writes the closing summary and directory listing to w.
func (rep *Report) Print(w io.Writer) {
	fmt.Fprintln(w, banner)
	failed := len(rep.Failed())
	if failed == 0 {
		fmt.Fprintf(w, "All %d experiments completed!\n", len(rep.Outcomes))
	} else {
		fmt.Fprintf(w, "%d of %d experiments failed:\n", failed, len(rep.Outcomes))
		for _, o := range rep.Failed() {
			fmt.Fprintf(w, "  %s (exit status %d)\n", o.Folder, o.ExitStatus)
		}
	}
	fmt.Fprintf(w, "Results saved in: %s\n", rep.Root)
	fmt.Fprintln(w, "Experiment directories:")
	for _, d := range rep.Dirs {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// Run profiles pts in order and prints the closing summary.
//
// OnOutcome sees every point that ran, including one cut short by ctx;
// once ctx is done, its error is reported instead of OnOutcome's.
// Under ContinueOnFailure the returned error is nil unless the sweep
// was cut short by ctx or OnOutcome; callers consult Report.Err for
// point failures. Under AbortOnFailure the first failed point's error
// is returned and no further points are run. The Report is non-nil in
// every case.
func (r *Runner) Run(ctx context.Context, pts []Point) (*Report, error) {
	rep := &Report{Root: r.Root, Policy: r.Policy}
	log.Info("sweep started",
		zap.String("root", r.Root),
		zap.Int("points", len(pts)),
		zap.Stringer("policy", r.Policy))

	var runErr error
	for _, p := range pts {
		if err := ctx.Err(); err != nil {
			runErr = errors.Annotate(err, "sweep interrupted")
			break
		}
		o := r.RunExperiment(ctx, p)
		rep.Outcomes = append(rep.Outcomes, o)
		if r.OnOutcome != nil {
			if err := r.OnOutcome(o); err != nil {
				if ctx.Err() == nil {
					runErr = errors.Annotatef(err, "record outcome of %s", o.Folder)
					break
				}
				log.Warn("cannot record interrupted experiment",
					zap.String("folder", o.Folder), zap.Error(err))
			}
		}
		if err := ctx.Err(); err != nil {
			runErr = errors.Annotate(err, "sweep interrupted")
			break
		}
		if !o.Succeeded() && r.Policy == AbortOnFailure {
			runErr = o.Err
			break
		}
	}

	dirs, err := ListExperimentDirs(r.Root)
	if err != nil {
		log.Warn("cannot list experiment directories", zap.String("root", r.Root), zap.Error(err))
	}
	rep.Dirs = dirs
	for _, d := range dirs {
		if _, err := ParseFolderName(d); err != nil {
			rep.Stray = append(rep.Stray, d)
			log.Warn("directory is not an experiment folder",
				zap.String("root", r.Root), zap.String("dir", d))
		}
	}
	rep.Print(r.out())

	log.Info("sweep finished",
		zap.Int("run", len(rep.Outcomes)),
		zap.Int("failed", len(rep.Failed())))
	return rep, runErr
}
