// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/pingcap/errors"
)

// waitDelay bounds how long Run waits for the child's output pipes to
// close after the child has been killed.
const waitDelay = 5 * time.Second

// An Executor runs one argument vector to completion.
//
// Run returns the exit status of the process. A process that could not
// be started reports status -1 and a non-nil error. A process that
// exited non-zero reports its status and a non-nil error.
type Executor interface {
	Run(ctx context.Context, args []string) (int, error)
}

// ExecExecutor runs commands with os/exec. The child's standard output
// and error go to Stdout and Stderr, or to the parent's when nil.
//
// On Unix the command runs in its own process group. When ctx is done
// the whole group is killed, so the benchmark the profiler launched
// dies with it.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (e ExecExecutor) Run(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		return -1, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout, cmd.Stderr = e.Stdout, e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	killGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if cmd.ProcessState != nil {
		// The process ran. Its pipes may still have been held open
		// past WaitDelay, in which case err is exec.ErrWaitDelay.
		return cmd.ProcessState.ExitCode(), err
	}
	return -1, errors.Annotatef(err, "start %s", args[0])
}
