// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package sweep

import "os/exec"

// killGroupOnCancel keeps exec.CommandContext's default of killing
// only the direct child.
func killGroupOnCancel(cmd *exec.Cmd) {}
