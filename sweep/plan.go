// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
)

// A Plan is everything a sweep needs besides the executor.
type Plan struct {
	OutputDir      string          `toml:"output_dir"`
	Profiler       string          `toml:"profiler"`
	InputList      string          `toml:"input_list"`
	Benchmark      []string        `toml:"benchmark"`
	Policy         string          `toml:"policy"`
	Timeout        Duration        `toml:"timeout"`
	Configurations []Configuration `toml:"configuration"`
}

// Duration is a time.Duration that decodes from a TOML string such as
// "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Annotatef(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// DefaultPlan returns the plan used when no plan file is given.
func DefaultPlan() *Plan {
	t := DefaultTool()
	return &Plan{
		OutputDir:      DefaultOutputDir,
		Profiler:       t.Profiler,
		InputList:      t.InputList,
		Benchmark:      t.Benchmark,
		Policy:         ContinueOnFailure.String(),
		Configurations: DefaultConfigurations(),
	}
}

// LoadPlan reads a TOML plan. Keys missing from the file keep their
// DefaultPlan values, except that a file listing any configuration
// replaces the default configurations entirely.
func LoadPlan(path string) (*Plan, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("plan path is empty")
	}
	if filepath.Ext(path) != ".toml" {
		return nil, errors.Errorf("plan must be a .toml file: %s", path)
	}

	p := DefaultPlan()
	p.Configurations = nil
	meta, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, errors.Annotatef(err, "decode plan %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown keys in plan %s: %v", path, undecoded)
	}
	if len(p.Configurations) == 0 {
		p.Configurations = DefaultConfigurations()
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, errors.Annotatef(err, "plan %s", path)
	}
	return p, nil
}

func (p *Plan) normalize() {
	p.OutputDir = strings.TrimSpace(p.OutputDir)
	p.Profiler = strings.TrimSpace(p.Profiler)
	p.InputList = strings.TrimSpace(p.InputList)
	p.Policy = strings.ToLower(strings.TrimSpace(p.Policy))
	for i := range p.Configurations {
		p.Configurations[i].Name = strings.TrimSpace(p.Configurations[i].Name)
	}
}

// Validate checks that p describes a runnable sweep.
func (p *Plan) Validate() error {
	if p.OutputDir == "" {
		return errors.New("output_dir is empty")
	}
	if p.Profiler == "" {
		return errors.New("profiler is empty")
	}
	if p.InputList == "" {
		return errors.New("input_list is empty")
	}
	if len(p.Benchmark) == 0 || strings.TrimSpace(p.Benchmark[0]) == "" {
		return errors.New("benchmark is empty")
	}
	if _, err := ParsePolicy(p.Policy); err != nil {
		return err
	}
	if p.Timeout.Duration < 0 {
		return errors.Errorf("timeout must be >= 0, got %v", p.Timeout.Duration)
	}
	for i, c := range p.Configurations {
		name := c.Name
		if name == "" {
			name = "#" + strconv.Itoa(i+1)
		}
		if c.HeadDim <= 0 {
			return errors.Errorf("configuration %s: head_dim must be positive", name)
		}
		if len(c.Heads) == 0 || len(c.SeqLens) == 0 {
			return errors.Errorf("configuration %s: heads and seq_lens must not be empty", name)
		}
		for _, v := range append(append([]int(nil), c.Heads...), c.SeqLens...) {
			if v <= 0 {
				return errors.Errorf("configuration %s: heads and seq_lens must be positive, got %d", name, v)
			}
		}
	}
	return CheckUnique(p.Points())
}

// Points expands the plan's configurations in order.
func (p *Plan) Points() []Point {
	return Points(p.Configurations...)
}

// Tool returns the profiler/benchmark launcher described by p.
func (p *Plan) Tool() Tool {
	return Tool{
		Profiler:  p.Profiler,
		InputList: p.InputList,
		Benchmark: append([]string(nil), p.Benchmark...),
	}
}
