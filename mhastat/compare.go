// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mhastat compares the forward-pass throughput of two MHA
// benchmark tables configuration by configuration.
package mhastat

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/pingcap/errors"

	"github.com/tritonbench/mhaperf/mhafmt"
)

// A Pair is one configuration present in both tables.
type Pair struct {
	Index int
	A, B  mhafmt.Row
}

// Speedup returns B's throughput relative to A's.
func (p Pair) Speedup() float64 {
	return p.B.TFLOPS / p.A.TFLOPS
}

// A Comparison joins two tables on configuration index.
type Comparison struct {
	Label1, Label2 string
	Pairs          []Pair
}

// Label returns the name used for the table in path: its base name
// without extension.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Compare joins a and b on configuration index. Pairs follow the order
// of a; an index that appears several times in b pairs with each of
// them in b's order. Configurations missing from either side are
// dropped.
func Compare(label1 string, a []mhafmt.Row, label2 string, b []mhafmt.Row) *Comparison {
	byIndex := make(map[int][]mhafmt.Row)
	for _, r := range b {
		byIndex[r.Index] = append(byIndex[r.Index], r)
	}
	c := &Comparison{Label1: label1, Label2: label2}
	for _, ra := range a {
		for _, rb := range byIndex[ra.Index] {
			c.Pairs = append(c.Pairs, Pair{Index: ra.Index, A: ra, B: rb})
		}
	}
	return c
}

// A Summary aggregates a Comparison.
type Summary struct {
	N            int
	Mean1, Mean2 float64
	Max1, Max2   float64

	MeanSpeedup    float64
	GeoMeanSpeedup float64
	Best, Worst    Pair // largest and smallest speedup, first on ties

	// P is the two-sided Mann-Whitney U-test p-value for the two
	// throughput samples, or NaN if it cannot be computed.
	P float64
}

// Summary computes the summary statistics of c.
func (c *Comparison) Summary() (Summary, error) {
	if len(c.Pairs) == 0 {
		return Summary{}, errors.Errorf("no common configurations between %s and %s", c.Label1, c.Label2)
	}
	n := len(c.Pairs)
	xs1 := make([]float64, n)
	xs2 := make([]float64, n)
	speedups := make([]float64, n)
	s := Summary{N: n, Best: c.Pairs[0], Worst: c.Pairs[0]}
	for i, p := range c.Pairs {
		xs1[i], xs2[i] = p.A.TFLOPS, p.B.TFLOPS
		speedups[i] = p.Speedup()
		if speedups[i] > s.Best.Speedup() {
			s.Best = p
		}
		if speedups[i] < s.Worst.Speedup() {
			s.Worst = p
		}
	}
	s.Mean1, s.Mean2 = stats.Mean(xs1), stats.Mean(xs2)
	_, s.Max1 = stats.Bounds(xs1)
	_, s.Max2 = stats.Bounds(xs2)
	s.MeanSpeedup = stats.Mean(speedups)
	s.GeoMeanSpeedup = stats.GeoMean(speedups)

	s.P = math.NaN()
	if n >= 2 {
		if res, err := stats.MannWhitneyUTest(xs1, xs2, stats.LocationDiffers); err == nil {
			s.P = res.P
		}
	}
	return s, nil
}
