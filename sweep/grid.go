// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import "github.com/pingcap/errors"

// A Configuration is a family of points sharing a head dimension.
//
// Heads is iterated in the outer loop and SeqLens in the inner loop.
// Each head count is used for both the query and the key/value heads,
// and each sequence length for both the query and key/value sequences.
type Configuration struct {
	Name    string `toml:"name"`
	HeadDim int    `toml:"head_dim"`
	Heads   []int  `toml:"heads"`
	SeqLens []int  `toml:"seq_lens"`
}

// DefaultSeqLens are the sequence lengths swept by both default
// configurations.
var DefaultSeqLens = []int{2048, 4096, 8192, 16384, 32768, 65536, 131072}

// DefaultConfigurations returns the two built-in sweeps: head_dim 128
// over 8 to 128 heads, then head_dim 56 with 128 heads.
func DefaultConfigurations() []Configuration {
	return []Configuration{
		{
			Name:    "d128-heads",
			HeadDim: 128,
			Heads:   []int{8, 16, 32, 64, 128},
			SeqLens: append([]int(nil), DefaultSeqLens...),
		},
		{
			Name:    "d56-hq128",
			HeadDim: 56,
			Heads:   []int{128},
			SeqLens: append([]int(nil), DefaultSeqLens...),
		},
	}
}

// Points expands c in sweep order.
func (c Configuration) Points() []Point {
	pts := make([]Point, 0, len(c.Heads)*len(c.SeqLens))
	for _, h := range c.Heads {
		for _, s := range c.SeqLens {
			pts = append(pts, Point{
				HeadDim:       c.HeadDim,
				NumQueryHeads: h,
				NumKVHeads:    h,
				QuerySeqLen:   s,
				KVSeqLen:      s,
			})
		}
	}
	return pts
}

// Points expands every configuration in order and concatenates the
// results.
func Points(cfgs ...Configuration) []Point {
	var pts []Point
	for _, c := range cfgs {
		pts = append(pts, c.Points()...)
	}
	return pts
}

// CheckUnique returns an error if two points share a folder name.
func CheckUnique(pts []Point) error {
	seen := make(map[string]int, len(pts))
	for i, p := range pts {
		name := p.FolderName()
		if j, ok := seen[name]; ok {
			return errors.Errorf("points %d and %d both map to folder %s", j, i, name)
		}
		seen[name] = i
	}
	return nil
}
