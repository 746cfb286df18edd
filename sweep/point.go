// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// A Point is one attention shape to profile.
type Point struct {
	HeadDim       int
	NumQueryHeads int
	NumKVHeads    int
	QuerySeqLen   int
	KVSeqLen      int
}

// FolderName returns the name of the directory that holds p's
// profiler output, for example "d128_hq8_hk8_sq2048_sk2048".
func (p Point) FolderName() string {
	return fmt.Sprintf("d%d_hq%d_hk%d_sq%d_sk%d",
		p.HeadDim, p.NumQueryHeads, p.NumKVHeads, p.QuerySeqLen, p.KVSeqLen)
}

func (p Point) String() string {
	return fmt.Sprintf("d=%d, hq=%d, hk=%d, sq=%d, sk=%d",
		p.HeadDim, p.NumQueryHeads, p.NumKVHeads, p.QuerySeqLen, p.KVSeqLen)
}

// Validate reports an error if any dimension of p is not positive.
func (p Point) Validate() error {
	for _, f := range p.fields() {
		if f.val <= 0 {
			return errors.Errorf("invalid point %s: %s must be positive, got %d", p.FolderName(), f.name, f.val)
		}
	}
	return nil
}

type pointField struct {
	name string
	val  int
}

func (p Point) fields() []pointField {
	return []pointField{
		{"head_dim", p.HeadDim},
		{"num_query_heads", p.NumQueryHeads},
		{"num_kv_heads", p.NumKVHeads},
		{"query_seq_len", p.QuerySeqLen},
		{"kv_seq_len", p.KVSeqLen},
	}
}

// folderPrefixes are the per-field prefixes of a folder name, in order.
var folderPrefixes = []string{"d", "hq", "hk", "sq", "sk"}

// ParseFolderName is the inverse of Point.FolderName.
func ParseFolderName(name string) (Point, error) {
	parts := strings.Split(name, "_")
	if len(parts) != len(folderPrefixes) {
		return Point{}, errors.Errorf("malformed experiment folder %q", name)
	}
	var vals [5]int
	for i, part := range parts {
		num := strings.TrimPrefix(part, folderPrefixes[i])
		if num == part || num == "" {
			return Point{}, errors.Errorf("malformed experiment folder %q: want %s<n> in field %d", name, folderPrefixes[i], i+1)
		}
		v, err := strconv.Atoi(num)
		if err != nil || v < 0 || strconv.Itoa(v) != num {
			return Point{}, errors.Errorf("malformed experiment folder %q: bad number %q", name, num)
		}
		vals[i] = v
	}
	return Point{vals[0], vals[1], vals[2], vals[3], vals[4]}, nil
}
