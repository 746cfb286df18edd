// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mhafmt reads the result tables printed by the Triton MHA
// benchmark.
//
// A table looks like:
//
//	fused-attention-fwd-d128-layoutbshd:
//	     BATCH     HQ     HK  N_CTX_Q  N_CTX_K  fwd(TFLOPS)
//	0      1.0    8.0    8.0   2048.0   2048.0    95.123456
//	1      1.0    8.0    8.0   4096.0   4096.0   130.000000
//
// Everything up to and including the first line mentioning both BATCH
// and HQ is preamble. If there is no such line, every line is a
// candidate row. A row has at least seven whitespace-separated fields:
// the configuration index, BATCH, HQ, HK, N_CTX_Q, N_CTX_K and the
// forward TFLOPS. Further fields are ignored, as are lines with fewer
// fields.
package mhafmt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// A Row is one configuration of a benchmark table.
type Row struct {
	Index  int
	Batch  float64
	HQ     float64
	HK     float64
	NCtxQ  float64
	NCtxK  float64
	TFLOPS float64 // forward pass throughput
}

// minFields is the number of fields in a row.
const minFields = 7

// A SyntaxError represents a malformed row.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

type line struct {
	n    int
	text string
}

// A Reader reads rows from a benchmark table.
//
// Its API is modeled on bufio.Scanner.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error

	started bool
	// pending holds lines read while looking for the header that
	// must be returned as rows because no header was found.
	pending []line

	row Row
}

// NewReader returns a Reader reading from r. fileName is used in error
// messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	return &Reader{s: bufio.NewScanner(r), fileName: fileName}
}

// isHeader reports whether text is the column header line.
func isHeader(text string) bool {
	return strings.Contains(text, "BATCH") && strings.Contains(text, "HQ")
}

// start consumes the preamble.
func (r *Reader) start() {
	r.started = true
	var pre []line
	for r.s.Scan() {
		r.lineNum++
		text := r.s.Text()
		if isHeader(text) {
			return
		}
		pre = append(pre, line{r.lineNum, text})
	}
	// No header: the whole input is data.
	r.pending = pre
}

func (r *Reader) next() (line, bool) {
	if len(r.pending) > 0 {
		l := r.pending[0]
		r.pending = r.pending[1:]
		return l, true
	}
	if !r.s.Scan() {
		return line{}, false
	}
	r.lineNum++
	return line{r.lineNum, r.s.Text()}, true
}

// Scan advances to the next row and reports whether there is one. It
// returns false at the end of the input or on the first error, which
// is then available from Err.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.started {
		r.start()
	}
	for {
		l, ok := r.next()
		if !ok {
			if err := r.s.Err(); err != nil {
				r.err = errors.Annotatef(err, "read %s", r.fileName)
			}
			return false
		}
		fields := strings.Fields(l.text)
		if len(fields) < minFields || isHeader(l.text) {
			continue
		}
		row, err := parseRow(fields)
		if err != nil {
			r.err = &SyntaxError{r.fileName, l.n, err.Error()}
			return false
		}
		r.row = row
		return true
	}
}

// Row returns the row most recently read by Scan.
func (r *Reader) Row() Row {
	return r.row
}

// Err returns the first error encountered by the Reader, if any.
func (r *Reader) Err() error {
	return r.err
}

var floatColumns = []string{"BATCH", "HQ", "HK", "N_CTX_Q", "N_CTX_K", "fwd_TFLOPS"}

func parseRow(fields []string) (Row, error) {
	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return Row{}, errors.Errorf("invalid configuration index %q", fields[0])
	}
	var vals [6]float64
	for i, name := range floatColumns {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Row{}, errors.Errorf("invalid %s value %q", name, fields[i+1])
		}
		vals[i] = v
	}
	return Row{
		Index:  idx,
		Batch:  vals[0],
		HQ:     vals[1],
		HK:     vals[2],
		NCtxQ:  vals[3],
		NCtxK:  vals[4],
		TFLOPS: vals[5],
	}, nil
}

// ReadAll reads every row from r.
func ReadAll(r io.Reader, fileName string) ([]Row, error) {
	var rows []Row
	rd := NewReader(r, fileName)
	for rd.Scan() {
		rows = append(rows, rd.Row())
	}
	return rows, rd.Err()
}

// ReadFile reads every row of the table in the named file.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Errorf("file %q not found", path)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	return ReadAll(f, path)
}
