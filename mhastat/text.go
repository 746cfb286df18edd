// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mhastat

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tritonbench/mhaperf/internal/texttab"
)

var rule = strings.Repeat("=", 60)

func dim(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatText writes the per-configuration table followed by the
// summary statistics.
func FormatText(w io.Writer, c *Comparison) error {
	s, err := c.Summary()
	if err != nil {
		return err
	}

	var tab texttab.Table
	tab.Row().Cell("index").Cell("BATCH", texttab.Right).Cell("HQ", texttab.Right).Cell("HK", texttab.Right).
		Cell("N_CTX_Q", texttab.Right).Cell("N_CTX_K", texttab.Right).
		Cell(c.Label1, texttab.Right).Cell(c.Label2, texttab.Right).Cell("speedup", texttab.Right)
	for _, p := range c.Pairs {
		tab.Row().Cell(strconv.Itoa(p.Index), texttab.Right).
			Cell(dim(p.A.Batch), texttab.Right).Cell(dim(p.A.HQ), texttab.Right).Cell(dim(p.A.HK), texttab.Right).
			Cell(dim(p.A.NCtxQ), texttab.Right).Cell(dim(p.A.NCtxK), texttab.Right).
			Cell(fmt.Sprintf("%.2f", p.A.TFLOPS), texttab.Right).
			Cell(fmt.Sprintf("%.2f", p.B.TFLOPS), texttab.Right).
			Cell(fmt.Sprintf("%.3fx", p.Speedup()), texttab.Right)
	}

	bw := bufio.NewWriter(w)
	if err := tab.Format(bw); err != nil {
		return err
	}
	fmt.Fprintf(bw, "\n%s\nSummary Statistics:\n%s\n", rule, rule)
	fmt.Fprintf(bw, "%s - Mean: %.2f TFLOPS\n", c.Label1, s.Mean1)
	fmt.Fprintf(bw, "%s - Mean: %.2f TFLOPS\n", c.Label2, s.Mean2)
	fmt.Fprintf(bw, "\n%s - Max: %.2f TFLOPS\n", c.Label1, s.Max1)
	fmt.Fprintf(bw, "%s - Max: %.2f TFLOPS\n", c.Label2, s.Max2)
	fmt.Fprintf(bw, "\nAverage Speedup (%s/%s): %.3fx\n", c.Label2, c.Label1, s.MeanSpeedup)
	fmt.Fprintf(bw, "Geomean Speedup (%s/%s): %.3fx\n", c.Label2, c.Label1, s.GeoMeanSpeedup)
	fmt.Fprintf(bw, "Best case: %.3fx (config %d)\n", s.Best.Speedup(), s.Best.Index)
	fmt.Fprintf(bw, "Worst case: %.3fx (config %d)\n", s.Worst.Speedup(), s.Worst.Index)
	if math.IsNaN(s.P) {
		fmt.Fprintf(bw, "U-test: n/a (n=%d)\n", s.N)
	} else {
		fmt.Fprintf(bw, "U-test: p=%.3f (n=%d)\n", s.P, s.N)
	}
	fmt.Fprintln(bw, rule)
	return bw.Flush()
}

// FormatCSV writes one record per configuration.
func FormatCSV(w io.Writer, c *Comparison) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"index", "BATCH", "HQ", "HK", "N_CTX_Q", "N_CTX_K",
		"fwd_TFLOPS_" + c.Label1, "fwd_TFLOPS_" + c.Label2, "speedup"})
	for _, p := range c.Pairs {
		cw.Write([]string{
			strconv.Itoa(p.Index),
			dim(p.A.Batch), dim(p.A.HQ), dim(p.A.HK), dim(p.A.NCtxQ), dim(p.A.NCtxK),
			strconv.FormatFloat(p.A.TFLOPS, 'f', -1, 64),
			strconv.FormatFloat(p.B.TFLOPS, 'f', -1, 64),
			strconv.FormatFloat(p.Speedup(), 'f', 4, 64),
		})
	}
	cw.Flush()
	return cw.Error()
}
