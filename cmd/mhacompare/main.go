// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mhacompare compares forward-pass TFLOPS between two MHA benchmark
// result tables.
//
// Usage:
//
//	mhacompare [-o chart.png] [-format text|csv|html] old.txt new.txt
//
// Each input is the table printed by bench_mha.py: an optional
// preamble, a header line naming BATCH and HQ, and one row per
// configuration of the form
//
//	index BATCH HQ HK N_CTX_Q N_CTX_K fwd_TFLOPS
//
// Rows are matched by configuration index; configurations present in
// only one file are ignored. Mhacompare prints one line per matched
// configuration with the speedup of the second file over the first,
// followed by the mean and maximum TFLOPS of each file, the mean and
// geometric mean speedup, the best and worst configurations, and the
// p-value of a Mann-Whitney U-test between the two sets of TFLOPS.
// Columns are labeled with the file names, less their extension.
//
// Mhacompare also draws a grouped bar chart of the matched
// configurations to the file named by -o (default
// mha_tflops_comparison.png). The chart format follows the file
// extension: .png, .svg or .pdf. Use -o "" to skip the chart.
//
// The -format flag selects the output format: text (the default),
// csv, or html.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tritonbench/mhaperf/mhafmt"
	"github.com/tritonbench/mhaperf/mhastat"
)

var exit = os.Exit // replaced during testing

var errUsage = errors.New("usage")

func main() {
	err := mhacompare(os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == nil:
		exit(0)
	case errors.Is(err, errUsage):
		exit(2)
	default:
		fmt.Fprintf(os.Stderr, "mhacompare: %v\n", err)
		exit(1)
	}
}

var formats = map[string]func(io.Writer, *mhastat.Comparison) error{
	"text": mhastat.FormatText,
	"csv":  mhastat.FormatCSV,
	"html": mhastat.FormatHTML,
}

func mhacompare(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("mhacompare", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(wErr, "usage: mhacompare [options] old.txt new.txt\n")
		fmt.Fprintf(wErr, "options:\n")
		flags.PrintDefaults()
	}
	flagOut := flags.String("o", "mha_tflops_comparison.png", "write the bar chart to `file` (.png, .svg or .pdf; empty for none)")
	flagFormat := flags.String("format", "text", "print results in `format`: text, csv, or html")
	flagLogLevel := flags.String("log-level", "warn", "diagnostic log `level`")
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	format, ok := formats[*flagFormat]
	if !ok || flags.NArg() != 2 {
		if !ok {
			fmt.Fprintf(wErr, "unknown -format %q\n", *flagFormat)
		}
		flags.Usage()
		return errUsage
	}
	ws := zapcore.AddSync(wErr)
	lg, props, err := log.InitLoggerWithWriteSyncer(&log.Config{Level: *flagLogLevel, Format: "text"}, ws, ws)
	if err != nil {
		return fmt.Errorf("init logger: %v", err)
	}
	log.ReplaceGlobals(lg, props)

	file1, file2 := flags.Arg(0), flags.Arg(1)
	a, err := mhafmt.ReadFile(file1)
	if err != nil {
		return err
	}
	log.Info("loaded results", zap.String("file", file1), zap.Int("rows", len(a)))
	b, err := mhafmt.ReadFile(file2)
	if err != nil {
		return err
	}
	log.Info("loaded results", zap.String("file", file2), zap.Int("rows", len(b)))

	c := mhastat.Compare(mhastat.Label(file1), a, mhastat.Label(file2), b)
	if len(c.Pairs) == 0 {
		return fmt.Errorf("no common configurations between %s and %s", file1, file2)
	}
	log.Info("matched configurations", zap.Int("pairs", len(c.Pairs)))

	if *flagOut != "" {
		if err := mhastat.Chart(c, *flagOut); err != nil {
			return err
		}
		fmt.Fprintf(wErr, "Plot saved as '%s'\n", *flagOut)
	}

	bw := bufio.NewWriter(w)
	if err := format(bw, c); err != nil {
		return err
	}
	return bw.Flush()
}
