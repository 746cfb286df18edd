// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mhastat

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/google/safehtml/template"
)

const htmlText = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>MHA Performance Comparison: {{.Label1}} vs {{.Label2}}</title>
<style>
.mhastat { border-collapse: collapse; }
.mhastat th { border-bottom: 1px solid #666; padding: 0em 1em; }
.mhastat td { text-align: right; padding: 0em 1em; }
</style>
</head>
<body>
<table class="mhastat">
<tr><th>index<th>BATCH<th>HQ<th>HK<th>N_CTX_Q<th>N_CTX_K<th>{{.Label1}}<th>{{.Label2}}<th>speedup
{{range .Rows -}}
<tr><td>{{.Index}}<td>{{.Batch}}<td>{{.HQ}}<td>{{.HK}}<td>{{.NCtxQ}}<td>{{.NCtxK}}<td>{{.A}}<td>{{.B}}<td>{{.Speedup}}
{{end -}}
</table>
<ul class="summary">
{{range .Summary -}}
<li>{{.}}
{{end -}}
</ul>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("mhastat").Parse(htmlText))

type htmlRow struct {
	Index   int
	Batch   string
	HQ      string
	HK      string
	NCtxQ   string
	NCtxK   string
	A       string
	B       string
	Speedup string
}

type htmlData struct {
	Label1, Label2 string
	Rows           []htmlRow
	Summary        []string
}

// FormatHTML writes c as a standalone HTML page.
func FormatHTML(w io.Writer, c *Comparison) error {
	s, err := c.Summary()
	if err != nil {
		return err
	}
	d := htmlData{Label1: c.Label1, Label2: c.Label2}
	for _, p := range c.Pairs {
		d.Rows = append(d.Rows, htmlRow{
			Index: p.Index,
			Batch: dim(p.A.Batch), HQ: dim(p.A.HQ), HK: dim(p.A.HK),
			NCtxQ: dim(p.A.NCtxQ), NCtxK: dim(p.A.NCtxK),
			A:       fmt.Sprintf("%.2f", p.A.TFLOPS),
			B:       fmt.Sprintf("%.2f", p.B.TFLOPS),
			Speedup: fmt.Sprintf("%.3fx", p.Speedup()),
		})
	}
	p := "n/a"
	if !math.IsNaN(s.P) {
		p = "p=" + strconv.FormatFloat(s.P, 'f', 3, 64)
	}
	d.Summary = []string{
		fmt.Sprintf("%s mean %.2f TFLOPS, max %.2f TFLOPS", c.Label1, s.Mean1, s.Max1),
		fmt.Sprintf("%s mean %.2f TFLOPS, max %.2f TFLOPS", c.Label2, s.Mean2, s.Max2),
		fmt.Sprintf("average speedup (%s/%s) %.3fx, geomean %.3fx", c.Label2, c.Label1, s.MeanSpeedup, s.GeoMeanSpeedup),
		fmt.Sprintf("best %.3fx (config %d), worst %.3fx (config %d)", s.Best.Speedup(), s.Best.Index, s.Worst.Speedup(), s.Worst.Index),
		fmt.Sprintf("U-test %s (n=%d)", p, s.N),
	}
	return htmlTemplate.Execute(w, d)
}
