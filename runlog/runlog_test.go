// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/tritonbench/mhaperf/runlog"
	"github.com/tritonbench/mhaperf/runlog/runlogtest"
	"github.com/tritonbench/mhaperf/sweep"
)

func TestRecordOutcomes(t *testing.T) {
	ctx := context.Background()
	db := runlogtest.NewDB(t)

	s, err := db.NewSweep(ctx, "rocprof_results", sweep.ContinueOnFailure)
	require.NoError(t, err)
	require.Len(t, s.UUID, 36)

	start := time.Unix(1700000000, 0)
	ok := sweep.Outcome{
		Point:    sweep.Point{128, 8, 8, 2048, 2048},
		Folder:   "d128_hq8_hk8_sq2048_sk2048",
		Start:    start,
		Duration: 1500 * time.Millisecond,
	}
	bad := sweep.Outcome{
		Point:      sweep.Point{56, 128, 128, 131072, 131072},
		Folder:     "d56_hq128_hk128_sq131072_sk131072",
		ExitStatus: 137,
		Err:        &sweep.CommandFailedError{Folder: "d56_hq128_hk128_sq131072_sk131072", ExitStatus: 137},
		Start:      start.Add(time.Minute),
		Duration:   2 * time.Second,
	}
	require.NoError(t, s.Record(ctx, ok))
	require.NoError(t, s.Record(ctx, bad))

	recs, err := db.Outcomes(ctx, s.UUID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, int64(0), recs[0].Seq)
	require.Equal(t, ok.Folder, recs[0].Folder)
	require.Equal(t, ok.Point, recs[0].Point)
	require.True(t, recs[0].Succeeded())
	require.True(t, start.Equal(recs[0].Started))
	require.Equal(t, 1500*time.Millisecond, recs[0].Duration)

	require.Equal(t, int64(1), recs[1].Seq)
	require.Equal(t, 137, recs[1].ExitStatus)
	require.False(t, recs[1].Succeeded())
	require.Contains(t, recs[1].Error, "exit status 137")
}

func TestSweepsAreSeparate(t *testing.T) {
	ctx := context.Background()
	db := runlogtest.NewDB(t)

	latest, err := db.LatestSweep(ctx)
	require.NoError(t, err)
	require.Equal(t, "", latest)

	defer SetNow(time.Time{})
	SetNow(time.Unix(200, 0))
	s1, err := db.NewSweep(ctx, "a", sweep.ContinueOnFailure)
	require.NoError(t, err)
	SetNow(time.Unix(100, 0))
	s2, err := db.NewSweep(ctx, "b", sweep.AbortOnFailure)
	require.NoError(t, err)
	require.NotEqual(t, s1.UUID, s2.UUID)

	o := sweep.Outcome{Point: sweep.Point{64, 4, 4, 1024, 1024}, Folder: "d64_hq4_hk4_sq1024_sk1024"}
	require.NoError(t, s1.Record(ctx, o))

	n, err := db.CountSweeps()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	recs, err := db.Outcomes(ctx, s2.UUID)
	require.NoError(t, err)
	require.Empty(t, recs)

	recs, err = db.Outcomes(ctx, s1.UUID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Latest is by start time, not insertion order.
	latest, err = db.LatestSweep(ctx)
	require.NoError(t, err)
	require.Equal(t, s1.UUID, latest)
}

func TestOutcomesUnknownSweep(t *testing.T) {
	db := runlogtest.NewDB(t)
	recs, err := db.Outcomes(context.Background(), "no-such-sweep")
	require.NoError(t, err)
	require.Empty(t, recs)
}
