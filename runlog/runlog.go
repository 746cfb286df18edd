// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runlog records sweeps and the outcome of every experiment
// point in a SQL database, so that failed points can be found and
// rerun after the fact.
package runlog

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap/errors"

	"github.com/tritonbench/mhaperf/sweep"
)

// DB is a run log backed by a SQL database. It's safe for concurrent
// use by multiple goroutines.
type DB struct {
	sql *sql.DB

	insertSweep   *sql.Stmt
	insertOutcome *sql.Stmt
}

// OpenSQL opens a run log. The parameters are the same as the
// parameters for sql.Open. Only mysql and sqlite3 are explicitly
// supported; other database engines will receive MySQL query syntax
// which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s database", driverName)
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is evaluated with . as a map containing one entry whose
// key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Sweeps (
	SweepID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	UUID VARCHAR(36) NOT NULL,
	Root VARCHAR(4096) NOT NULL,
	Policy VARCHAR(16) NOT NULL,
	Started BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Outcomes (
	SweepID BIGINT UNSIGNED,
	Seq BIGINT UNSIGNED,
	Folder VARCHAR(255) NOT NULL,
	HeadDim INT NOT NULL,
	NumQueryHeads INT NOT NULL,
	NumKVHeads INT NOT NULL,
	QuerySeqLen INT NOT NULL,
	KVSeqLen INT NOT NULL,
	ExitStatus INT NOT NULL,
	Error VARCHAR(8192) NOT NULL,
	Started BIGINT NOT NULL,
	DurationMs BIGINT NOT NULL,
	PRIMARY KEY (SweepID, Seq),
{{if not .sqlite3}}
	Index (Folder),
{{end}}
	FOREIGN KEY (SweepID) REFERENCES Sweeps(SweepID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE UNIQUE INDEX IF NOT EXISTS SweepsUUID ON Sweeps(UUID);
CREATE INDEX IF NOT EXISTS OutcomesFolder ON Outcomes(Folder);
{{end}}
`))

func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return errors.Trace(err)
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return errors.Annotate(err, "create table")
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertSweep, err = db.sql.Prepare("INSERT INTO Sweeps(UUID, Root, Policy, Started) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.Trace(err)
	}
	db.insertOutcome, err = db.sql.Prepare(`INSERT INTO Outcomes(SweepID, Seq, Folder, HeadDim, NumQueryHeads, NumKVHeads,
	QuerySeqLen, KVSeqLen, ExitStatus, Error, Started, DurationMs) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Trace(err)
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// A Sweep is one run of the sweep runner. Every outcome recorded to
// it shares its UUID.
type Sweep struct {
	// UUID identifies the sweep in queries.
	UUID string

	// id is the numeric primary key.
	id int64
	// seq is the index of the next outcome to insert.
	seq int64
	db  *DB
}

// NewSweep starts a new sweep writing into root under policy.
func (db *DB) NewSweep(ctx context.Context, root string, policy sweep.Policy) (*Sweep, error) {
	id := uuid.New().String()
	res, err := db.insertSweep.ExecContext(ctx, id, root, policy.String(), now().UnixNano())
	if err != nil {
		return nil, errors.Annotate(err, "insert sweep")
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Sweep{UUID: id, id: i, db: db}, nil
}

// Record appends o to the sweep.
func (s *Sweep) Record(ctx context.Context, o sweep.Outcome) error {
	msg := ""
	if o.Err != nil {
		msg = o.Err.Error()
	}
	p := o.Point
	_, err := s.db.insertOutcome.ExecContext(ctx, s.id, s.seq, o.Folder,
		p.HeadDim, p.NumQueryHeads, p.NumKVHeads, p.QuerySeqLen, p.KVSeqLen,
		o.ExitStatus, msg, o.Start.UnixNano(), o.Duration.Milliseconds())
	if err != nil {
		return errors.Annotatef(err, "insert outcome %s", o.Folder)
	}
	s.seq++
	return nil
}

// A Record is a stored outcome.
type Record struct {
	Seq        int64
	Folder     string
	Point      sweep.Point
	ExitStatus int
	Error      string
	Started    time.Time
	Duration   time.Duration
}

// Succeeded reports whether the recorded point exited with status 0.
func (r Record) Succeeded() bool {
	return r.ExitStatus == 0 && r.Error == ""
}

// Outcomes returns the outcomes recorded for the sweep with the given
// UUID, in the order they were recorded.
func (db *DB) Outcomes(ctx context.Context, sweepUUID string) ([]Record, error) {
	rows, err := db.sql.QueryContext(ctx, `SELECT o.Seq, o.Folder, o.HeadDim, o.NumQueryHeads, o.NumKVHeads,
	o.QuerySeqLen, o.KVSeqLen, o.ExitStatus, o.Error, o.Started, o.DurationMs
	FROM Outcomes o JOIN Sweeps s ON o.SweepID = s.SweepID
	WHERE s.UUID = ? ORDER BY o.Seq`, sweepUUID)
	if err != nil {
		return nil, errors.Annotate(err, "query outcomes")
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			r                 Record
			started, duration int64
		)
		p := &r.Point
		if err := rows.Scan(&r.Seq, &r.Folder, &p.HeadDim, &p.NumQueryHeads, &p.NumKVHeads,
			&p.QuerySeqLen, &p.KVSeqLen, &r.ExitStatus, &r.Error, &started, &duration); err != nil {
			return nil, errors.Trace(err)
		}
		r.Started = time.Unix(0, started)
		r.Duration = time.Duration(duration) * time.Millisecond
		recs = append(recs, r)
	}
	return recs, errors.Trace(rows.Err())
}

// LatestSweep returns the UUID of the most recently started sweep, or
// "" if there is none.
func (db *DB) LatestSweep(ctx context.Context) (string, error) {
	var id string
	err := db.sql.QueryRowContext(ctx, "SELECT UUID FROM Sweeps ORDER BY Started DESC, SweepID DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, errors.Trace(err)
}

// CountSweeps returns the number of sweeps stored in db.
func (db *DB) CountSweeps() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Sweeps").Scan(&n)
	return n, errors.Trace(err)
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertSweep.Close(); err != nil {
		return errors.Trace(err)
	}
	if err := db.insertOutcome.Close(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(db.sql.Close())
}
