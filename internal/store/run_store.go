// Package store persists NCL parse runs, their commands and sequences in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	"github.com/msto63/nclpost/foundation/ncl"
	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/foundation/utils/stringx"
)

// Run is the summary row of one stored parse
type Run struct {
	ID            string    `json:"id" yaml:"id"`
	Source        string    `json:"source" yaml:"source"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	PartNo        string    `json:"part_no,omitempty" yaml:"part_no,omitempty"`
	PostProc      string    `json:"post_proc,omitempty" yaml:"post_proc,omitempty"`
	MachineNo     string    `json:"machine_no,omitempty" yaml:"machine_no,omitempty"`
	Units         string    `json:"units" yaml:"units"`
	LineCount     int       `json:"line_count" yaml:"line_count"`
	ErrorCount    int       `json:"error_count" yaml:"error_count"`
	SequenceCount int       `json:"sequence_count" yaml:"sequence_count"`
}

// RunFilter defines criteria for listing runs
type RunFilter struct {
	Source     string
	Since      time.Time
	WithErrors bool
	Limit      int
	Offset     int
}

// StoredSequence is one stored sequence summary
type StoredSequence struct {
	Index         int    `json:"index" yaml:"index"`
	FeatureNumber string `json:"feature_number,omitempty" yaml:"feature_number,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	HasToolCall   bool   `json:"has_tool_call" yaml:"has_tool_call"`
	LineCount     int    `json:"line_count" yaml:"line_count"`
}

// RunStore defines the interface for parse run persistence
type RunStore interface {
	// Run operations
	SaveRun(ctx context.Context, s *ncl.Session, seqs []*ast.Sequence) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// Detail operations
	Commands(ctx context.Context, runID string, kind string) ([]ast.Record, error)
	Unknowns(ctx context.Context, runID string) ([]ast.Record, error)
	Sequences(ctx context.Context, runID string) ([]StoredSequence, error)

	// Statistics
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Maintenance
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRunStore implements RunStore using SQLite
type SQLiteRunStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteRunConfig holds configuration for SQLite store
type SQLiteRunConfig struct {
	Path string
}

// DefaultRunConfig returns default configuration
func DefaultRunConfig() SQLiteRunConfig {
	return SQLiteRunConfig{
		Path: "./data/nclpost.db",
	}
}

// NewSQLiteRunStore creates a new SQLite-based run store
func NewSQLiteRunStore(cfg SQLiteRunConfig) (*SQLiteRunStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory", "store.Open")
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.Open")
	}

	store := &SQLiteRunStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.Open")
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteRunStore) initSchema() error {
	schema := `
	-- Parse runs
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		part_no TEXT,
		post_proc TEXT,
		machine_no TEXT,
		units TEXT NOT NULL,
		line_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL
	);

	-- Classified commands of a run
	CREATE TABLE IF NOT EXISTS commands (
		run_id TEXT NOT NULL,
		line_no INTEGER NOT NULL,
		kind TEXT NOT NULL,
		raw TEXT NOT NULL,
		comment TEXT,
		payload TEXT,
		PRIMARY KEY (run_id, line_no)
	);

	-- Sequences of a run
	CREATE TABLE IF NOT EXISTS sequences (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		feature_number TEXT,
		name TEXT,
		has_tool_call INTEGER NOT NULL,
		line_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	-- Indices for efficient querying
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_commands_kind ON commands(run_id, kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores the session's globals, commands and the given sequences
// in one transaction. The session id becomes the run id.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, session *ncl.Session, seqs []*ast.Sequence) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := session.Globals()
	run := &Run{
		ID:            session.ID(),
		Source:        session.Source(),
		CreatedAt:     time.Now().UTC(),
		PartNo:        stringx.Deref(g.PartNo, ""),
		PostProc:      stringx.Deref(g.PostProc, ""),
		MachineNo:     stringx.Deref(g.MachineNo, ""),
		Units:         g.Units.String(),
		LineCount:     len(session.Commands()),
		ErrorCount:    session.ErrorCount(),
		SequenceCount: len(seqs),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dbError(err, "failed to begin transaction", "store.SaveRun")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, created_at, part_no, post_proc, machine_no, units, line_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.CreatedAt, nullable(g.PartNo), nullable(g.PostProc), nullable(g.MachineNo),
		run.Units, run.LineCount, run.ErrorCount)
	if err != nil {
		return nil, dbError(err, "failed to insert run", "store.SaveRun")
	}

	cmdStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commands (run_id, line_no, kind, raw, comment, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, dbError(err, "failed to prepare statement", "store.SaveRun")
	}
	defer cmdStmt.Close()

	for _, cmd := range session.Commands() {
		rec := ast.ToRecord(cmd)
		var payloadJSON sql.NullString
		if rec.Payload != nil {
			data, err := json.Marshal(rec.Payload)
			if err != nil {
				return nil, mdwerror.Wrap(err, "failed to encode payload").
					WithCode(mdwerror.CodeDatabaseError).
					WithOperation("store.SaveRun").
					WithDetail("line", rec.Line)
			}
			payloadJSON = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := cmdStmt.ExecContext(ctx, run.ID, rec.Line, rec.Kind, rec.Raw, rec.Comment, payloadJSON); err != nil {
			return nil, dbError(err, "failed to insert command", "store.SaveRun")
		}
	}

	seqStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sequences (run_id, idx, feature_number, name, has_tool_call, line_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, dbError(err, "failed to prepare statement", "store.SaveRun")
	}
	defer seqStmt.Close()

	for i, seq := range seqs {
		if _, err := seqStmt.ExecContext(ctx, run.ID, i, nullable(seq.FeatureNumber), nullable(seq.Name),
			seq.HasToolCall, seq.Len()); err != nil {
			return nil, dbError(err, "failed to insert sequence", "store.SaveRun")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, dbError(err, "failed to commit transaction", "store.SaveRun")
	}

	return run, nil
}

const runColumns = `r.id, r.source, r.created_at, r.part_no, r.post_proc, r.machine_no, r.units,
	r.line_count, r.error_count, (SELECT COUNT(*) FROM sequences q WHERE q.run_id = r.id)`

// GetRun retrieves one run by id
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, mdwerror.New("run not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.GetRun").
			WithDetail("id", id)
	}
	if err != nil {
		return nil, dbError(err, "failed to get run", "store.GetRun")
	}
	return run, nil
}

// ListRuns retrieves runs based on filter criteria, newest first
func (s *SQLiteRunStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs r WHERE 1=1`
	var args []interface{}

	if filter.Source != "" {
		query += " AND r.source = ?"
		args = append(args, filter.Source)
	}
	if !filter.Since.IsZero() {
		query += " AND r.created_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	if filter.WithErrors {
		query += " AND r.error_count > 0"
	}

	query += " ORDER BY r.created_at DESC, r.rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs", "store.ListRuns")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan run", "store.ListRuns")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Commands retrieves the stored commands of a run in line order, optionally
// restricted to one kind name
func (s *SQLiteRunStore) Commands(ctx context.Context, runID string, kind string) ([]ast.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT line_no, kind, raw, comment, payload FROM commands WHERE run_id = ?`
	args := []interface{}{runID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY line_no"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query commands", "store.Commands")
	}
	defer rows.Close()

	var records []ast.Record
	for rows.Next() {
		var rec ast.Record
		var comment, payloadJSON sql.NullString

		if err := rows.Scan(&rec.Line, &rec.Kind, &rec.Raw, &comment, &payloadJSON); err != nil {
			return nil, dbError(err, "failed to scan command", "store.Commands")
		}
		rec.Comment = comment.String
		if payloadJSON.Valid && payloadJSON.String != "" {
			_ = json.Unmarshal([]byte(payloadJSON.String), &rec.Payload)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Unknowns retrieves the unknown commands of a run
func (s *SQLiteRunStore) Unknowns(ctx context.Context, runID string) ([]ast.Record, error) {
	return s.Commands(ctx, runID, ast.KindUnknown.String())
}

// Sequences retrieves the sequence summaries of a run
func (s *SQLiteRunStore) Sequences(ctx context.Context, runID string) ([]StoredSequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, feature_number, name, has_tool_call, line_count
		FROM sequences WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, dbError(err, "failed to query sequences", "store.Sequences")
	}
	defer rows.Close()

	var seqs []StoredSequence
	for rows.Next() {
		var seq StoredSequence
		var feature, name sql.NullString
		if err := rows.Scan(&seq.Index, &feature, &name, &seq.HasToolCall, &seq.LineCount); err != nil {
			return nil, dbError(err, "failed to scan sequence", "store.Sequences")
		}
		seq.FeatureNumber = feature.String
		seq.Name = name.String
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}

// Stats returns aggregate numbers over all stored runs
func (s *SQLiteRunStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var runs, lines, errors int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(line_count), 0), COALESCE(SUM(error_count), 0) FROM runs
	`).Scan(&runs, &lines, &errors)
	if err != nil {
		return nil, dbError(err, "failed to query run stats", "store.Stats")
	}
	stats["total_runs"] = runs
	stats["total_lines"] = lines
	stats["total_errors"] = errors

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM commands GROUP BY kind`)
	if err != nil {
		return nil, dbError(err, "failed to query kind stats", "store.Stats")
	}
	defer rows.Close()

	byKind := make(map[string]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, dbError(err, "failed to scan kind stats", "store.Stats")
		}
		byKind[kind] = count
	}
	stats["by_kind"] = byKind

	return stats, rows.Err()
}

// Prune removes runs older than the given duration together with their
// commands and sequences
func (s *SQLiteRunStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, dbError(err, "failed to begin transaction", "store.Prune")
	}
	defer tx.Rollback()

	for _, table := range []string{"commands", "sequences"} {
		_, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id IN (SELECT id FROM runs WHERE created_at < ?)`, cutoff)
		if err != nil {
			return 0, dbError(err, "failed to prune "+table, "store.Prune")
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune runs", "store.Prune")
	}

	if err := tx.Commit(); err != nil {
		return 0, dbError(err, "failed to commit transaction", "store.Prune")
	}

	return result.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var partNo, postProc, machineNo sql.NullString
	err := row.Scan(&run.ID, &run.Source, &run.CreatedAt, &partNo, &postProc, &machineNo,
		&run.Units, &run.LineCount, &run.ErrorCount, &run.SequenceCount)
	if err != nil {
		return nil, err
	}
	run.PartNo = partNo.String
	run.PostProc = postProc.String
	run.MachineNo = machineNo.String
	return &run, nil
}

func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func dbError(err error, msg, op string) error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation(op)
}
