package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const backendSQLite = "sqlite"

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/history.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore implements Store on SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at config.Path.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, NewStorageError(backendSQLite, "open", errors.New("db path cannot be empty"))
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	if config.Path != ":memory:" {
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, NewStorageError(backendSQLite, "mkdir", err)
			}
		}
	}

	logger := slog.Default().With("component", "history.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "open", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError(backendSQLite, "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError(backendSQLite, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(backendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store persists a record. A record without an ID or timestamp gets one.
func (s *SQLiteStore) Store(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStorageError(backendSQLite, "store", errorNilRecord)
	}
	fillDefaults(record)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, request_id, operation, input, output, error, rule_set,
			rewrites, duration_ns, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, nullString(record.RequestID), record.Operation, record.Input,
		nullString(record.Output), nullString(record.Error), nullString(record.RuleSet),
		record.Rewrites, record.Duration.Nanoseconds(), record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return NewStorageError(backendSQLite, "store", err)
	}
	return nil
}

// Get returns the record with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE id = ?", id)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, NewStorageError(backendSQLite, "get", err)
		}
		return nil, ErrNotFound
	}
	record, err := scanRecord(rows)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "scan", err)
	}
	return record, nil
}

// Recent returns the newest records.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return s.Query(ctx, &Query{Limit: limit})
}

// Query returns records matching q, newest first.
func (s *SQLiteStore) Query(ctx context.Context, q *Query) ([]*Record, error) {
	if q == nil {
		q = &Query{}
	}

	where, args := buildWhereClause(q)
	sqlQuery := selectColumns
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at DESC, rowid DESC LIMIT %d", q.effectiveLimit())
	if q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError(backendSQLite, "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError(backendSQLite, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(backendSQLite, "query", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM evaluations").Scan(&count); err != nil {
		return 0, NewStorageError(backendSQLite, "count", err)
	}
	return count, nil
}

// DeleteBefore deletes records created before cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, NewStorageError(backendSQLite, "delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(backendSQLite, "delete", err)
	}
	return n, nil
}

// DeleteOldest keeps the newest keep records and deletes the rest.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM evaluations WHERE id NOT IN (
			SELECT id FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, NewStorageError(backendSQLite, "delete_oldest", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError(backendSQLite, "delete_oldest", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError(backendSQLite, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError(backendSQLite, "close", err)
	}
	s.logger.Info("history store closed")
	return nil
}

const selectColumns = `SELECT id, request_id, operation, input, output, error, rule_set,
	rewrites, duration_ns, created_at FROM evaluations`

func buildWhereClause(q *Query) (string, []any) {
	var conditions []string
	var args []any

	if q.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, q.Operation)
	}
	if q.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, q.Until.UnixNano())
	}
	if q.FailedOnly {
		conditions = append(conditions, "error IS NOT NULL")
	}

	return strings.Join(conditions, " AND "), args
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var (
		record                             Record
		requestID, output, errMsg, ruleSet sql.NullString
		durationNs, createdAt              int64
	)
	err := rows.Scan(
		&record.ID, &requestID, &record.Operation, &record.Input,
		&output, &errMsg, &ruleSet,
		&record.Rewrites, &durationNs, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.RequestID = requestID.String
	record.Output = output.String
	record.Error = errMsg.String
	record.RuleSet = ruleSet.String
	record.Duration = time.Duration(durationNs)
	record.CreatedAt = time.Unix(0, createdAt).UTC()
	return &record, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
