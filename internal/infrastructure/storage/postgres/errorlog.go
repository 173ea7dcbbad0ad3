package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	appctx "varibulk/internal/core/context"
	"varibulk/internal/core/id"
	"varibulk/internal/domain/variant"
	"varibulk/pkg/logger"
)

// CompressionAlgo specifies the compression algorithm used for a stored trace.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the trace size above which traces are stored compressed.
const DefaultCompressThreshold = 4 * 1024

const errorLogTable = "sys_error_log"

// ErrorLogEntry is one row of sys_error_log.
type ErrorLogEntry struct {
	ID              id.ID           `db:"id"`
	Title           string          `db:"title"`
	Trace           string          `db:"trace"`
	TraceCompressed []byte          `db:"trace_compressed"`
	CompressionAlgo CompressionAlgo `db:"compression_algo"`
	RequestID       string          `db:"request_id"`
	UserID          string          `db:"user_id"`
	CreatedAt       time.Time       `db:"created_at"`
}

var (
	_ variant.ErrorSink      = (*ErrorLog)(nil)
	_ variant.ErrorLogReader = (*ErrorLog)(nil)
)

// ErrorLog stores variant failures in sys_error_log.
type ErrorLog struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewErrorLog creates the error log. A threshold <= 0 uses DefaultCompressThreshold.
func NewErrorLog(txManager *TxManager, compressThreshold int) (*ErrorLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if compressThreshold <= 0 {
		compressThreshold = DefaultCompressThreshold
	}
	return &ErrorLog{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}, nil
}

// LogError implements variant.ErrorSink. The row is written outside any
// surrounding transaction and outlives request cancellation. Write failures
// are logged and swallowed.
func (l *ErrorLog) LogError(ctx context.Context, title, trace string) {
	entry := l.newEntry(ctx, title, trace)

	// Detached so a rolled back batch still leaves its failures behind
	writeCtx, cancel := context.WithTimeout(appctx.Detach(ctx), 5*time.Second)
	defer cancel()

	row := ToRow(entry)
	q := builder().Insert(errorLogTable).SetMap(row)
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error(ctx, "build error log insert", "error", err)
		return
	}

	if _, err := l.txManager.pool.Exec(writeCtx, sql, args...); err != nil {
		logger.Error(ctx, "failed to write error log",
			"error", err,
			"title", title,
			"trace", trace,
		)
	}
}

func (l *ErrorLog) newEntry(ctx context.Context, title, trace string) ErrorLogEntry {
	entry := ErrorLogEntry{
		ID:              id.New(),
		Title:           title,
		Trace:           trace,
		CompressionAlgo: CompressionNone,
		RequestID:       appctx.GetRequestID(ctx),
		UserID:          appctx.GetUserID(ctx),
		CreatedAt:       time.Now().UTC(),
	}
	if len(trace) > l.compressThreshold {
		entry.TraceCompressed = l.encoder.EncodeAll([]byte(trace), nil)
		entry.Trace = ""
		entry.CompressionAlgo = CompressionZstd
	}
	return entry
}

// MaxRecentErrors caps one read of the error log.
const MaxRecentErrors = 200

// RecentErrors implements variant.ErrorLogReader. Traces are decompressed.
func (l *ErrorLog) RecentErrors(ctx context.Context, title string, limit int) ([]variant.SinkEntry, error) {
	sql, args, err := recentErrorsQuery(title, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ErrorLogEntry
	if err := pgxscan.Select(ctx, l.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query error log: %w", err)
	}

	entries := make([]variant.SinkEntry, 0, len(rows))
	for i := range rows {
		if err := l.expand(&rows[i]); err != nil {
			return nil, err
		}
		e := rows[i]
		entries = append(entries, variant.SinkEntry{
			ID:        e.ID.String(),
			Title:     e.Title,
			Trace:     e.Trace,
			RequestID: e.RequestID,
			UserID:    e.UserID,
			CreatedAt: e.CreatedAt,
		})
	}
	return entries, nil
}

func recentErrorsQuery(title string, limit int) squirrel.SelectBuilder {
	if limit <= 0 || limit > MaxRecentErrors {
		limit = MaxRecentErrors
	}
	q := builder().
		Select(Columns[ErrorLogEntry]()...).
		From(errorLogTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if title != "" {
		q = q.Where(squirrel.Eq{"title": title})
	}
	return q
}

func (l *ErrorLog) expand(e *ErrorLogEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.TraceCompressed) == 0 {
		return nil
	}
	raw, err := l.decoder.DecodeAll(e.TraceCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress trace: %w", err)
	}
	e.Trace = string(raw)
	e.TraceCompressed = nil
	return nil
}
