package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/EeswaraReddy/L1agent/internal/database"
	"github.com/EeswaraReddy/L1agent/internal/types"
)

// Store provides persistence for triage reports.
type Store interface {
	// Save persists a report.
	Save(ctx context.Context, r Report) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*Report, error)

	// List retrieves the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Count returns the total number of stored reports.
	Count(ctx context.Context) (int, error)
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID         string    `json:"report_id"`
	IncidentID string    `json:"incident_id"`
	Intent     string    `json:"intent"`
	Decision   string    `json:"decision"`
	Score      float64   `json:"policy_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// DBStore implements Store on the SQLite report database.
type DBStore struct {
	db     *database.DB
	tracer trace.Tracer
}

// NewDBStore creates a report store over the given database.
func NewDBStore(db *database.DB) *DBStore {
	return &DBStore{db: db}
}

// WithTracer sets the OpenTelemetry tracer for the store.
func (s *DBStore) WithTracer(tracer trace.Tracer) *DBStore {
	s.tracer = tracer
	return s
}

func (s *DBStore) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, nil
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Save persists a report. The full document is stored as JSON alongside
// the indexed columns.
func (s *DBStore) Save(ctx context.Context, r Report) error {
	ctx, span := s.startSpan(ctx, "report.save", attribute.String("report.id", r.ID))
	if span != nil {
		defer span.End()
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "marshal report", err)
	}

	var decisionLabel string
	var score float64
	if r.Decision != nil {
		decisionLabel = r.Decision.Decision.String()
		score = r.Decision.Score
	}

	const query = `
		INSERT INTO reports (id, incident_id, intent, decision, policy_score, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.Conn().ExecContext(ctx, query,
		r.ID, r.IncidentID, r.Intent, decisionLabel, score, string(payload),
	); err != nil {
		return types.WrapError(types.DB_QUERY_FAILED, "insert report", err)
	}
	return nil
}

// Get retrieves a report by ID.
func (s *DBStore) Get(ctx context.Context, id string) (*Report, error) {
	ctx, span := s.startSpan(ctx, "report.get", attribute.String("report.id", id))
	if span != nil {
		defer span.End()
	}

	const query = `SELECT payload FROM reports WHERE id = ?`
	var payload string
	err := s.db.Conn().QueryRowContext(ctx, query, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, types.NewError(types.REPORT_NOT_FOUND, "report "+id)
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "query report", err)
	}

	var r Report
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "decode report payload", err)
	}
	return &r, nil
}

// List retrieves the most recent report summaries, newest first.
func (s *DBStore) List(ctx context.Context, limit int) ([]Summary, error) {
	ctx, span := s.startSpan(ctx, "report.list")
	if span != nil {
		defer span.End()
	}

	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, incident_id, intent, decision, policy_score, created_at
		FROM reports
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.Conn().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "list reports", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.IncidentID, &item.Intent, &item.Decision, &item.Score, &item.CreatedAt); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "scan report row", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterate report rows", err)
	}
	return out, nil
}

// Count returns the total number of stored reports.
func (s *DBStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		return 0, types.WrapError(types.DB_QUERY_FAILED, "count reports", err)
	}
	return count, nil
}
