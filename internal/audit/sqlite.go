package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/claimcheck/internal/model"
)

// SQLiteSink persists audit events using modernc.org/sqlite.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "audit: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "audit: sqlite exec %s", pragma)
		}
	}
	return &SQLiteSink{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	agent_type TEXT NOT NULL,
	event_type TEXT NOT NULL,
	claim_id   TEXT,
	user_id    TEXT,
	data       TEXT,
	error      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_audit_events_claim_id ON audit_events(claim_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_event_type ON audit_events(event_type);
`

// Migrate creates the audit schema.
func (s *SQLiteSink) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "audit: sqlite migrate")
}

func (s *SQLiteSink) LogEvent(ctx context.Context, event Event) (string, error) {
	event = stamp(event)

	var dataJSON []byte
	if event.Data != nil {
		var err error
		dataJSON, err = json.Marshal(event.Data)
		if err != nil {
			return "", eris.Wrap(err, "audit: sqlite marshal data")
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, agent_type, event_type, claim_id, user_id, data, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Agent), event.Type,
		nullable(event.ClaimID), nullable(event.UserID),
		nullableBytes(dataJSON), nullable(event.Error), event.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "audit: sqlite insert event")
	}
	return event.ID, nil
}

func (s *SQLiteSink) ListEvents(ctx context.Context, claimID string) ([]Event, error) {
	query := `SELECT id, agent_type, event_type, claim_id, user_id, data, error, created_at
		FROM audit_events`
	args := []any{}
	if claimID != "" {
		query += ` WHERE claim_id = ?`
		args = append(args, claimID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "audit: sqlite list events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			agent    string
			claim    sql.NullString
			user     sql.NullString
			dataJSON sql.NullString
			errMsg   sql.NullString
		)
		if err := rows.Scan(&e.ID, &agent, &e.Type, &claim, &user, &dataJSON, &errMsg, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "audit: sqlite scan event")
		}
		e.Agent = model.AgentType(agent)
		e.ClaimID = claim.String
		e.UserID = user.String
		e.Error = errMsg.String
		if dataJSON.Valid && dataJSON.String != "" {
			if err := json.Unmarshal([]byte(dataJSON.String), &e.Data); err != nil {
				return nil, eris.Wrap(err, "audit: sqlite unmarshal data")
			}
		}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "audit: sqlite iterate events")
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
