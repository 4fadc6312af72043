package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/claimcheck/internal/model"
)

// Pool abstracts the pgx pool methods the sink needs, satisfied by both
// *pgxpool.Pool and pgxmock.PgxPoolIface.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresSink persists audit events using pgxpool.
type PostgresSink struct {
	pool Pool
}

// NewPostgres creates a PostgresSink with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresSink, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "audit: postgres parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "audit: postgres connect")
	}
	return &PostgresSink{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	agent_type TEXT NOT NULL,
	event_type TEXT NOT NULL,
	claim_id   TEXT,
	user_id    TEXT,
	data       JSONB,
	error      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_events_claim_id ON audit_events(claim_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_event_type ON audit_events(event_type);
`

// Migrate creates the audit schema.
func (p *PostgresSink) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "audit: postgres migrate")
}

func (p *PostgresSink) LogEvent(ctx context.Context, event Event) (string, error) {
	event = stamp(event)

	var dataJSON []byte
	if event.Data != nil {
		var err error
		dataJSON, err = json.Marshal(event.Data)
		if err != nil {
			return "", eris.Wrap(err, "audit: postgres marshal data")
		}
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO audit_events (id, agent_type, event_type, claim_id, user_id, data, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, string(event.Agent), event.Type,
		nullable(event.ClaimID), nullable(event.UserID),
		nullableBytes(dataJSON), nullable(event.Error), event.CreatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "audit: postgres insert event")
	}
	return event.ID, nil
}

func (p *PostgresSink) ListEvents(ctx context.Context, claimID string) ([]Event, error) {
	query := `SELECT id, agent_type, event_type, claim_id, user_id, data, error, created_at
		FROM audit_events`
	args := []any{}
	if claimID != "" {
		query += ` WHERE claim_id = $1`
		args = append(args, claimID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "audit: postgres list events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			agent    string
			claim    *string
			user     *string
			dataJSON []byte
			errMsg   *string
		)
		if err := rows.Scan(&e.ID, &agent, &e.Type, &claim, &user, &dataJSON, &errMsg, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "audit: postgres scan event")
		}
		e.Agent = model.AgentType(agent)
		if claim != nil {
			e.ClaimID = *claim
		}
		if user != nil {
			e.UserID = *user
		}
		if errMsg != nil {
			e.Error = *errMsg
		}
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &e.Data); err != nil {
				return nil, eris.Wrap(err, "audit: postgres unmarshal data")
			}
		}
		events = append(events, e)
	}
	return events, eris.Wrap(rows.Err(), "audit: postgres iterate events")
}

func (p *PostgresSink) Close() error {
	p.pool.Close()
	return nil
}
