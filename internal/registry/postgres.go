package registry

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/model"
)

// pool is the subset of pgxpool.Pool the searcher uses, abstracted so tests
// can substitute pgxmock.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresSearcher implements Searcher against a Postgres registry mirror.
type PostgresSearcher struct {
	pool        pool
	stmtTimeout time.Duration
	maxRows     int
}

const searchSQL = `
SELECT control_number, business_name, entity_status, entity_status_date,
       agent_name, agent_street, agent_city, agent_state, agent_zip
FROM registry_entities
WHERE state = $1
  AND lower(business_name) LIKE $2 || '%'
ORDER BY business_name
LIMIT $3`

// NewPostgres creates a PostgresSearcher with a connection pool.
func NewPostgres(ctx context.Context, cfg config.RegistryConfig) (*PostgresSearcher, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "registry: parse postgres config")
	}

	p, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "registry: create pool")
	}

	return newPostgresWithPool(p, cfg), nil
}

func newPostgresWithPool(p pool, cfg config.RegistryConfig) *PostgresSearcher {
	timeout := time.Duration(cfg.StatementTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	maxRows := cfg.MaxRowsPerVariant
	if maxRows <= 0 {
		maxRows = 25
	}
	return &PostgresSearcher{pool: p, stmtTimeout: timeout, maxRows: maxRows}
}

// Search prefix-matches registry records. An empty result is not an error.
func (s *PostgresSearcher) Search(ctx context.Context, namePrefix, state string) ([]model.RegistryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stmtTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, searchSQL, state, Normalize(namePrefix), s.maxRows)
	if err != nil {
		return nil, eris.Wrap(err, "registry: search query")
	}
	defer rows.Close()

	var records []model.RegistryRecord
	for rows.Next() {
		var (
			rec                                                     model.RegistryRecord
			statusDate                                              *time.Time
			agentName, agentStreet, agentCity, agentState, agentZip *string
		)
		if err := rows.Scan(
			&rec.ControlNumber, &rec.BusinessName, &rec.EntityStatus, &statusDate,
			&agentName, &agentStreet, &agentCity, &agentState, &agentZip,
		); err != nil {
			return nil, eris.Wrap(err, "registry: scan record")
		}
		rec.EntityStatusDate = statusDate
		rec.RegisteredAgent = buildAgent(agentName, agentStreet, agentCity, agentState, agentZip)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "registry: iterate rows")
	}

	return records, nil
}

// Ping reports database reachability.
func (s *PostgresSearcher) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "registry: ping")
}

// Close releases the pool.
func (s *PostgresSearcher) Close() {
	s.pool.Close()
}

func buildAgent(name, street, city, state, zip *string) *model.RegisteredAgent {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	agent := model.RegisteredAgent{Name: deref(name)}
	addr := model.Address{
		Street: deref(street),
		City:   deref(city),
		State:  deref(state),
		Zip:    deref(zip),
	}
	if !addr.IsEmpty() {
		agent.Address = &addr
	}
	if agent.Name == "" && agent.Address == nil {
		return nil
	}
	return &agent
}
