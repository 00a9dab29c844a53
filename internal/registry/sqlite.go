package registry

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/entity-resolver/internal/config"
	"github.com/sells-group/entity-resolver/internal/model"
)

// SQLiteSearcher implements Searcher against a local SQLite registry mirror.
// Intended for development and tests; the schema matches the Postgres mirror.
type SQLiteSearcher struct {
	db          *sql.DB
	stmtTimeout time.Duration
	maxRows     int
}

const sqliteSearchSQL = `
SELECT control_number, business_name, entity_status, entity_status_date,
       agent_name, agent_street, agent_city, agent_state, agent_zip
FROM registry_entities
WHERE state = ?
  AND lower(business_name) LIKE ? || '%'
ORDER BY business_name
LIMIT ?`

// NewSQLite opens a SQLite registry database.
func NewSQLite(cfg config.RegistryConfig) (*SQLiteSearcher, error) {
	db, err := sql.Open("sqlite", cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "registry: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "registry: exec %s", pragma)
		}
	}

	timeout := time.Duration(cfg.StatementTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	maxRows := cfg.MaxRowsPerVariant
	if maxRows <= 0 {
		maxRows = 25
	}
	return &SQLiteSearcher{db: db, stmtTimeout: timeout, maxRows: maxRows}, nil
}

// Search prefix-matches registry records.
func (s *SQLiteSearcher) Search(ctx context.Context, namePrefix, state string) ([]model.RegistryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stmtTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, sqliteSearchSQL, state, Normalize(namePrefix), s.maxRows)
	if err != nil {
		return nil, eris.Wrap(err, "registry: sqlite search")
	}
	defer rows.Close()

	var records []model.RegistryRecord
	for rows.Next() {
		var (
			rec                                                     model.RegistryRecord
			statusDate                                              sql.NullTime
			agentName, agentStreet, agentCity, agentState, agentZip sql.NullString
		)
		if err := rows.Scan(
			&rec.ControlNumber, &rec.BusinessName, &rec.EntityStatus, &statusDate,
			&agentName, &agentStreet, &agentCity, &agentState, &agentZip,
		); err != nil {
			return nil, eris.Wrap(err, "registry: sqlite scan")
		}
		if statusDate.Valid {
			t := statusDate.Time
			rec.EntityStatusDate = &t
		}
		rec.RegisteredAgent = buildAgent(
			nullStr(agentName), nullStr(agentStreet), nullStr(agentCity),
			nullStr(agentState), nullStr(agentZip),
		)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "registry: sqlite iterate")
	}

	return records, nil
}

// Ping reports database reachability.
func (s *SQLiteSearcher) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "registry: sqlite ping")
}

// Close closes the database.
func (s *SQLiteSearcher) Close() {
	_ = s.db.Close()
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
