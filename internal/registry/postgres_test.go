package registry

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/entity-resolver/internal/config"
)

func strPtr(s string) *string { return &s }

func registryColumns() []string {
	return []string{
		"control_number", "business_name", "entity_status", "entity_status_date",
		"agent_name", "agent_street", "agent_city", "agent_state", "agent_zip",
	}
}

func TestPostgresSearch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	statusDate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(registryColumns()).
		AddRow("K1234", "Acme Trucking LLC", "Active/Compliance", &statusDate,
			strPtr("John Smith"), strPtr("100 Peachtree St"), strPtr("Atlanta"), strPtr("GA"), strPtr("30303")).
		AddRow("K5678", "Acme Trucking Lines LLC", "Dissolved", nil,
			nil, nil, nil, nil, nil)

	mock.ExpectQuery("SELECT control_number, business_name").
		WithArgs("GA", "acme trucking", 25).
		WillReturnRows(rows)

	searcher := newPostgresWithPool(mock, config.RegistryConfig{})
	records, err := searcher.Search(context.Background(), "Acme Trucking", "GA")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "K1234", first.ControlNumber)
	assert.Equal(t, "Acme Trucking LLC", first.BusinessName)
	assert.Equal(t, "Active/Compliance", first.EntityStatus)
	require.NotNil(t, first.EntityStatusDate)
	assert.Equal(t, statusDate, *first.EntityStatusDate)
	require.NotNil(t, first.RegisteredAgent)
	assert.Equal(t, "John Smith", first.RegisteredAgent.Name)
	require.NotNil(t, first.RegisteredAgent.Address)
	assert.Equal(t, "30303", first.RegisteredAgent.Address.Zip)

	second := records[1]
	assert.Nil(t, second.EntityStatusDate)
	assert.Nil(t, second.RegisteredAgent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearch_NormalizesPrefix(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT control_number, business_name").
		WithArgs("GA", "acme and sons llc", 25).
		WillReturnRows(pgxmock.NewRows(registryColumns()))

	searcher := newPostgresWithPool(mock, config.RegistryConfig{})
	records, err := searcher.Search(context.Background(), "Acme & Sons, LLC.", "GA")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearch_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT control_number, business_name").
		WithArgs("GA", "acme trucking llc", 25).
		WillReturnError(assert.AnError)

	searcher := newPostgresWithPool(mock, config.RegistryConfig{})
	_, err = searcher.Search(context.Background(), "Acme Trucking LLC", "GA")
	assert.Error(t, err)
}

func TestPostgresSearch_RespectsRowLimitConfig(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT control_number, business_name").
		WithArgs("GA", "acme", 5).
		WillReturnRows(pgxmock.NewRows(registryColumns()))

	searcher := newPostgresWithPool(mock, config.RegistryConfig{MaxRowsPerVariant: 5})
	_, err = searcher.Search(context.Background(), "Acme", "GA")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()

	searcher := newPostgresWithPool(mock, config.RegistryConfig{})
	assert.NoError(t, searcher.Ping(context.Background()))
}

var _ Searcher = (*PostgresSearcher)(nil)
var _ Searcher = (*SQLiteSearcher)(nil)
