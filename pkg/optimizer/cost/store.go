package cost

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/lib/pq"              // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// FeatureRecord is one persisted observation: the features of one plan node
// of one calibration query.
type FeatureRecord struct {
	QueryID  string
	NodeType string
	Values   map[string]float64
}

// Store persists cost-model features through database/sql. The default driver
// is sqlite; mysql and postgres are registered so a DSN can point anywhere.
type Store struct {
	db *sql.DB
}

// NewStore opens the feature store. driver is "sqlite", "mysql" or "postgres".
func NewStore(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open feature store: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the feature table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS plan_features (
			query_id  TEXT NOT NULL,
			node_type TEXT NOT NULL,
			feature   TEXT NOT NULL,
			value     REAL NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create feature table: %w", err)
	}
	return nil
}

// SaveFeatures writes one record, one row per feature, in a transaction.
func (s *Store) SaveFeatures(ctx context.Context, record FeatureRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin feature insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO plan_features (query_id, node_type, feature, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare feature insert: %w", err)
	}
	defer stmt.Close()

	for name, value := range record.Values {
		if _, err := stmt.ExecContext(ctx, record.QueryID, record.NodeType, name, value); err != nil {
			return fmt.Errorf("insert feature %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// LoadFeatures reads back every row of a query, grouped by node type.
func (s *Store) LoadFeatures(ctx context.Context, queryID string) ([]FeatureRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT node_type, feature, value FROM plan_features WHERE query_id = ? ORDER BY node_type, feature",
		queryID)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	defer rows.Close()

	byNode := map[string]map[string]float64{}
	order := []string{}
	for rows.Next() {
		var nodeType, feature string
		var value float64
		if err := rows.Scan(&nodeType, &feature, &value); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		if _, ok := byNode[nodeType]; !ok {
			byNode[nodeType] = map[string]float64{}
			order = append(order, nodeType)
		}
		byNode[nodeType][feature] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read feature rows: %w", err)
	}

	records := make([]FeatureRecord, 0, len(order))
	for _, nodeType := range order {
		records = append(records, FeatureRecord{
			QueryID:  queryID,
			NodeType: nodeType,
			Values:   byNode[nodeType],
		})
	}
	return records, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
