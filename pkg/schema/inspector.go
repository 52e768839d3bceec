// Package schema infers a relational schema for a CSV file using
// DuckDB's CSV reader, which applies much deeper type inference than
// the validation sampler.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// ColumnInfo is one inferred column.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Inspector wraps an in-memory DuckDB instance.
type Inspector struct {
	db *sql.DB
}

// NewInspector opens an in-memory database.
func NewInspector() (*Inspector, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the database.
func (i *Inspector) Close() error {
	return i.db.Close()
}

// Describe infers the column schema of a CSV file.
func (i *Inspector) Describe(ctx context.Context, csvPath string) ([]ColumnInfo, error) {
	query := fmt.Sprintf("DESCRIBE SELECT * FROM read_csv_auto('%s')", escapePath(csvPath))
	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("schema inference failed: %w", err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var name, typ string
		var null, key, dflt, extra sql.NullString
		if err := rows.Scan(&name, &typ, &null, &key, &dflt, &extra); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{
			Name:     name,
			Type:     typ,
			Nullable: strings.EqualFold(null.String, "YES"),
		})
	}
	return cols, rows.Err()
}

// RowCount counts the data rows of a CSV file.
func (i *Inspector) RowCount(ctx context.Context, csvPath string) (int64, error) {
	query := fmt.Sprintf("SELECT count(*) FROM read_csv_auto('%s')", escapePath(csvPath))
	var n int64
	if err := i.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("row count failed: %w", err)
	}
	return n, nil
}

func escapePath(p string) string {
	return strings.ReplaceAll(p, "'", "''")
}
