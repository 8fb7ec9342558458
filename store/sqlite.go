package store

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"github.com/ecosocial/dashboard/indicator"

	_ "modernc.org/sqlite"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteLoader reads the indicator table from a SQLite database file.
type SQLiteLoader struct {
	db    *sql.DB
	path  string
	table string
}

// OpenSQLite opens the database at path and verifies that the named table
// exists and carries the three required columns. The file must already
// exist; the sqlite driver would otherwise create an empty database and
// mask a bad path.
func OpenSQLite(path, table string) (*SQLiteLoader, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q, %w", table, ErrSourceUnreachable)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %v, %w", path, err, ErrSourceUnreachable)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v, %w", path, err, ErrSourceUnreachable)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %v, %w", path, err, ErrSourceUnreachable)
	}

	l := &SQLiteLoader{db: db, path: path, table: table}
	if err := l.checkColumns(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// checkColumns inspects the table schema so a missing column surfaces as a
// clear startup error instead of a query failure later.
func (l *SQLiteLoader) checkColumns() error {
	rows, err := l.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", l.table))
	if err != nil {
		return fmt.Errorf("table_info %s: %v, %w", l.table, err, ErrSourceUnreachable)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notnull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dfltValue, &primaryKey); err != nil {
			return fmt.Errorf("scan table_info row: %v, %w", err, ErrSourceUnreachable)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("table_info %s: %v, %w", l.table, err, ErrSourceUnreachable)
	}
	if len(found) == 0 {
		return fmt.Errorf("no such table %s, %w", l.table, ErrSourceUnreachable)
	}
	for _, col := range []string{ColumnYear, ColumnCO2, ColumnDiet} {
		if !found[col] {
			return fmt.Errorf("table %s column %s, %w", l.table, col, ErrMissingColumn)
		}
	}
	return nil
}

// Load reads all rows sorted ascending by year.
func (l *SQLiteLoader) Load() (*indicator.Dataset, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s ORDER BY %s",
		ColumnYear, ColumnCO2, ColumnDiet, l.table, ColumnYear,
	)
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %v, %w", l.table, err, ErrSourceUnreachable)
	}
	defer rows.Close()

	var records []indicator.Record
	for rows.Next() {
		var rec indicator.Record
		if err := rows.Scan(&rec.Year, &rec.CO2Emissions, &rec.DietUnaffordability); err != nil {
			return nil, fmt.Errorf("scan row %d: %v, %w", len(records), err, ErrMalformedRecord)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %v, %w", l.table, err, ErrSourceUnreachable)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s, %w", l.table, ErrSourceEmpty)
	}

	ds, err := indicator.NewDataset(records)
	if err != nil {
		return nil, fmt.Errorf("table %s: %v, %w", l.table, err, ErrMalformedRecord)
	}
	return ds, nil
}

func (l *SQLiteLoader) Source() string {
	return fmt.Sprintf("sqlite://%s#%s", l.path, l.table)
}

func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}
