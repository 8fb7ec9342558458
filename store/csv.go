package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/ecosocial/dashboard/indicator"
)

// CSVLoader reads the indicator records from a flat CSV file with a header
// row naming the three required columns in any order.
type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load reads all rows and returns them sorted ascending by year. Rows in a
// flat file carry no storage-level ordering guarantee, so sorting happens
// here rather than trusting the file.
func (l *CSVLoader) Load() (*indicator.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v, %w", l.path, err, ErrSourceUnreachable)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %v, %w", l.path, err, ErrMalformedRecord)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file %s, %w", l.path, ErrSourceEmpty)
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		colIdx[name] = i
	}
	for _, col := range []string{ColumnYear, ColumnCO2, ColumnDiet} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("file %s column %s, %w", l.path, col, ErrMissingColumn)
		}
	}
	if len(rows) == 1 {
		return nil, fmt.Errorf("file %s has a header but no rows, %w", l.path, ErrSourceEmpty)
	}

	records := make([]indicator.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		year, err := strconv.Atoi(row[colIdx[ColumnYear]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %v, %w", i+1, ColumnYear, err, ErrMalformedRecord)
		}
		co2, err := strconv.ParseFloat(row[colIdx[ColumnCO2]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %v, %w", i+1, ColumnCO2, err, ErrMalformedRecord)
		}
		diet, err := strconv.ParseFloat(row[colIdx[ColumnDiet]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %v, %w", i+1, ColumnDiet, err, ErrMalformedRecord)
		}
		records = append(records, indicator.Record{
			Year:                year,
			CO2Emissions:        co2,
			DietUnaffordability: diet,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Year < records[j].Year
	})

	ds, err := indicator.NewDataset(records)
	if err != nil {
		return nil, fmt.Errorf("file %s: %v, %w", l.path, err, ErrMalformedRecord)
	}
	return ds, nil
}

func (l *CSVLoader) Source() string {
	return fmt.Sprintf("csv://%s", l.path)
}
