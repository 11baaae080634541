package gapminder

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvColumns is the fixed column order of the source file.
var csvColumns = []string{"country", "continent", "year", "life_exp", "pop", "gdp_per_cap"}

// ParseCSV reads the Gapminder source file: a header row followed by
// rows in the fixed column order {country, continent, year, life_exp,
// pop, gdp_per_cap}. Any malformed row aborts the parse; callers get
// either the complete dataset or an error, never a partial one.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i, col := range csvColumns {
		if header[i] != col {
			return nil, fmt.Errorf("csv: unexpected header %q, want %q", header[i], col)
		}
	}

	var records []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, error) {
	var r Record
	r.Country = row[0]
	if r.Country == "" {
		return r, fmt.Errorf("empty country")
	}
	r.Continent = row[1]
	if !validContinent(r.Continent) {
		return r, fmt.Errorf("unknown continent %q", r.Continent)
	}

	year, err := strconv.Atoi(row[2])
	if err != nil {
		return r, fmt.Errorf("year: %w", err)
	}
	r.Year = year

	r.LifeExp, err = strconv.ParseFloat(row[3], 64)
	if err != nil {
		return r, fmt.Errorf("life_exp: %w", err)
	}
	if r.LifeExp < 0 {
		return r, fmt.Errorf("life_exp is negative")
	}

	r.Pop, err = strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return r, fmt.Errorf("pop: %w", err)
	}
	if r.Pop < 0 {
		return r, fmt.Errorf("pop is negative")
	}

	r.GdpPercap, err = strconv.ParseFloat(row[5], 64)
	if err != nil {
		return r, fmt.Errorf("gdp_per_cap: %w", err)
	}
	if r.GdpPercap < 0 {
		return r, fmt.Errorf("gdp_per_cap is negative")
	}
	return r, nil
}

// SeedFromCSV parses path and bulk-replaces the store's contents. The
// file is parsed fully before any write, and ReplaceAll is
// transactional, so a bad file or a cancelled ctx leaves prior data
// untouched.
func SeedFromCSV(ctx context.Context, store Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := store.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("replace dataset: %w", err)
	}
	return len(records), nil
}
