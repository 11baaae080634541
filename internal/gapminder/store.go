package gapminder

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs. Tests substitute a
// mock implementation.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store persists the Gapminder dataset.
type Store interface {
	LoadAll(ctx context.Context) ([]Record, error)
	ReplaceAll(ctx context.Context, records []Record) error
	Count(ctx context.Context) (int, error)
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT country, continent, year, life_exp, pop, gdp_per_cap
		FROM gapminder_data
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Country, &r.Continent, &r.Year, &r.LifeExp, &r.Pop, &r.GdpPercap); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceAll swaps in a full dataset inside one transaction. A failure
// at any point rolls back, so the table is never left half loaded.
func (s *PostgresStore) ReplaceAll(ctx context.Context, records []Record) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE gapminder_data RESTART IDENTITY`); err != nil {
		return err
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"gapminder_data"},
		[]string{"country", "continent", "year", "life_exp", "pop", "gdp_per_cap"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.Country, r.Continent, r.Year, r.LifeExp, r.Pop, r.GdpPercap}, nil
		}),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM gapminder_data`).Scan(&n)
	return n, err
}

// Dataset is the in-memory snapshot served to clients. It is built once
// after load and never mutated; Years/Countries/Continents and Bounds
// are derived from the actual data so defaults always cover every row.
type Dataset struct {
	Records    []Record
	Years      []int
	Countries  []string
	Continents []string
	Bounds     FilterState
}

func NewDataset(records []Record) *Dataset {
	d := &Dataset{Records: records}

	yearSet := make(map[int]bool)
	countrySet := make(map[string]bool)
	continentSet := make(map[string]bool)
	for _, r := range records {
		yearSet[r.Year] = true
		countrySet[r.Country] = true
		continentSet[r.Continent] = true
	}
	for y := range yearSet {
		d.Years = append(d.Years, y)
	}
	sort.Ints(d.Years)
	for c := range countrySet {
		d.Countries = append(d.Countries, c)
	}
	sort.Strings(d.Countries)
	for c := range continentSet {
		d.Continents = append(d.Continents, c)
	}
	sort.Strings(d.Continents)

	d.Bounds = deriveBounds(records)
	return d
}

func deriveBounds(records []Record) FilterState {
	var b FilterState
	for i, r := range records {
		if i == 0 {
			b.YearRange = IntRange{int64(r.Year), int64(r.Year)}
			b.GdpRange = FloatRange{r.GdpPercap, r.GdpPercap}
			b.LifeExpRange = FloatRange{r.LifeExp, r.LifeExp}
			b.PopRange = IntRange{r.Pop, r.Pop}
			continue
		}
		b.YearRange.Min = min(b.YearRange.Min, int64(r.Year))
		b.YearRange.Max = max(b.YearRange.Max, int64(r.Year))
		b.GdpRange.Min = min(b.GdpRange.Min, r.GdpPercap)
		b.GdpRange.Max = max(b.GdpRange.Max, r.GdpPercap)
		b.LifeExpRange.Min = min(b.LifeExpRange.Min, r.LifeExp)
		b.LifeExpRange.Max = max(b.LifeExpRange.Max, r.LifeExp)
		b.PopRange.Min = min(b.PopRange.Min, r.Pop)
		b.PopRange.Max = max(b.PopRange.Max, r.Pop)
	}
	return b
}

// DefaultFilter covers every record: empty selections, full ranges.
func (d *Dataset) DefaultFilter() FilterState {
	return FilterState{
		Countries:    []string{},
		Continents:   []string{},
		YearRange:    d.Bounds.YearRange,
		GdpRange:     d.Bounds.GdpRange,
		LifeExpRange: d.Bounds.LifeExpRange,
		PopRange:     d.Bounds.PopRange,
	}
}

// MaxYear returns the latest distinct year, or 0 for an empty dataset.
func (d *Dataset) MaxYear() int {
	if len(d.Years) == 0 {
		return 0
	}
	return d.Years[len(d.Years)-1]
}

// NextYear returns the first distinct year strictly after y. The second
// return is false when y is at or past the final year.
func (d *Dataset) NextYear(y int) (int, bool) {
	idx := sort.SearchInts(d.Years, y+1)
	if idx >= len(d.Years) {
		return y, false
	}
	return d.Years[idx], true
}

// NearestYear snaps an arbitrary year to the closest distinct dataset
// year, preferring the earlier one on ties.
func (d *Dataset) NearestYear(y int) int {
	if len(d.Years) == 0 {
		return 0
	}
	idx := sort.SearchInts(d.Years, y)
	if idx == 0 {
		return d.Years[0]
	}
	if idx == len(d.Years) {
		return d.Years[len(d.Years)-1]
	}
	before, after := d.Years[idx-1], d.Years[idx]
	if y-before <= after-y {
		return before
	}
	return after
}
