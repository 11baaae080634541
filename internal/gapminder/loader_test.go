package gapminder

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const validCSV = `country,continent,year,life_exp,pop,gdp_per_cap
Afghanistan,Asia,1952,28.801,8425333,779.4453145
Australia,Oceania,1952,69.12,8691212,10039.59564
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(validCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := Record{Country: "Afghanistan", Continent: "Asia", Year: 1952, LifeExp: 28.801, GdpPercap: 779.4453145, Pop: 8425333}
	if records[0] != want {
		t.Errorf("first record = %+v, want %+v", records[0], want)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "nation,continent,year,life_exp,pop,gdp_per_cap\n"},
		{"missing column", "country,continent,year,life_exp,pop,gdp_per_cap\nAfghanistan,Asia,1952,28.8,8425333\n"},
		{"bad year", "country,continent,year,life_exp,pop,gdp_per_cap\nAfghanistan,Asia,nineteen52,28.8,8425333,779.4\n"},
		{"bad population", "country,continent,year,life_exp,pop,gdp_per_cap\nAfghanistan,Asia,1952,28.8,lots,779.4\n"},
		{"negative life_exp", "country,continent,year,life_exp,pop,gdp_per_cap\nAfghanistan,Asia,1952,-1,8425333,779.4\n"},
		{"negative pop", "country,continent,year,life_exp,pop,gdp_per_cap\nAfghanistan,Asia,1952,28.8,-5,779.4\n"},
		{"unknown continent", "country,continent,year,life_exp,pop,gdp_per_cap\nAtlantis,Atlantic,1952,28.8,8425333,779.4\n"},
		{"empty country", "country,continent,year,life_exp,pop,gdp_per_cap\n,Asia,1952,28.8,8425333,779.4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if records != nil {
				t.Errorf("malformed input must not yield partial records, got %d", len(records))
			}
		})
	}
}

// A bad row anywhere in the file aborts the whole parse, even if
// earlier rows were valid.
func TestParseCSVNoPartialResult(t *testing.T) {
	input := validCSV + "Brazil,Americas,bad-year,50.9,56602560,2108.9\n"
	records, err := ParseCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error")
	}
	if records != nil {
		t.Errorf("expected nil records, got %d", len(records))
	}
}

type stubStore struct {
	records  []Record
	loadErr  error
	replaced [][]Record
}

func (s *stubStore) LoadAll(ctx context.Context) ([]Record, error) {
	return s.records, s.loadErr
}

func (s *stubStore) ReplaceAll(ctx context.Context, records []Record) error {
	if s.loadErr != nil {
		return s.loadErr
	}
	s.replaced = append(s.replaced, records)
	s.records = records
	return nil
}

func (s *stubStore) Count(ctx context.Context) (int, error) {
	return len(s.records), s.loadErr
}

func TestSeedFromCSVMissingFile(t *testing.T) {
	store := &stubStore{}
	if _, err := SeedFromCSV(context.Background(), store, "/does/not/exist.csv"); err == nil {
		t.Fatal("expected error")
	}
	if len(store.replaced) != 0 {
		t.Error("store must not be written on load failure")
	}
}

func TestSeedFromCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &stubStore{}
	_, err := SeedFromCSV(ctx, store, "../../data/gapminder.csv")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.replaced) != 0 {
		t.Error("cancelled load must not write to the store")
	}
}

func TestSeedFromCSVSampleFile(t *testing.T) {
	store := &stubStore{}
	n, err := SeedFromCSV(context.Background(), store, "../../data/gapminder.csv")
	if err != nil {
		t.Fatalf("SeedFromCSV: %v", err)
	}
	if n == 0 {
		t.Fatal("expected records from the bundled dataset")
	}
	if len(store.replaced) != 1 || len(store.replaced[0]) != n {
		t.Errorf("expected one bulk replace of %d records", n)
	}
}
