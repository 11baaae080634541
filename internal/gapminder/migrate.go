package gapminder

import (
	"context"
	"log"
)

func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS gapminder_data (
          id          BIGSERIAL PRIMARY KEY,
          country     TEXT NOT NULL,
          continent   TEXT NOT NULL,
          year        INT NOT NULL,
          life_exp    DOUBLE PRECISION NOT NULL,
          pop         BIGINT NOT NULL,
          gdp_per_cap DOUBLE PRECISION NOT NULL
      )
    `); err != nil {
		log.Printf("gapminder-service: migrate gapminder_data: %v", err)
		return err
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_gapminder_country ON gapminder_data(country);
      CREATE INDEX IF NOT EXISTS idx_gapminder_continent ON gapminder_data(continent);
      CREATE INDEX IF NOT EXISTS idx_gapminder_year ON gapminder_data(year);
    `); err != nil {
		return err
	}

	return nil
}
