package gapminder

import "math"

// ComputeStats summarizes a filtered record set in a single pass.
// Averages are taken over the currentYear slice only. An empty input or
// an empty year slice yields zero-valued stats, never a division by zero.
func ComputeStats(filtered []Record, currentYear int) Stats {
	stats := Stats{TotalRecords: len(filtered)}

	countries := make(map[string]bool)
	continents := make(map[string]bool)
	var lifeExpSum, gdpSum float64

	for _, r := range filtered {
		countries[r.Country] = true
		continents[r.Continent] = true
		if r.Year == currentYear {
			stats.CurrentYearRecords++
			lifeExpSum += r.LifeExp
			gdpSum += r.GdpPercap
		}
	}

	stats.DistinctCountries = len(countries)
	stats.DistinctContinents = len(continents)

	if stats.CurrentYearRecords > 0 {
		n := float64(stats.CurrentYearRecords)
		stats.AvgLifeExp = lifeExpSum / n
		stats.AvgGdpPercap = gdpSum / n
		stats.AvgGdpPercapRound = int64(math.Round(stats.AvgGdpPercap))
	}

	return stats
}
