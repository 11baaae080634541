package gapminder

// Passes reports whether a record satisfies every active predicate in f.
// Predicates are AND-combined; an empty country/continent selection
// places no restriction. Ranges are inclusive on both ends.
func (f FilterState) Passes(r Record) bool {
	if int64(r.Year) < f.YearRange.Min || int64(r.Year) > f.YearRange.Max {
		return false
	}
	if r.GdpPercap < f.GdpRange.Min || r.GdpPercap > f.GdpRange.Max {
		return false
	}
	if r.LifeExp < f.LifeExpRange.Min || r.LifeExp > f.LifeExpRange.Max {
		return false
	}
	if r.Pop < f.PopRange.Min || r.Pop > f.PopRange.Max {
		return false
	}
	if len(f.Countries) > 0 && !contains(f.Countries, r.Country) {
		return false
	}
	if len(f.Continents) > 0 && !contains(f.Continents, r.Continent) {
		return false
	}
	return true
}

// Apply returns the records passing f, in dataset order. It is a pure
// function of (records, f): same inputs always yield the same output,
// and applying it twice with the same filter is a no-op.
func Apply(records []Record, f FilterState) []Record {
	countrySet := toSet(f.Countries)
	continentSet := toSet(f.Continents)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if int64(r.Year) < f.YearRange.Min || int64(r.Year) > f.YearRange.Max {
			continue
		}
		if r.GdpPercap < f.GdpRange.Min || r.GdpPercap > f.GdpRange.Max {
			continue
		}
		if r.LifeExp < f.LifeExpRange.Min || r.LifeExp > f.LifeExpRange.Max {
			continue
		}
		if r.Pop < f.PopRange.Min || r.Pop > f.PopRange.Max {
			continue
		}
		if countrySet != nil && !countrySet[r.Country] {
			continue
		}
		if continentSet != nil && !continentSet[r.Continent] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// toSet returns nil for an empty selection so callers can distinguish
// "no restriction" from "restrict to nothing listed".
func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// Normalized repairs any range whose min exceeds its max by swapping the
// bounds. A min>max edit is corrected here rather than rejected, so the
// committed state always satisfies the range invariant.
func (f FilterState) Normalized() FilterState {
	f.YearRange = f.YearRange.normalized()
	f.GdpRange = f.GdpRange.normalized()
	f.LifeExpRange = f.LifeExpRange.normalized()
	f.PopRange = f.PopRange.normalized()
	return f
}

func (r IntRange) normalized() IntRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

func (r FloatRange) normalized() FloatRange {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}
