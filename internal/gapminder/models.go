package gapminder

// Record is one (country, year) observation from the Gapminder dataset.
// Records are immutable once loaded; consumers receive filtered copies.
type Record struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Year      int     `json:"year"`
	LifeExp   float64 `json:"lifeExp"`
	GdpPercap float64 `json:"gdpPercap"`
	Pop       int64   `json:"pop"`
}

// Continents is the fixed set of continent values present in the dataset.
var Continents = []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}

func validContinent(c string) bool {
	for _, v := range Continents {
		if v == c {
			return true
		}
	}
	return false
}

// IntRange is an inclusive [Min,Max] range over integer fields.
type IntRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FloatRange is an inclusive [Min,Max] range over float fields.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState holds the active inclusion predicates over records.
// Empty country/continent slices mean "all". Every range is inclusive
// and must satisfy Min <= Max; Normalized() repairs violations.
type FilterState struct {
	Countries    []string   `json:"countries"`
	Continents   []string   `json:"continents"`
	YearRange    IntRange   `json:"yearRange"`
	GdpRange     FloatRange `json:"gdpRange"`
	LifeExpRange FloatRange `json:"lifeExpRange"`
	PopRange     IntRange   `json:"popRange"`
}

// Axis and display option values for ChartConfig.
const (
	AxisGdpPercap = "gdpPercap"
	AxisYear      = "year"
	AxisPop       = "pop"
	AxisLifeExp   = "lifeExp"

	SizeByPop       = "pop"
	SizeByGdpPercap = "gdpPercap"
	SizeByFixed     = "fixed"

	ColorByContinent = "continent"
	ColorByCountry   = "country"
)

var (
	xAxisAllowed  = []string{AxisGdpPercap, AxisYear, AxisPop, AxisLifeExp}
	yAxisAllowed  = []string{AxisLifeExp, AxisGdpPercap, AxisPop}
	sizeByAllowed = []string{SizeByPop, SizeByGdpPercap, SizeByFixed}
	colorAllowed  = []string{ColorByContinent, ColorByCountry}
)

// ChartConfig is pure display configuration for the scatter plot.
type ChartConfig struct {
	XAxis    string `json:"xAxis"`
	YAxis    string `json:"yAxis"`
	SizeBy   string `json:"sizeBy"`
	ColorBy  string `json:"colorBy"`
	LogScale bool   `json:"logScale"`
}

// DefaultChartConfig is the classic Gapminder view.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		XAxis:    AxisGdpPercap,
		YAxis:    AxisLifeExp,
		SizeBy:   SizeByPop,
		ColorBy:  ColorByContinent,
		LogScale: true,
	}
}

func contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// Validate checks enum membership for each chart option.
func (c ChartConfig) Validate() error {
	if !contains(xAxisAllowed, c.XAxis) {
		return &validationError{"invalid xAxis: " + c.XAxis}
	}
	if !contains(yAxisAllowed, c.YAxis) {
		return &validationError{"invalid yAxis: " + c.YAxis}
	}
	if !contains(sizeByAllowed, c.SizeBy) {
		return &validationError{"invalid sizeBy: " + c.SizeBy}
	}
	if !contains(colorAllowed, c.ColorBy) {
		return &validationError{"invalid colorBy: " + c.ColorBy}
	}
	return nil
}

// PlaybackState tracks the displayed year and whether playback runs.
// CurrentYear is always one of the dataset's distinct years.
type PlaybackState struct {
	CurrentYear int  `json:"currentYear"`
	IsPlaying   bool `json:"isPlaying"`
}

// Stats are summary statistics over a filtered record subset.
// Averages cover only the currentYear slice; when that slice is empty
// they are zero and CurrentYearRecords reports 0, never an error.
type Stats struct {
	TotalRecords       int     `json:"totalRecords"`
	DistinctCountries  int     `json:"distinctCountries"`
	DistinctContinents int     `json:"distinctContinents"`
	CurrentYearRecords int     `json:"currentYearRecords"`
	AvgLifeExp         float64 `json:"avgLifeExp"`
	AvgGdpPercap       float64 `json:"avgGdpPercap"`
	AvgGdpPercapRound  int64   `json:"avgGdpPercapRounded"`
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}
