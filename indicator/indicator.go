// Package indicator defines the development indicators the dashboard forecasts along with how
// each value is rounded and displayed.
package indicator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	KeyGDP            = "gdp"
	KeyLifeExpectancy = "life_expectancy"
	KeyPopulation     = "population"
	KeyGDPPerCapita   = "gdp_per_capita"
)

// Metric describes one forecasted indicator
type Metric struct {
	Key  string
	File string // model artifact filename in the model directory

	// Label keys the prediction result
	Label string
	Title string
	Unit  string

	// Precision is the number of decimal places predictions are rounded to. The display
	// format may show fewer places.
	Precision int32
	Display   string

	Description string
}

// Round rounds v half away from zero to the metric precision
func (m Metric) Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(m.Precision).InexactFloat64()
}

// Format renders a rounded value for display
func (m Metric) Format(v float64) string {
	return fmt.Sprintf(m.Display, v)
}

var (
	GDP = Metric{
		Key:         KeyGDP,
		File:        "model_gdp.json",
		Label:       "GDP (Billion US$)",
		Title:       "Gross Domestic Product (GDP)",
		Unit:        "$ B",
		Precision:   2,
		Display:     "$%.2f B",
		Description: "The total value of all goods and services a country produces in a year. It shows the size of the country's economy.",
	}
	LifeExpectancy = Metric{
		Key:         KeyLifeExpectancy,
		File:        "model_life.json",
		Label:       "Life Expectancy (Years)",
		Title:       "Life Expectancy",
		Unit:        "Yrs",
		Precision:   2,
		Display:     "%.1f Yrs",
		Description: "The average number of years a person is expected to live, based on current health and living conditions.",
	}
	Population = Metric{
		Key:         KeyPopulation,
		File:        "model_pop.json",
		Label:       "Total Population (Billion)",
		Title:       "Total Population",
		Unit:        "B",
		Precision:   3,
		Display:     "%.3f B",
		Description: "The total number of people living in a country at a given time.",
	}
	GDPPerCapita = Metric{
		Key:         KeyGDPPerCapita,
		File:        "model_gdp_cap.json",
		Label:       "GDP per capita (US$)",
		Title:       "GDP per Capita",
		Unit:        "$",
		Precision:   0,
		Display:     "$%.0f",
		Description: "The average economic output (GDP) per person. It is calculated by dividing GDP by the total population and reflects the standard of living.",
	}
)

// All returns every metric in display order
func All() []Metric {
	return []Metric{GDP, LifeExpectancy, Population, GDPPerCapita}
}

// ByKey looks up a metric by its key
func ByKey(key string) (Metric, bool) {
	for _, m := range All() {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}
