package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ListingHeaders are the columns of a generated listings table.
var ListingHeaders = []string{"listing_id", "brand", "price", "feature", "rating", "in_stock"}

// PlantedGap forces brand and feature to co-occur exactly Observations times.
type PlantedGap struct {
	Brand        string `json:"brand" yaml:"brand"`
	Feature      string `json:"feature" yaml:"feature"`
	Observations int    `json:"observations" yaml:"observations"`
}

// ListingConfig configures the synthetic listings generator
type ListingConfig struct {
	Rows        int        `json:"rows" yaml:"rows"`
	Seed        int64      `json:"seed" yaml:"seed"`
	Brands      []string   `json:"brands" yaml:"brands"`
	Features    []string   `json:"features" yaml:"features"`
	PriceMin    float64    `json:"price_min" yaml:"price_min"`
	PriceMax    float64    `json:"price_max" yaml:"price_max"`
	MissingRate float64    `json:"missing_rate" yaml:"missing_rate"` // share of blank price cells
	Gap         PlantedGap `json:"gap" yaml:"gap"`
}

// DefaultListingConfig returns a 500-row catalogue with one planted gap.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		Rows:     500,
		Seed:     42,
		Brands:   []string{"Acme", "Globex", "Initech", "Umbrella", "Stark"},
		Features: []string{"wifi", "bluetooth", "gps", "waterproof", "wireless charging"},
		PriceMin: 19.99,
		PriceMax: 499.99,
		Gap:      PlantedGap{Brand: "Stark", Feature: "gps", Observations: 1},
	}
}

// Listings is a generated table; Rows are already formatted strings.
type Listings struct {
	Headers []string
	Rows    [][]string
}

// GenerateListings builds a deterministic listings table. Brands and features
// are drawn uniformly except that the planted brand only carries the planted
// feature on its first Gap.Observations rows.
func GenerateListings(cfg ListingConfig) (*Listings, error) {
	switch {
	case cfg.Rows <= 0:
		return nil, fmt.Errorf("rows must be > 0")
	case len(cfg.Brands) == 0 || len(cfg.Features) < 2:
		return nil, fmt.Errorf("need at least one brand and two features")
	case cfg.PriceMax < cfg.PriceMin:
		return nil, fmt.Errorf("price_max must be >= price_min")
	case cfg.MissingRate < 0 || cfg.MissingRate >= 1:
		return nil, fmt.Errorf("missing_rate must be in [0, 1)")
	}
	planted := cfg.Gap.Brand != "" && cfg.Gap.Feature != ""
	if planted && (!slices.Contains(cfg.Brands, cfg.Gap.Brand) || !slices.Contains(cfg.Features, cfg.Gap.Feature)) {
		return nil, fmt.Errorf("planted gap %s/%s is not in the brand and feature lists", cfg.Gap.Brand, cfg.Gap.Feature)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	others := make([]string, 0, len(cfg.Features))
	for _, f := range cfg.Features {
		if f != cfg.Gap.Feature {
			others = append(others, f)
		}
	}

	rows := make([][]string, cfg.Rows)
	plantedSeen := 0
	for i := range rows {
		brand := cfg.Brands[rng.Intn(len(cfg.Brands))]

		var feature string
		if planted && brand == cfg.Gap.Brand {
			if plantedSeen < cfg.Gap.Observations {
				feature = cfg.Gap.Feature
				plantedSeen++
			} else {
				feature = others[rng.Intn(len(others))]
			}
		} else {
			feature = cfg.Features[rng.Intn(len(cfg.Features))]
		}

		price := fToStr(cfg.PriceMin+rng.Float64()*(cfg.PriceMax-cfg.PriceMin), 2)
		if rng.Float64() < cfg.MissingRate {
			price = ""
		}
		rating := fToStr(1+rng.Float64()*4, 1)
		inStock := strconv.FormatBool(rng.Float64() < 0.8)

		rows[i] = []string{fmt.Sprintf("L%05d", i+1), brand, price, feature, rating, inStock}
	}

	headers := make([]string, len(ListingHeaders))
	copy(headers, ListingHeaders)
	return &Listings{Headers: headers, Rows: rows}, nil
}

// WriteCSV writes the listings as CSV with a header row.
func (l *Listings) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(l.Headers); err != nil {
		return err
	}
	for _, row := range l.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the listings to the first sheet of a workbook. Cells are
// written as text so they read back exactly as generated.
func (l *Listings) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	write := func(rowIdx int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := write(1, l.Headers); err != nil {
		return err
	}
	for r, row := range l.Rows {
		if err := write(r+2, row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
