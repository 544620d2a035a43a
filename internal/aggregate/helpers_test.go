package aggregate

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"marketlens/domain/core"
	"marketlens/domain/dataset"

	"github.com/stretchr/testify/require"
)

var fixedAt = core.NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

// textColumn builds a string column; "" cells are missing.
func textColumn(name string, cells ...string) *dataset.Column {
	values := make([]dataset.Value, len(cells))
	for i, c := range cells {
		values[i] = dataset.NewStringValue(c)
	}
	return &dataset.Column{Name: name, Kind: dataset.KindString, Values: values}
}

// numberColumn builds a float column.
func numberColumn(name string, nums ...float64) *dataset.Column {
	values := make([]dataset.Value, len(nums))
	for i, n := range nums {
		values[i] = dataset.NewNumericValue(n, "")
	}
	return &dataset.Column{Name: name, Kind: dataset.KindFloat, Values: values}
}

// intColumn builds an integer column.
func intColumn(name string, nums ...int) *dataset.Column {
	values := make([]dataset.Value, len(nums))
	for i, n := range nums {
		values[i] = dataset.NewNumericValue(float64(n), strconv.Itoa(n))
	}
	return &dataset.Column{Name: name, Kind: dataset.KindInteger, Values: values}
}

// boolColumn builds a boolean column.
func boolColumn(name string, flags ...bool) *dataset.Column {
	values := make([]dataset.Value, len(flags))
	for i, b := range flags {
		values[i] = dataset.NewBooleanValue(b, "")
	}
	return &dataset.Column{Name: name, Kind: dataset.KindBoolean, Values: values}
}

func mustTable(t *testing.T, cols ...*dataset.Column) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(cols)
	require.NoError(t, err)
	return table
}

// shuffled returns a row permutation of table.
func shuffled(table *dataset.Table, seed int64) *dataset.Table {
	order := rand.New(rand.NewSource(seed)).Perm(table.Len())
	return table.SelectRows(order)
}

type pairGroup struct {
	brand, feature string
	n              int
}

// repeatPairs expands each group into n rows of two parallel columns.
func repeatPairs(groups ...pairGroup) (*dataset.Column, *dataset.Column) {
	var brands, features []string
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			brands = append(brands, g.brand)
			features = append(features, g.feature)
		}
	}
	return textColumn("brand", brands...), textColumn("feature", features...)
}
