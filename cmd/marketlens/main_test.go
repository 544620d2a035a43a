package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"marketlens/domain/market"
	"marketlens/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestGenerateThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "ERROR")

	out := execute(t, "generate", "--out", "listings.csv")
	assert.Contains(t, out, "Wrote 500 listings to listings.csv")

	out = execute(t, "analyze", "listings.csv", "--top-brands", "3")
	var bundle market.AnalysisBundle
	require.NoError(t, json.Unmarshal([]byte(out), &bundle))
	assert.Equal(t, 500, bundle.TotalRecords)
	assert.Len(t, bundle.Agents.Brand.Results.(*market.BrandResults).TopBrands, 3)

	gaps := bundle.Agents.Gap.Results.(*market.GapResults)
	require.NotEmpty(t, gaps.TopGaps)
	assert.Equal(t, "Stark", gaps.TopGaps[0].Brand)
	assert.Equal(t, "gps", gaps.TopGaps[0].Feature)

	execute(t, "analyze", "listings.csv", "--export", "xlsx", "--out", "report.xlsx")
	info, err := os.Stat(filepath.Join(dir, "report.xlsx"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestApplyAnalyzeFlags_OnlyChanged(t *testing.T) {
	cmd := analyzeCmd
	require.NoError(t, cmd.Flags().Set("top-gaps", "4"))
	t.Cleanup(func() {
		_ = cmd.Flags().Set("top-gaps", "10")
		cmd.Flags().Lookup("top-gaps").Changed = false
	})

	a := config.DefaultAnalysisConfig()
	a.BrandColumn = "maker"
	applyAnalyzeFlags(cmd, &a)

	assert.Equal(t, 4, a.TopGaps)
	assert.Equal(t, "maker", a.BrandColumn)
}
