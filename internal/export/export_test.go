package export

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverylens/internal/metrics"
	"deliverylens/internal/normalize"
	"deliverylens/internal/pipeline"
	"deliverylens/internal/schema"
)

func sampleResult() *pipeline.Result {
	rec := func(id string, platform normalize.Platform, store, revenue string) normalize.Record {
		r := normalize.Record{
			OrderID:     id,
			Platform:    platform,
			StoreName:   store,
			Revenue:     decimal.RequireFromString(revenue),
			HasRevenue:  true,
			IsCompleted: true,
		}
		r.SetDate(time.Date(2025, time.June, 3, 18, 45, 0, 0, time.UTC))
		return r
	}
	return &pipeline.Result{
		RunID: "test-run",
		Records: []normalize.Record{
			rec("DD-000001", normalize.PlatformDoorDash, "Luckin Coffee - Broadway", "25.40"),
			rec("UB-000001", normalize.PlatformUber, "Store, With Comma", "12.50"),
			rec("GH-000001", normalize.PlatformGrubhub, "Luckin Coffee - Union Square", "-3.00"),
		},
		Reports: []pipeline.PlatformReport{
			{Platform: normalize.PlatformDoorDash, RawRows: 1, Normalized: 1, Kept: 1},
			{Platform: normalize.PlatformUber, RawRows: 1, Normalized: 1, Kept: 1},
			{Platform: normalize.PlatformGrubhub, RawRows: 1, Normalized: 1, Kept: 1, DateRepaired: true},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	res := sampleResult()
	path := filepath.Join(t.TempDir(), "unified_orders.csv")
	require.NoError(t, WriteCSV(path, res.Records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "csv must carry a UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(string(raw[3:]), "\n"), "\n")
	require.Len(t, lines, 4, "header plus three records")
	assert.Equal(t, strings.Join(unifiedColumns, ","), lines[0])
	assert.Contains(t, lines[1], "DD-000001,DoorDash,2025-06-03 18:45:00,25.4")
	assert.Contains(t, lines[1], ",True,False,")
	assert.Contains(t, lines[2], `"Store, With Comma"`, "embedded comma forces quoting")
	assert.Contains(t, lines[3], "-3")
}

func TestWriteSQLite(t *testing.T) {
	res := sampleResult()
	bundle := metrics.Compute(res.Records, metrics.Options{})
	path := filepath.Join(t.TempDir(), "deliverylens.sqlite")
	require.NoError(t, WriteSQLite(path, res, bundle))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM unified_orders`).Scan(&count))
	assert.Equal(t, 3, count)

	var runID string
	var recorded int
	require.NoError(t, db.QueryRow(`SELECT run_id, record_count FROM runs`).Scan(&runID, &recorded))
	assert.Equal(t, "test-run", runID)
	assert.Equal(t, 3, recorded)

	var revenue float64
	require.NoError(t, db.QueryRow(
		`SELECT revenue FROM unified_orders WHERE order_id = ?`, "DD-000001",
	).Scan(&revenue))
	assert.InDelta(t, 25.40, revenue, 0.001)

	var total string
	require.NoError(t, db.QueryRow(
		`SELECT value FROM metrics_summary WHERE metric = 'total_revenue'`,
	).Scan(&total))
	assert.Equal(t, bundle.Summary.TotalRevenue.String(), total)
}

func TestWriteSQLiteOverwrites(t *testing.T) {
	res := sampleResult()
	path := filepath.Join(t.TempDir(), "deliverylens.sqlite")
	require.NoError(t, WriteSQLite(path, res, nil))
	require.NoError(t, WriteSQLite(path, res, nil), "second run replaces the file, not appends")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM unified_orders`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestBuildProfile(t *testing.T) {
	res := sampleResult()
	bundle := metrics.Compute(res.Records, metrics.Options{})
	profile := BuildProfile(res, bundle)

	assert.Contains(t, profile, "# Delivery Analytics Profile")
	assert.Contains(t, profile, "Run `test-run`")
	assert.Contains(t, profile, "DoorDash: 1 raw rows, 1 kept")
	assert.Contains(t, profile, "dates repaired")
	assert.Contains(t, profile, "## Platforms")
	assert.Contains(t, profile, "## Top Stores")

	// Three distinct stores is enough for quintile scoring, so the profile
	// carries real segment names.
	assert.Contains(t, profile, "## RFM Segments")
	assert.Contains(t, profile, "| Luckin Coffee - Broadway | 5 | 1 | 4 | New |")
	assert.Contains(t, profile, "| Luckin Coffee - Union Square | 4 | 2 | 1 | Loyal |")
	assert.Contains(t, profile, "| Store, With Comma | 2 | 4 | 2 | At Risk |")
	assert.NotContains(t, profile, "Insufficient Data")
}

func TestBuildProfileInsufficientRFMData(t *testing.T) {
	res := sampleResult()
	// Two distinct stores sits below the quintile minimum.
	res.Records = res.Records[:2]
	bundle := metrics.Compute(res.Records, metrics.Options{})
	profile := BuildProfile(res, bundle)

	assert.Contains(t, profile, "## RFM Segments")
	assert.Contains(t, profile, "Insufficient Data")
}

func TestBuildProfileFailedPlatform(t *testing.T) {
	res := &pipeline.Result{
		RunID: "r",
		Reports: []pipeline.PlatformReport{
			{Platform: normalize.PlatformUber, MissingRequired: []schema.Field{schema.FieldRevenue}},
		},
	}
	profile := BuildProfile(res, nil)
	assert.Contains(t, profile, "FAILED")
}

func TestFmtInt(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		assert.Equal(t, want, fmtInt(in))
	}
}
