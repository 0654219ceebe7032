package export

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"deliverylens/internal/metrics"
	"deliverylens/internal/normalize"
	"deliverylens/internal/pipeline"
)

// WriteSQLite rebuilds the hand-off database from scratch: one run row, the
// unified dataset as a typed table, and the headline metrics as key/value
// pairs. Rebuilding keeps the artifact aligned with the "fresh on every
// upload" session model.
func WriteSQLite(path string, res *pipeline.Result, bundle *metrics.Bundle) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE runs (
			run_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE unified_orders (
			order_id TEXT,
			platform TEXT NOT NULL,
			date TEXT NOT NULL,
			revenue REAL NOT NULL,
			subtotal REAL,
			tax REAL,
			tips REAL,
			commission REAL,
			marketing_fee REAL,
			is_completed INTEGER NOT NULL,
			is_cancelled INTEGER NOT NULL,
			store_name TEXT,
			store_id TEXT,
			hour INTEGER,
			day_of_week TEXT,
			month TEXT,
			date_repaired INTEGER NOT NULL
		)`,
		`CREATE TABLE metrics_summary (
			metric TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if _, err := db.Exec(
		`INSERT INTO runs (run_id, created_at, record_count) VALUES (?, ?, ?)`,
		res.RunID, time.Now().UTC().Format(time.RFC3339), len(res.Records),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertOrders(db, res.Records); err != nil {
		return err
	}
	if bundle != nil {
		if err := insertSummary(db, bundle); err != nil {
			return err
		}
	}

	for _, idx := range []string{
		`CREATE INDEX idx_unified_orders_platform ON unified_orders(platform)`,
		`CREATE INDEX idx_unified_orders_store ON unified_orders(store_name)`,
		`CREATE INDEX idx_unified_orders_date ON unified_orders(date)`,
	} {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func insertOrders(db *sql.DB, records []normalize.Record) error {
	cols := strings.Join(unifiedColumns, ",")
	ph := strings.TrimRight(strings.Repeat("?,", len(unifiedColumns)), ",")
	stmt, err := db.Prepare(`INSERT INTO unified_orders (` + cols + `) VALUES (` + ph + `)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		revenue, _ := r.Revenue.Float64()
		subtotal, _ := r.Subtotal.Float64()
		tax, _ := r.Tax.Float64()
		tips, _ := r.Tips.Float64()
		commission, _ := r.Commission.Float64()
		marketing, _ := r.MarketingFee.Float64()
		if _, err := stmt.Exec(
			r.OrderID,
			string(r.Platform),
			r.Date.Format("2006-01-02 15:04:05"),
			revenue, subtotal, tax, tips, commission, marketing,
			boolInt(r.IsCompleted),
			boolInt(r.IsCancelled),
			r.StoreName,
			r.StoreID,
			r.Hour,
			r.DayOfWeek.String(),
			r.Month,
			boolInt(r.DateRepaired),
		); err != nil {
			return fmt.Errorf("insert order %d: %w", i, err)
		}
	}
	return nil
}

func insertSummary(db *sql.DB, bundle *metrics.Bundle) error {
	entries := [][2]string{
		{"total_records", fmt.Sprintf("%d", bundle.Summary.TotalRecords)},
		{"total_orders", fmt.Sprintf("%d", bundle.Summary.TotalOrders)},
		{"total_revenue", bundle.Summary.TotalRevenue.String()},
		{"aov", bundle.Summary.AOV.String()},
		{"completion_rate_pct", fmt.Sprintf("%.2f", bundle.Summary.CompletionRate)},
		{"cancellation_rate_pct", fmt.Sprintf("%.2f", bundle.Summary.CancellationRate)},
		{"revenue_growth_pct", fmt.Sprintf("%.2f", bundle.Summary.RevenueGrowthPct)},
		{"order_growth_pct", fmt.Sprintf("%.2f", bundle.Summary.OrderGrowthPct)},
		{"churn_rate_pct", fmt.Sprintf("%.2f", bundle.Churn.OverallRate)},
		{"churn_threshold_days", fmt.Sprintf("%d", bundle.Churn.ThresholdDays)},
	}
	for _, e := range entries {
		if _, err := db.Exec(`INSERT INTO metrics_summary (metric, value) VALUES (?, ?)`, e[0], e[1]); err != nil {
			return fmt.Errorf("insert metric %s: %w", e[0], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
