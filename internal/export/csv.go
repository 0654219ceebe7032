// Package export hands the unified dataset and metrics bundle off to the
// dashboard layer as files: a BOM-prefixed CSV, a cleaned SQLite database,
// and a markdown analytics profile.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deliverylens/internal/normalize"
)

// unifiedColumns is the flat-table contract consumed by charting and
// spreadsheet imports.
var unifiedColumns = []string{
	"order_id", "platform", "date", "revenue",
	"subtotal", "tax", "tips", "commission", "marketing_fee",
	"is_completed", "is_cancelled",
	"store_name", "store_id",
	"hour", "day_of_week", "month", "date_repaired",
}

// WriteCSV writes the unified dataset. The file carries a UTF-8 BOM so
// spreadsheet tools pick up the Chinese store names correctly.
func WriteCSV(path string, records []normalize.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	if err := writeCSVRecord(f, unifiedColumns); err != nil {
		return err
	}
	for i := range records {
		if err := writeCSVRecord(f, csvRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

func csvRow(r *normalize.Record) []string {
	return []string{
		r.OrderID,
		string(r.Platform),
		r.Date.Format("2006-01-02 15:04:05"),
		r.Revenue.String(),
		r.Subtotal.String(),
		r.Tax.String(),
		r.Tips.String(),
		r.Commission.String(),
		r.MarketingFee.String(),
		csvBool(r.IsCompleted),
		csvBool(r.IsCancelled),
		r.StoreName,
		r.StoreID,
		strconv.Itoa(r.Hour),
		r.DayOfWeek.String(),
		r.Month,
		csvBool(r.DateRepaired),
	}
}

// csvBool matches the True/False spelling the previous pandas-based export
// used, so downstream spreadsheet formulas keep working.
func csvBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func writeCSVRecord(w io.Writer, rec []string) error {
	for i, field := range rec {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if needsCSVQuote(field) {
			escaped := strings.ReplaceAll(field, `"`, `""`)
			if _, err := io.WriteString(w, `"`+escaped+`"`); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, field); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func needsCSVQuote(s string) bool {
	return strings.ContainsAny(s, ",\"\n\r")
}
