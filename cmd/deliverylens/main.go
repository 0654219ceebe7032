// Command deliverylens unifies platform transaction exports into one clean
// dataset plus derived analytics.
//
// Usage:
//
//	deliverylens -doordash dd.csv -uber uber.csv -grubhub gh.csv -out-dir outputs
//
// Any subset of the platform flags may be given; at least one must produce
// records. Outputs: unified_orders.csv, deliverylens.sqlite,
// analytics_profile.md.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"deliverylens/internal/config"
	"deliverylens/internal/export"
	"deliverylens/internal/logger"
	"deliverylens/internal/metrics"
	"deliverylens/internal/normalize"
	"deliverylens/internal/pipeline"
	"deliverylens/internal/rawtable"
	"deliverylens/internal/validate"
)

func main() {
	doordash := flag.String("doordash", "", "path to DoorDash transactions CSV")
	uber := flag.String("uber", "", "path to Uber Eats payments CSV")
	grubhub := flag.String("grubhub", "", "path to Grubhub transactions CSV")
	outDir := flag.String("out-dir", "", "output directory (default from OUTPUT_DIR)")
	envFile := flag.String("env-file", "", "optional .env file")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fatalf("config: %v", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	refMonth, err := cfg.ReferenceMonth()
	if err != nil {
		fatalf("config: %v", err)
	}

	vopts := validate.Options{BoundEnabled: cfg.RevenueCeilingEnabled}
	if cfg.RevenueCeilingEnabled {
		max, err := decimal.NewFromString(cfg.RevenueCeiling)
		if err != nil {
			fatalf("config: parse REVENUE_CEILING %q: %v", cfg.RevenueCeiling, err)
		}
		vopts.MaxAbsRevenue = max
	}

	var inputs []pipeline.Input
	for _, src := range []struct {
		platform normalize.Platform
		path     string
	}{
		{normalize.PlatformDoorDash, *doordash},
		{normalize.PlatformUber, *uber},
		{normalize.PlatformGrubhub, *grubhub},
	} {
		if src.path == "" {
			continue
		}
		table, err := rawtable.LoadFile(src.path)
		if err != nil {
			fatalf("load %s file %s: %v", src.platform, src.path, err)
		}
		inputs = append(inputs, pipeline.Input{Platform: src.platform, Table: table})
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "no input files given; pass at least one of -doordash, -uber, -grubhub")
		flag.Usage()
		os.Exit(2)
	}

	res := pipeline.Run(inputs, pipeline.Config{
		ReferenceMonth: refMonth,
		Validation:     vopts,
		Log:            log,
	})
	if res.TotalKept() == 0 {
		fatalf("no usable records in any input")
	}

	bundle := metrics.Compute(res.Records, metrics.Options{
		ChurnThresholdDays: cfg.ChurnThresholdDays,
	})

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fatalf("create output dir: %v", err)
	}
	csvPath := filepath.Join(cfg.OutputDir, "unified_orders.csv")
	dbPath := filepath.Join(cfg.OutputDir, "deliverylens.sqlite")
	profilePath := filepath.Join(cfg.OutputDir, "analytics_profile.md")

	if err := export.WriteCSV(csvPath, res.Records); err != nil {
		fatalf("write csv: %v", err)
	}
	if err := export.WriteSQLite(dbPath, res, bundle); err != nil {
		fatalf("write sqlite: %v", err)
	}
	if err := os.WriteFile(profilePath, []byte(export.BuildProfile(res, bundle)), 0o644); err != nil {
		fatalf("write profile: %v", err)
	}

	counts := res.CountByPlatform()
	fmt.Printf("run %s: %d records unified\n", res.RunID, res.TotalKept())
	for _, p := range normalize.Platforms {
		if n, ok := counts[p]; ok {
			fmt.Printf("  %-10s %d\n", p, n)
		}
	}
	fmt.Printf("wrote %s\n", csvPath)
	fmt.Printf("wrote %s\n", dbPath)
	fmt.Printf("wrote %s\n", profilePath)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "deliverylens: "+format+"\n", args...)
	os.Exit(1)
}
