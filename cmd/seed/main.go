package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"csvinsights/internal/app"
	"csvinsights/internal/config"
	"csvinsights/internal/logging"

	log "github.com/sirupsen/logrus"
)

// seed profiles local CSV files and stores each one as a report
func main() {
	flag.Usage = func() {
		os.Stderr.WriteString("usage: seed FILE.csv [FILE.csv ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close(ctx)

	failed := false
	for _, path := range flag.Args() {
		if err := seedFile(ctx, a, path); err != nil {
			log.WithError(err).WithField("file", path).Error("seed failed")
			failed = true
		}
	}
	if failed {
		a.Close(ctx)
		os.Exit(1)
	}
}

func seedFile(ctx context.Context, a *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	id, err := a.ReportService.Create(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": path, "reportId": id}).Info("Created report")
	return nil
}
