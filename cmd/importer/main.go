package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"ledger/internal/config"
	"ledger/internal/db"
	"ledger/internal/importer"
	"ledger/internal/logging"
	"ledger/internal/repository/customer"
	"ledger/internal/repository/product"
)

func main() {
	var (
		filePath string
		lang     string
	)
	flag.StringVar(&filePath, "file", "", "Path to a CSV with name,price (products) or name,balance (customers) columns")
	flag.StringVar(&lang, "lang", "", "Language tag the amounts are written in (defaults to LANGUAGE_TAG)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if lang == "" {
		lang = cfg.LanguageTag
	}
	logger, err := logging.New(cfg.LogEnv)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	kind, err := importer.DetectKind(f)
	if err != nil {
		log.Fatalf("detect file kind: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Fatalf("rewind file: %v", err)
	}

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, logger), customer.NewPostgres(pool, logger), lang)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d rows: %v", count, err)
	}

	fmt.Printf("Imported %d %s in %s\n", count, kind, time.Since(start).Truncate(time.Millisecond))
}
