package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"bottlecraft/internal/catalog"
	"bottlecraft/internal/config"
	"bottlecraft/internal/importer"
	"bottlecraft/internal/logging"
)

func main() {
	var (
		familyPath string
		filePath   string
		outPath    string
	)
	flag.StringVar(&familyPath, "family", "", "Path to the family YAML file to update")
	flag.StringVar(&filePath, "file", "", "Path to the SKU matrix CSV export")
	flag.StringVar(&outPath, "out", "", "Where to write the updated family (defaults to -family)")
	flag.Parse()

	if familyPath == "" || filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if outPath == "" {
		outPath = familyPath
	}

	cfg := config.FromEnv()
	logger, err := logging.New("importer", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(familyPath)
	if err != nil {
		logger.Fatal("read family", zap.String("path", familyPath), zap.Error(err))
	}
	fam, err := catalog.ParseFamily(raw)
	if err != nil {
		logger.Fatal("parse family", zap.String("path", familyPath), zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	start := time.Now()
	records, err := importer.NewSKUMatrixImporter(f).Run()
	if err != nil {
		logger.Fatal("import failed", zap.String("file", filePath), zap.Error(err))
	}
	importer.Apply(fam, records)
	if err := catalog.Validate(fam); err != nil {
		logger.Fatal("family invalid after import", zap.Error(err))
	}

	out, err := catalog.MarshalFamily(fam)
	if err != nil {
		logger.Fatal("encode family", zap.Error(err))
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		logger.Fatal("write family", zap.String("path", outPath), zap.Error(err))
	}

	fmt.Printf("Imported %d SKU records into family %s in %s\n", len(records), fam.Key, time.Since(start).Truncate(time.Millisecond))
}
