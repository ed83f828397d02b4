package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/retail-warehouse/internal/config"
	"github.com/dvloznov/retail-warehouse/internal/etl"
	"github.com/dvloznov/retail-warehouse/internal/infra/bigquery"
	"github.com/dvloznov/retail-warehouse/internal/ingest"
	"github.com/dvloznov/retail-warehouse/internal/logger"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	source := flag.String("source", cfg.SourceURI, "Source CSV (local path or gs:// URI)")
	project := flag.String("project", cfg.ProjectID, "GCP project ID")
	batchSize := flag.Int("batch-size", cfg.FactBatchSize, "Fact rows per append batch")
	concurrency := flag.Int("concurrency", cfg.LoadConcurrency, "Concurrent fact batch appends")
	verify := flag.Bool("verify", false, "Count fact_sales rows after the load")
	flag.Parse()

	if *project == "" {
		log.Fatal().Msg("Error: -project flag or GCP_PROJECT is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := bigquery.NewStore(ctx, *project, cfg.StagingDataset, cfg.WarehouseDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to BigQuery failed")
	}
	defer store.Close()

	loader := etl.NewLoader(store, *batchSize, *concurrency, log)
	builder := etl.NewBuilder(&ingest.CSVSource{}, store, store, loader, log)

	log.Info().Str("source", *source).Msg("Starting warehouse build")

	report, err := builder.Run(ctx, *source)
	if err != nil {
		log.Fatal().Err(err).Msg("Warehouse build failed")
	}

	fmt.Printf("Build completed: %d raw rows, %d dropped, %d clean\n",
		report.RawRows, report.DroppedRows, report.CleanRows)
	fmt.Printf("Loaded: dim_product=%d dim_customer=%d dim_date=%d fact_sales=%d\n",
		report.ProductRows, report.CustomerRows, report.DateRows, report.FactRows)

	if *verify {
		n, err := store.CountWarehouseRows(ctx, bigquery.FactTable)
		if err != nil {
			log.Error().Err(err).Msg("Verification query failed")
			os.Exit(1)
		}
		fmt.Printf("fact_sales now holds %d rows\n", n)
	}
}
