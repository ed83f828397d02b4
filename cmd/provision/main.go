// Command provision creates the staging and warehouse datasets and their
// tables. The loader assumes this has run; a failure here means the ETL must
// not be started.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/dvloznov/retail-warehouse/internal/config"
	"github.com/dvloznov/retail-warehouse/internal/infra/bigquery"
)

var (
	projectID = flag.String("project", "", "GCP project ID (required)")
	recreate  = flag.Bool("recreate", false, "Drop and recreate all tables (destroys warehouse contents)")
)

func main() {
	flag.Parse()
	cfg := config.Load()

	if *projectID == "" {
		*projectID = cfg.ProjectID
	}
	if *projectID == "" {
		log.Fatal("Error: -project flag or GCP_PROJECT is required.")
	}

	ctx := context.Background()

	client, err := bq.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("Failed to create BigQuery client: %v", err)
	}
	defer client.Close()

	datasets := map[string]string{
		"staging":   cfg.StagingDataset,
		"warehouse": cfg.WarehouseDataset,
	}
	for role, name := range datasets {
		if err := ensureDataset(ctx, client, name); err != nil {
			log.Fatalf("Failed to ensure %s dataset %q: %v", role, name, err)
		}
		log.Printf("  [OK] dataset %s", name)
	}

	for _, table := range bigquery.Tables {
		dataset := cfg.WarehouseDataset
		if table.Staging {
			dataset = cfg.StagingDataset
		}

		verb := "CREATE TABLE IF NOT EXISTS"
		if *recreate {
			verb = "CREATE OR REPLACE TABLE"
		}
		sql := fmt.Sprintf("%s `%s.%s.%s` (%s)", verb, *projectID, dataset, table.Name, table.Columns)

		if err := runDDL(ctx, client, sql); err != nil {
			log.Fatalf("Failed to create table %s.%s: %v", dataset, table.Name, err)
		}
		log.Printf("  [OK] table %s.%s", dataset, table.Name)
	}

	log.Println("Provisioning complete.")
}

func ensureDataset(ctx context.Context, client *bq.Client, name string) error {
	err := client.Dataset(name).Create(ctx, &bq.DatasetMetadata{})
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return nil // already exists
	}
	return fmt.Errorf("creating dataset: %w", err)
}

func runDDL(ctx context.Context, client *bq.Client, sql string) error {
	query := client.Query(sql)
	job, err := query.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}
