package bigquery

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/dvloznov/retail-warehouse/internal/etl"
)

// StartRun records a new load run with status=RUNNING and returns its ID.
func (s *Store) StartRun(ctx context.Context, sourceURI string) (string, error) {
	runID := uuid.NewString()

	sql := fmt.Sprintf(`
		INSERT %s (run_id, source_uri, status, started_ts)
		VALUES (@run_id, @source_uri, @status, @started_ts)
	`, s.tableRef(s.staging, LoadRunsTable))

	err := s.runQuery(ctx, sql,
		bigquery.QueryParameter{Name: "run_id", Value: runID},
		bigquery.QueryParameter{Name: "source_uri", Value: sourceURI},
		bigquery.QueryParameter{Name: "status", Value: "RUNNING"},
		bigquery.QueryParameter{Name: "started_ts", Value: time.Now()},
	)
	if err != nil {
		return "", fmt.Errorf("StartRun: %w", err)
	}
	return runID, nil
}

// FinishRun marks a load run SUCCESS and records the build counts.
func (s *Store) FinishRun(ctx context.Context, runID string, report etl.BuildReport) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    raw_rows = @raw_rows,
		    dropped_rows = @dropped_rows,
		    clean_rows = @clean_rows,
		    product_rows = @product_rows,
		    customer_rows = @customer_rows,
		    date_rows = @date_rows,
		    fact_rows = @fact_rows
		WHERE run_id = @run_id
	`, s.tableRef(s.staging, LoadRunsTable))

	err := s.runQuery(ctx, sql,
		bigquery.QueryParameter{Name: "status", Value: "SUCCESS"},
		bigquery.QueryParameter{Name: "finished_ts", Value: time.Now()},
		bigquery.QueryParameter{Name: "raw_rows", Value: report.RawRows},
		bigquery.QueryParameter{Name: "dropped_rows", Value: report.DroppedRows},
		bigquery.QueryParameter{Name: "clean_rows", Value: report.CleanRows},
		bigquery.QueryParameter{Name: "product_rows", Value: report.ProductRows},
		bigquery.QueryParameter{Name: "customer_rows", Value: report.CustomerRows},
		bigquery.QueryParameter{Name: "date_rows", Value: report.DateRows},
		bigquery.QueryParameter{Name: "fact_rows", Value: report.FactRows},
		bigquery.QueryParameter{Name: "run_id", Value: runID},
	)
	if err != nil {
		return fmt.Errorf("FinishRun: %w", err)
	}
	return nil
}

// FailRun marks a load run FAILED. Best effort: the build has already
// failed, so errors here are only logged.
func (s *Store) FailRun(ctx context.Context, runID string, cause error) {
	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	sql := fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, s.tableRef(s.staging, LoadRunsTable))

	err := s.runQuery(ctx, sql,
		bigquery.QueryParameter{Name: "status", Value: "FAILED"},
		bigquery.QueryParameter{Name: "finished_ts", Value: time.Now()},
		bigquery.QueryParameter{Name: "error_message", Value: errMsg},
		bigquery.QueryParameter{Name: "run_id", Value: runID},
	)
	if err != nil {
		log.Printf("FailRun: updating run %s: %v", runID, err)
	}
}
