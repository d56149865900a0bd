package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"github.com/valtio-lab/finsight/pkg/adapter/bq"
	"github.com/valtio-lab/finsight/pkg/service/schema"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

type BigQueryCfg struct {
	projectID        string
	schemaPath       string
	scanSizeLimitStr string
	queryTimeout     time.Duration
}

func (x *BigQueryCfg) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "Google Cloud Project ID for BigQuery operations",
			Destination: &x.projectID,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("FINSIGHT_BIGQUERY_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "schema-config",
			Usage:       "Path to the table schema configuration file (YAML)",
			Required:    true,
			Destination: &x.schemaPath,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("FINSIGHT_SCHEMA_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "scan-size-limit",
			Usage:       "Maximum scan size for BigQuery queries (e.g. '10GB', '1TB')",
			Value:       "10GB",
			Destination: &x.scanSizeLimitStr,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("FINSIGHT_SCAN_SIZE_LIMIT"),
		},
		&cli.DurationFlag{
			Name:        "query-timeout",
			Usage:       "Timeout for waiting for BigQuery job completion",
			Value:       5 * time.Minute,
			Destination: &x.queryTimeout,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("FINSIGHT_QUERY_TIMEOUT"),
		},
	}
}

func (x BigQueryCfg) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("schema_config", x.schemaPath),
		slog.String("scan_size_limit", x.scanSizeLimitStr),
		slog.Duration("query_timeout", x.queryTimeout),
	)
}

// LoadSchema loads and validates the table schema configuration.
func (x *BigQueryCfg) LoadSchema() (*schema.Config, error) {
	return schema.Load(x.schemaPath)
}

// ProjectID returns the BigQuery project, falling back to the schema
// config's table project when the flag is not set.
func (x *BigQueryCfg) ProjectID(cfg *schema.Config) string {
	if x.projectID != "" {
		return x.projectID
	}
	if cfg != nil {
		return cfg.Table.ProjectID
	}
	return ""
}

// Configure creates the BigQuery client with the configured limits.
func (x *BigQueryCfg) Configure(ctx context.Context, projectID string) (*bq.Client, error) {
	limit, err := bq.ParseScanSizeLimit(x.scanSizeLimitStr)
	if err != nil {
		return nil, err
	}

	opts := []bq.Option{
		bq.WithQueryTimeout(x.queryTimeout),
	}
	if limit > 0 {
		opts = append(opts, bq.WithScanSizeLimit(limit))
	}

	client, err := bq.New(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Debug("BigQuery client configured",
		"project_id", projectID,
		"scan_limit", humanize.Bytes(limit))

	return client, nil
}
