package bq

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/valtio-lab/finsight/pkg/domain/model/errs"
	"github.com/valtio-lab/finsight/pkg/service/schema"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
	"google.golang.org/api/iterator"
)

const defaultMaxRows = 1000

// Client wraps the BigQuery SDK client with the operations this system
// needs: schema fetch, dry-run cost estimation and query execution.
type Client struct {
	bq        *bigquery.Client
	scanLimit uint64
	timeout   time.Duration
}

type Option func(*Client)

// WithScanSizeLimit caps the bytes a query may scan. Enforced at dry run
// time and via MaxBytesBilled on execution.
func WithScanSizeLimit(limit uint64) Option {
	return func(c *Client) {
		c.scanLimit = limit
	}
}

func WithQueryTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Client, error) {
	if projectID == "" {
		return nil, goerr.New("BigQuery project ID is required", goerr.T(errs.TagValidation))
	}

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client",
			goerr.T(errs.TagBigQueryError),
			goerr.V("project_id", projectID))
	}

	c := &Client{
		bq:      client,
		timeout: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Close() error {
	return c.bq.Close()
}

// ParseScanSizeLimit parses a human-readable size string (e.g. "10GB") into
// bytes. An empty string means no limit.
func ParseScanSizeLimit(sizeStr string) (uint64, error) {
	if sizeStr == "" {
		return 0, nil
	}

	bytes, err := humanize.ParseBytes(sizeStr)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to parse scan size limit", goerr.V("size_str", sizeStr))
	}

	return bytes, nil
}

// QueryStats is the outcome of a dry run.
type QueryStats struct {
	TotalBytesProcessed int64
	EstimatedCostUSD    float64
	CacheHit            bool
}

// DryRun estimates the scan size of the query without executing it and
// enforces the configured scan size limit.
func (c *Client) DryRun(ctx context.Context, sql string) (*QueryStats, error) {
	q := c.bq.Query(sql)
	q.DryRun = true
	q.DisableQueryCache = true

	job, err := q.Run(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to dry-run query",
			goerr.T(errs.TagBigQueryError),
			goerr.V("sql", sql))
	}

	stats := &QueryStats{}
	if status := job.LastStatus(); status != nil && status.Statistics != nil {
		stats.TotalBytesProcessed = status.Statistics.TotalBytesProcessed
		if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
			stats.CacheHit = qs.CacheHit
		}
	}
	stats.EstimatedCostUSD = estimateCostUSD(stats.TotalBytesProcessed)

	if c.scanLimit > 0 && uint64(stats.TotalBytesProcessed) > c.scanLimit {
		return stats, goerr.Wrap(errs.ErrScanLimitExceeded, "query rejected by dry run",
			goerr.T(errs.TagValidation),
			goerr.V("estimated", humanize.Bytes(uint64(stats.TotalBytesProcessed))),
			goerr.V("limit", humanize.Bytes(c.scanLimit)))
	}

	return stats, nil
}

// On-demand pricing, roughly $5 per TiB scanned.
func estimateCostUSD(bytesProcessed int64) float64 {
	return float64(bytesProcessed) / float64(1<<40) * 5.0
}

// Query executes the SQL and returns up to maxRows rows as generic value
// maps. The configured scan limit is applied as MaxBytesBilled.
func (c *Client) Query(ctx context.Context, sql string, maxRows int) ([]map[string]bigquery.Value, error) {
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := c.bq.Query(sql)
	if c.scanLimit > 0 {
		q.MaxBytesBilled = int64(c.scanLimit) // #nosec G115 - scan limits are far below int64 max
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to execute query",
			goerr.T(errs.TagBigQueryError),
			goerr.V("sql", sql))
	}

	var rows []map[string]bigquery.Value
	for len(rows) < maxRows {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read query results",
				goerr.T(errs.TagBigQueryError))
		}
		rows = append(rows, row)
	}

	logging.From(ctx).Info("query executed",
		"rows", len(rows),
		"truncated", len(rows) == maxRows)

	return rows, nil
}

// FetchSchema reads the table metadata and returns its fields in schema
// order. Nested RECORD fields are flattened with dotted names.
func (c *Client) FetchSchema(ctx context.Context, datasetID, tableID string) ([]schema.Field, error) {
	md, err := c.bq.Dataset(datasetID).Table(tableID).Metadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch table metadata",
			goerr.T(errs.TagBigQueryError),
			goerr.V("dataset_id", datasetID),
			goerr.V("table_id", tableID))
	}

	return flattenSchema(md.Schema, ""), nil
}

func flattenSchema(s bigquery.Schema, prefix string) []schema.Field {
	var fields []schema.Field

	for _, f := range s {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}

		mode := ""
		switch {
		case f.Repeated:
			mode = "REPEATED"
		case f.Required:
			mode = "REQUIRED"
		}

		fields = append(fields, schema.Field{
			Name:        name,
			Type:        string(f.Type),
			Mode:        mode,
			Description: f.Description,
		})

		if f.Type == bigquery.RecordFieldType {
			fields = append(fields, flattenSchema(f.Schema, name)...)
		}
	}

	return fields
}
