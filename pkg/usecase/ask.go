package usecase

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/valtio-lab/finsight/pkg/adapter/bq"
	"github.com/valtio-lab/finsight/pkg/domain/model/errs"
	"github.com/valtio-lab/finsight/pkg/domain/model/query"
	"github.com/valtio-lab/finsight/pkg/service/convert"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

// UseCases ties the converter to the optional BigQuery execution
// collaborator. Conversion alone needs no BigQuery access.
type UseCases struct {
	converter *convert.Converter
	bqClient  *bq.Client
}

type Option func(*UseCases)

// WithBigQuery enables dry-run validation and execution of generated SQL.
func WithBigQuery(client *bq.Client) Option {
	return func(uc *UseCases) {
		uc.bqClient = client
	}
}

func New(converter *convert.Converter, opts ...Option) *UseCases {
	uc := &UseCases{converter: converter}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Ask converts a free text question into SQL plus explanation. Failures are
// reported inside the result, never as an error.
func (uc *UseCases) Ask(ctx context.Context, question string) *query.Result {
	return uc.converter.Convert(ctx, question)
}

// Validate dry-runs the SQL and returns scan size and cost estimates. The
// configured scan limit is enforced here.
func (uc *UseCases) Validate(ctx context.Context, sql string) (*bq.QueryStats, error) {
	if uc.bqClient == nil {
		return nil, goerr.New("BigQuery client is not configured", goerr.T(errs.TagNotConfigured))
	}
	return uc.bqClient.DryRun(ctx, sql)
}

// Execute dry-runs the SQL first, then runs it and returns up to maxRows
// rows. A query rejected by the dry run is never executed.
func (uc *UseCases) Execute(ctx context.Context, sql string, maxRows int) (*bq.QueryStats, []map[string]bigquery.Value, error) {
	stats, err := uc.Validate(ctx, sql)
	if err != nil {
		return stats, nil, err
	}

	logging.From(ctx).Debug("executing validated query",
		"bytes_estimated", stats.TotalBytesProcessed,
		"estimated_cost_usd", stats.EstimatedCostUSD)

	rows, err := uc.bqClient.Query(ctx, sql, maxRows)
	if err != nil {
		return stats, nil, err
	}

	return stats, rows, nil
}
