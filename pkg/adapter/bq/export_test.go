package bq

import (
	"cloud.google.com/go/bigquery"
	"github.com/valtio-lab/finsight/pkg/service/schema"
)

// Expose internals for testing.

var EstimateCostUSD = estimateCostUSD

func FlattenSchema(s bigquery.Schema, prefix string) []schema.Field {
	return flattenSchema(s, prefix)
}
