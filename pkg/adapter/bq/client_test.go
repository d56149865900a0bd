package bq_test

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/gt"
	"github.com/valtio-lab/finsight/pkg/adapter/bq"
)

func TestParseScanSizeLimit(t *testing.T) {
	t.Run("valid sizes", func(t *testing.T) {
		gt.V(t, gt.R1(bq.ParseScanSizeLimit("10GB")).NoError(t)).Equal(uint64(10_000_000_000))
		gt.V(t, gt.R1(bq.ParseScanSizeLimit("1MiB")).NoError(t)).Equal(uint64(1048576))
	})

	t.Run("empty means no limit", func(t *testing.T) {
		gt.V(t, gt.R1(bq.ParseScanSizeLimit("")).NoError(t)).Equal(uint64(0))
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := bq.ParseScanSizeLimit("lots")
		gt.Error(t, err)
	})
}

func TestEstimateCostUSD(t *testing.T) {
	gt.N(t, bq.EstimateCostUSD(0)).Equal(0.0)
	gt.N(t, bq.EstimateCostUSD(1<<40)).Equal(5.0)  // 1 TiB
	gt.N(t, bq.EstimateCostUSD(1<<39)).Equal(2.5)  // 512 GiB
}

func TestFlattenSchema(t *testing.T) {
	s := bigquery.Schema{
		{Name: "Vuosi", Type: bigquery.IntegerFieldType, Required: true, Description: "Budget year"},
		{Name: "Nettokertymä", Type: bigquery.FloatFieldType},
		{Name: "Momentti", Type: bigquery.RecordFieldType, Schema: bigquery.Schema{
			{Name: "Tunnus", Type: bigquery.StringFieldType},
			{Name: "Nimi", Type: bigquery.StringFieldType, Repeated: true},
		}},
	}

	fields := bq.FlattenSchema(s, "")

	gt.A(t, fields).Length(5)
	gt.V(t, fields[0].Name).Equal("Vuosi")
	gt.V(t, fields[0].Type).Equal("INTEGER")
	gt.V(t, fields[0].Mode).Equal("REQUIRED")
	gt.V(t, fields[0].Description).Equal("Budget year")
	gt.V(t, fields[1].Name).Equal("Nettokertymä")
	gt.V(t, fields[2].Name).Equal("Momentti")
	gt.V(t, fields[3].Name).Equal("Momentti.Tunnus")
	gt.V(t, fields[4].Name).Equal("Momentti.Nimi")
	gt.V(t, fields[4].Mode).Equal("REPEATED")
}

// Integration test against a real BigQuery project. Set
// TEST_BIGQUERY_PROJECT_ID (and optionally TEST_BIGQUERY_DATASET_ID /
// TEST_BIGQUERY_TABLE_ID) to run.
func TestClientIntegration(t *testing.T) {
	projectID := os.Getenv("TEST_BIGQUERY_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_BIGQUERY_PROJECT_ID is not set")
	}

	ctx := context.Background()
	client := gt.R1(bq.New(ctx, projectID, bq.WithScanSizeLimit(1_000_000_000))).NoError(t)
	defer client.Close()

	t.Run("dry run", func(t *testing.T) {
		stats := gt.R1(client.DryRun(ctx, "SELECT 1")).NoError(t)
		gt.N(t, stats.TotalBytesProcessed).GreaterOrEqual(0)
	})

	t.Run("query", func(t *testing.T) {
		rows := gt.R1(client.Query(ctx, "SELECT 1 AS one", 10)).NoError(t)
		gt.A(t, rows).Length(1)
	})

	datasetID := os.Getenv("TEST_BIGQUERY_DATASET_ID")
	tableID := os.Getenv("TEST_BIGQUERY_TABLE_ID")
	if datasetID != "" && tableID != "" {
		t.Run("fetch schema", func(t *testing.T) {
			fields := gt.R1(client.FetchSchema(ctx, datasetID, tableID)).NoError(t)
			gt.N(t, len(fields)).Greater(0)
		})
	}
}
