package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/valtio-lab/finsight/pkg/cli/config"
	"github.com/valtio-lab/finsight/pkg/service/convert"
	"github.com/valtio-lab/finsight/pkg/usecase"
	"github.com/valtio-lab/finsight/pkg/utils/safe"
)

func cmdAsk() *cli.Command {
	var (
		geminiCfg  config.GeminiCfg
		bqCfg      config.BigQueryCfg
		structured bool
		execute    bool
		maxRows    int64
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "structured",
			Usage:       "Use the JSON structured output mode instead of free text parsing",
			Destination: &structured,
			Sources:     cli.EnvVars("FINSIGHT_STRUCTURED_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "execute",
			Aliases:     []string{"x"},
			Usage:       "Execute the generated SQL against BigQuery and print the rows",
			Destination: &execute,
		},
		&cli.Int64Flag{
			Name:        "max-rows",
			Usage:       "Maximum number of rows to print when executing",
			Value:       100,
			Destination: &maxRows,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, bqCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Convert a natural language question into BigQuery SQL",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			schemaCfg, err := bqCfg.LoadSchema()
			if err != nil {
				return err
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return err
			}

			var convOpts []convert.Option
			if structured {
				convOpts = append(convOpts, convert.WithStructuredOutput())
			}
			conv := convert.New(llmClient, convOpts...)
			conv.SetTableInfo(schemaCfg.Table.FQN(), schemaCfg.Fields)

			var ucOpts []usecase.Option
			if execute {
				bqClient, err := bqCfg.Configure(ctx, bqCfg.ProjectID(schemaCfg))
				if err != nil {
					return err
				}
				defer safe.Close(ctx, bqClient)
				ucOpts = append(ucOpts, usecase.WithBigQuery(bqClient))
			}
			uc := usecase.New(conv, ucOpts...)

			result := uc.Ask(ctx, question)
			if !result.HasSQL() {
				fmt.Fprintln(os.Stdout, result.Explanation)
				return nil
			}

			fmt.Fprintf(os.Stdout, "SQL:\n%s\n\nExplanation:\n%s\n", result.SQL, result.Explanation)
			if len(result.Assumptions) > 0 {
				fmt.Fprintln(os.Stdout, "\nAssumptions:")
				for _, a := range result.Assumptions {
					fmt.Fprintf(os.Stdout, "- %s\n", a)
				}
			}

			if !execute {
				return nil
			}

			stats, rows, err := uc.Execute(ctx, result.SQL, int(maxRows))
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "\nScanned: %s (est. $%.4f)\n",
				humanize.Bytes(uint64(stats.TotalBytesProcessed)), // #nosec G115 - never negative
				stats.EstimatedCostUSD)

			enc := json.NewEncoder(os.Stdout)
			for _, row := range rows {
				if err := enc.Encode(row); err != nil {
					return goerr.Wrap(err, "failed to encode row")
				}
			}

			return nil
		},
	}
}
