package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/valtio-lab/finsight/pkg/cli/config"
	"github.com/valtio-lab/finsight/pkg/utils/safe"
)

func cmdValidate() *cli.Command {
	var (
		bqCfg   config.BigQueryCfg
		sqlFile string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "sql-file",
			Usage:       "Read the SQL to validate from a file instead of arguments",
			Destination: &sqlFile,
		},
	}
	flags = append(flags, bqCfg.Flags()...)

	return &cli.Command{
		Name:      "validate",
		Usage:     "Dry-run a SQL query and report its estimated scan size and cost",
		ArgsUsage: "<sql>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sql := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if sqlFile != "" {
				data, err := os.ReadFile(filepath.Clean(sqlFile))
				if err != nil {
					return goerr.Wrap(err, "failed to read SQL file", goerr.V("path", sqlFile))
				}
				sql = strings.TrimSpace(string(data))
			}
			if sql == "" {
				return goerr.New("SQL is required (argument or --sql-file)")
			}

			schemaCfg, err := bqCfg.LoadSchema()
			if err != nil {
				return err
			}

			bqClient, err := bqCfg.Configure(ctx, bqCfg.ProjectID(schemaCfg))
			if err != nil {
				return err
			}
			defer safe.Close(ctx, bqClient)

			stats, err := bqClient.DryRun(ctx, sql)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Valid. Estimated scan: %s (est. $%.4f, cache hit: %v)\n",
				humanize.Bytes(uint64(stats.TotalBytesProcessed)), // #nosec G115 - never negative
				stats.EstimatedCostUSD,
				stats.CacheHit)

			return nil
		},
	}
}
