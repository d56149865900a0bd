package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/valtio-lab/finsight/pkg/cli/config"
	"github.com/valtio-lab/finsight/pkg/service/schema"
	"github.com/valtio-lab/finsight/pkg/utils/safe"
	"gopkg.in/yaml.v3"
)

func cmdSchema() *cli.Command {
	var (
		bqCfg  config.BigQueryCfg
		remote bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "remote",
			Usage:       "Fetch the live schema from BigQuery instead of rendering the config",
			Destination: &remote,
		},
	}
	flags = append(flags, bqCfg.Flags()...)

	return &cli.Command{
		Name:  "schema",
		Usage: "Show the table schema the converter works against",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			schemaCfg, err := bqCfg.LoadSchema()
			if err != nil {
				return err
			}

			if !remote {
				fmt.Fprintf(os.Stdout, "Table: %s\n\n%s\n", schemaCfg.Table.FQN(), schemaCfg.Listing())
				return nil
			}

			bqClient, err := bqCfg.Configure(ctx, bqCfg.ProjectID(schemaCfg))
			if err != nil {
				return err
			}
			defer safe.Close(ctx, bqClient)

			fields, err := bqClient.FetchSchema(ctx, schemaCfg.Table.DatasetID, schemaCfg.Table.TableID)
			if err != nil {
				return err
			}

			out := schema.Config{Table: schemaCfg.Table, Fields: fields}
			return yaml.NewEncoder(os.Stdout).Encode(out)
		},
	}
}
