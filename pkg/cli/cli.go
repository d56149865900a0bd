package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/valtio-lab/finsight/pkg/cli/config"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger
	var closer func()
	app := &cli.Command{
		Name:  "finsight",
		Usage: "Natural language querying for Finnish government budget data",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("base options", "logger", loggerCfg)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdAsk(),
			cmdSchema(),
			cmdValidate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("finsight failed", logging.ErrAttr(err))
		return err
	}

	return nil
}
