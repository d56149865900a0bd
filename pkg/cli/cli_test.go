package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/valtio-lab/finsight/pkg/cli"
)

func TestRunHelp(t *testing.T) {
	gt.NoError(t, cli.Run(context.Background(), []string{"finsight", "--help"}))
}

func TestAskRequiresConfig(t *testing.T) {
	// Required flags (gemini-project-id, schema-config) are missing.
	err := cli.Run(context.Background(), []string{"finsight", "ask", "how much was spent?"})
	gt.Error(t, err)
}
