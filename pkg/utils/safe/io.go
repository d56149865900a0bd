package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

// Close closes the closer and logs the error instead of returning it. Meant
// for defer statements where the close error is not actionable.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}
