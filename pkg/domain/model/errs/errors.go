package errs

import "errors"

// ErrScanLimitExceeded is returned when a dry run estimates that a query
// would scan more bytes than the configured limit allows.
var ErrScanLimitExceeded = errors.New("estimated scan size exceeds the configured limit")
