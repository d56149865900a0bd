package errs

import "github.com/m-mizutani/goerr/v2"

var (
	TagNotConfigured = goerr.NewTag("not_configured")
	TagValidation    = goerr.NewTag("validation")

	TagLLMError           = goerr.NewTag("llm_error")
	TagInvalidLLMResponse = goerr.NewTag("invalid_llm_response")
	TagBigQueryError      = goerr.NewTag("bigquery_error")
)
