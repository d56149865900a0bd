package llm

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/valtio-lab/finsight/pkg/domain/model/errs"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

type askConfig[T any] struct {
	maxRetry    int
	retryPrompt func(ctx context.Context, err error) string
	validate    func(v T) error
}

type AskOption[T any] func(*askConfig[T])

func WithMaxRetry[T any](maxRetry int) AskOption[T] {
	return func(c *askConfig[T]) {
		c.maxRetry = maxRetry
	}
}

func WithRetryPrompt[T any](f func(ctx context.Context, err error) string) AskOption[T] {
	return func(c *askConfig[T]) {
		c.retryPrompt = f
	}
}

func WithValidate[T any](f func(v T) error) AskOption[T] {
	return func(c *askConfig[T]) {
		c.validate = f
	}
}

// Ask sends the prompt in a JSON-mode session and unmarshals the response
// into T. Responses that are empty, malformed, or rejected by the validate
// hook are retried up to maxRetry times with a corrective prompt.
func Ask[T any](ctx context.Context, llm gollem.LLMClient, prompt string, opts ...AskOption[T]) (*T, error) {
	logger := logging.From(ctx)

	config := &askConfig[T]{
		maxRetry: 3,
		retryPrompt: func(ctx context.Context, err error) string {
			return "Invalid response. Please try again: " + err.Error()
		},
	}
	for _, opt := range opts {
		opt(config)
	}

	ssn, err := llm.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session", goerr.T(errs.TagLLMError))
	}

	var response *T
	for i := 0; i < config.maxRetry && response == nil; i++ {
		resp, err := ssn.GenerateContent(ctx, gollem.Text(prompt))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to send message", goerr.T(errs.TagLLMError))
		}

		if len(resp.Texts) == 0 || resp.Texts[0] == "" {
			logger.Debug("empty response from LLM", "attempt", i+1, "max_retry", config.maxRetry)
			prompt = config.retryPrompt(ctx, goerr.New("empty response"))
			continue
		}

		text := resp.Texts[0]

		var result T
		if err := json.Unmarshal([]byte(text), &result); err != nil {
			logger.Debug("failed to unmarshal text", "text", text, "error", err,
				"attempt", i+1, "max_retry", config.maxRetry)
			prompt = config.retryPrompt(ctx, err)
			continue
		}

		if config.validate != nil {
			if err := config.validate(result); err != nil {
				logger.Debug("invalid response from LLM",
					"result", result,
					"text", text,
					"attempt", i+1,
					"max_retry", config.maxRetry)
				prompt = config.retryPrompt(ctx, err)
				continue
			}
		}

		response = &result
	}

	if response == nil {
		return nil, goerr.New("failed to get valid response from LLM", goerr.T(errs.TagInvalidLLMResponse))
	}

	return response, nil
}
