package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/valtio-lab/finsight/pkg/service/llm"
)

type answer struct {
	SQL         string `json:"sql"`
	Explanation string `json:"explanation"`
}

func newMockClient(responses []string) (gollem.LLMClient, *int) {
	calls := new(int)
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					idx := *calls
					*calls++
					if idx >= len(responses) {
						idx = len(responses) - 1
					}
					return &gollem.Response{Texts: []string{responses[idx]}}, nil
				},
			}, nil
		},
	}, calls
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("valid JSON on first attempt", func(t *testing.T) {
		client, calls := newMockClient([]string{`{"sql":"SELECT 1","explanation":"trivial"}`})

		resp := gt.R1(llm.Ask[answer](ctx, client, "prompt")).NoError(t)
		gt.V(t, resp.SQL).Equal("SELECT 1")
		gt.V(t, resp.Explanation).Equal("trivial")
		gt.N(t, *calls).Equal(1)
	})

	t.Run("retries on malformed JSON", func(t *testing.T) {
		client, calls := newMockClient([]string{
			"not json at all",
			`{"sql":"SELECT 2","explanation":"second try"}`,
		})

		resp := gt.R1(llm.Ask[answer](ctx, client, "prompt")).NoError(t)
		gt.V(t, resp.SQL).Equal("SELECT 2")
		gt.N(t, *calls).Equal(2)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		client, calls := newMockClient([]string{"broken"})

		_, err := llm.Ask[answer](ctx, client, "prompt", llm.WithMaxRetry[answer](2))
		gt.Error(t, err)
		gt.N(t, *calls).Equal(2)
	})

	t.Run("validate hook rejects response", func(t *testing.T) {
		client, _ := newMockClient([]string{
			`{"sql":"","explanation":"missing sql"}`,
			`{"sql":"SELECT 3","explanation":"ok"}`,
		})

		resp := gt.R1(llm.Ask[answer](ctx, client, "prompt",
			llm.WithValidate[answer](func(v answer) error {
				if v.SQL == "" {
					return errors.New("sql is required")
				}
				return nil
			}))).NoError(t)
		gt.V(t, resp.SQL).Equal("SELECT 3")
	})
}
