package convert

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/valtio-lab/finsight/pkg/domain/model/query"
	"github.com/valtio-lab/finsight/pkg/service/llm"
)

type structuredResponse struct {
	SQL         string   `json:"sql"`
	Explanation string   `json:"explanation"`
	Confidence  float64  `json:"confidence"`
	Assumptions []string `json:"assumptions"`
}

// generateStructured runs the JSON response mode: the model is constrained
// to a fixed output shape, removing the need for regex extraction. It is a
// drop-in replacement for the extraction steps only; cleaning still applies
// to the SQL field.
func (x *Converter) generateStructured(ctx context.Context, prompt string) (*query.Result, error) {
	resp, err := llm.Ask[structuredResponse](ctx, x.llm, prompt,
		llm.WithValidate[structuredResponse](func(v structuredResponse) error {
			if v.SQL == "" && v.Explanation == "" {
				return goerr.New("response carries neither sql nor explanation")
			}
			return nil
		}))
	if err != nil {
		return nil, err
	}

	out := &query.Result{
		SQL:         strings.TrimSpace(resp.SQL),
		Explanation: strings.TrimSpace(resp.Explanation),
		Confidence:  resp.Confidence,
		Assumptions: resp.Assumptions,
	}
	if out.Explanation == "" {
		out.Explanation = query.DefaultExplanation
	}

	return out, nil
}
