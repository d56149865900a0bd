package convert

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/valtio-lab/finsight/pkg/domain/model/errs"
	"github.com/valtio-lab/finsight/pkg/domain/model/query"
	"github.com/valtio-lab/finsight/pkg/service/schema"
	"github.com/valtio-lab/finsight/pkg/utils/logging"
)

// Converter translates natural language questions into BigQuery SQL for a
// single configured table. The table identifier and schema must be set via
// SetTableInfo before the first conversion; the converter itself performs no
// retries and no SQL execution.
type Converter struct {
	llm      gollem.LLMClient
	table    string
	fields   []schema.Field
	examples []Example

	structured bool
}

type Option func(*Converter)

// WithStructuredOutput switches the converter to the JSON response mode
// instead of free text parsing. Cleaning still applies to the SQL field.
func WithStructuredOutput() Option {
	return func(x *Converter) {
		x.structured = true
	}
}

// WithExamples replaces the default worked example set embedded in the
// prompt.
func WithExamples(examples []Example) Option {
	return func(x *Converter) {
		x.examples = examples
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) *Converter {
	x := &Converter{
		llm:      llmClient,
		examples: DefaultExamples,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// SetTableInfo sets the fully qualified table name (unquoted) and the
// ordered schema field list. Field order determines rendering order in the
// prompt.
func (x *Converter) SetTableInfo(table string, fields []schema.Field) {
	x.table = strings.ReplaceAll(table, "`", "")
	x.fields = fields
}

// Configured reports whether SetTableInfo has been called with usable data.
func (x *Converter) Configured() bool {
	return x.table != "" && len(x.fields) > 0
}

// Convert turns the question into SQL plus an explanation. It never returns
// an error: every failure state resolves to a result with empty SQL and a
// diagnostic explanation.
func (x *Converter) Convert(ctx context.Context, question string) *query.Result {
	logger := logging.From(ctx)

	if !x.Configured() {
		logger.Warn("conversion requested before table info was set")
		return query.Failure("Table information is not set. Call SetTableInfo first.")
	}

	prompt, err := x.buildPrompt(question)
	if err != nil {
		logger.Error("failed to build prompt", logging.ErrAttr(err))
		return query.Failure("Error generating SQL: " + err.Error())
	}

	var result *query.Result
	if x.structured {
		result, err = x.generateStructured(ctx, prompt)
	} else {
		result, err = x.generate(ctx, prompt)
	}
	if err != nil {
		logger.Error("failed to generate SQL", logging.ErrAttr(err), "question", question)
		return query.Failure("Error generating SQL: " + err.Error())
	}

	if result.SQL != "" {
		result.SQL = x.cleanSQL(result.SQL)
	}

	logger.Debug("conversion completed",
		"question", question,
		"has_sql", result.HasSQL(),
		"confidence", result.Confidence)

	return result
}

// generate runs the free text path: one session, one prompt, then regex
// extraction of the fenced SQL block and the Explanation section.
func (x *Converter) generate(ctx context.Context, prompt string) (*query.Result, error) {
	ssn, err := x.llm.NewSession(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session", goerr.T(errs.TagLLMError))
	}

	resp, err := ssn.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.T(errs.TagLLMError))
	}

	return parseResponse(strings.Join(resp.Texts, "\n")), nil
}
