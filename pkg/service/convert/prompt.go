package convert

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/valtio-lab/finsight/pkg/service/schema"
)

//go:embed prompt/nl_to_sql.md
var promptTmplRaw string

var promptTmpl = template.Must(template.New("nl_to_sql").Parse(promptTmplRaw))

type promptExample struct {
	Question string
	SQL      string
}

type promptData struct {
	Table      string
	Listing    string
	Examples   []promptExample
	Question   string
	Structured bool
}

// buildPrompt assembles the model instruction from the schema listing, the
// worked examples and the user's question. Pure function of the converter's
// session data; the question is interpolated as-is.
func (x *Converter) buildPrompt(question string) (string, error) {
	examples := make([]promptExample, 0, len(x.examples))
	for _, ex := range x.examples {
		examples = append(examples, promptExample{
			Question: ex.Question,
			SQL:      fmt.Sprintf(ex.SQL, x.table),
		})
	}

	data := promptData{
		Table:      x.table,
		Listing:    fieldListing(x.fields),
		Examples:   examples,
		Question:   question,
		Structured: x.structured,
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template")
	}

	return buf.String(), nil
}

func fieldListing(fields []schema.Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.PromptLine())
	}
	return strings.Join(lines, "\n")
}
