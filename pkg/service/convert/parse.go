package convert

import (
	"regexp"
	"strings"

	"github.com/valtio-lab/finsight/pkg/domain/model/query"
)

var (
	sqlBlockRe    = regexp.MustCompile("(?s)```sql\\s+(.+?)\\s+```")
	explanationRe = regexp.MustCompile(`(?s)Explanation:\s+(.+?)(?:\n\n|$)`)
)

// parseResponse extracts the SQL fragment and the explanation from the raw
// model text. A missing fenced block yields empty SQL, a missing
// Explanation section yields the default explanation. Malformed output is
// expected occasionally and never treated as an error.
func parseResponse(text string) *query.Result {
	out := &query.Result{Explanation: query.DefaultExplanation}

	if m := sqlBlockRe.FindStringSubmatch(text); m != nil {
		out.SQL = strings.TrimSpace(m[1])
	}
	if m := explanationRe.FindStringSubmatch(text); m != nil {
		out.Explanation = strings.TrimSpace(m[1])
	}

	return out
}
