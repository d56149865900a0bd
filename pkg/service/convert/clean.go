package convert

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// quotedColumns are the column names containing non-ASCII letters that must
// be backtick quoted for BigQuery. Kept as an explicit list so a schema
// change is a one-line edit.
var quotedColumns = []string{
	"Käytettävissä",
	"Lisätalousarvio",
	"Nettokertymä",
	"Nettokertymä_ko_vuodelta",
	"Kirjanpitoyksikkö",
	"Loppusaldo",
	"Alkuperäinen_talousarvio",
	"Voimassaoleva_talousarvio",
}

// cleanSQL applies the two idempotent repair passes to model-produced SQL:
// strip redundant quoting around the table identifier, then ensure the
// special-character columns are consistently quoted.
func (x *Converter) cleanSQL(sql string) string {
	sql = unwrapTable(sql, x.table)
	return quoteColumns(sql, quotedColumns)
}

// unwrapTable strips backtick wrapping around the fully qualified table
// name. The prompt presents the name unquoted, so any wrapping comes from
// the model re-quoting it; all nested layers are removed.
func unwrapTable(sql, table string) string {
	if table == "" {
		return sql
	}
	wrapped := "`" + table + "`"
	for strings.Contains(sql, wrapped) {
		sql = strings.ReplaceAll(sql, wrapped, table)
	}
	return sql
}

// quoteColumns wraps each whole-word occurrence of the listed columns in
// backticks unless already wrapped. Occurrences bounded by a backtick, a
// letter, a digit or an underscore are left as is, so substrings of longer
// identifiers never match and a second run is a no-op.
func quoteColumns(sql string, columns []string) string {
	for _, col := range columns {
		sql = quoteColumn(sql, col)
	}
	return sql
}

func quoteColumn(sql, col string) string {
	var b strings.Builder
	for i := 0; i < len(sql); {
		j := strings.Index(sql[i:], col)
		if j < 0 {
			b.WriteString(sql[i:])
			break
		}
		j += i
		end := j + len(col)

		if boundaryBefore(sql[:j]) && boundaryAfter(sql[end:]) {
			b.WriteString(sql[i:j])
			b.WriteByte('`')
			b.WriteString(col)
			b.WriteByte('`')
		} else {
			b.WriteString(sql[i:end])
		}
		i = end
	}
	return b.String()
}

func boundaryBefore(prefix string) bool {
	if prefix == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(prefix)
	return !isIdentRune(r)
}

func boundaryAfter(suffix string) bool {
	if suffix == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(suffix)
	return !isIdentRune(r)
}

func isIdentRune(r rune) bool {
	return r == '`' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
