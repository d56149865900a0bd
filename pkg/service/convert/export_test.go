package convert

// Expose internals for testing.

var (
	ParseResponse = parseResponse
	UnwrapTable   = unwrapTable
	QuoteColumns  = quoteColumns
	QuotedColumns = quotedColumns
)

func (x *Converter) BuildPrompt(question string) (string, error) {
	return x.buildPrompt(question)
}

func (x *Converter) CleanSQL(sql string) string {
	return x.cleanSQL(sql)
}
