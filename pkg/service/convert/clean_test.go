package convert_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/valtio-lab/finsight/pkg/service/convert"
)

func TestQuoteColumns(t *testing.T) {
	cols := convert.QuotedColumns

	t.Run("unwrapped column gets wrapped exactly once", func(t *testing.T) {
		sql := "SELECT SUM(Nettokertymä) FROM t WHERE Vuosi = 2023"
		got := convert.QuoteColumns(sql, cols)
		gt.V(t, got).Equal("SELECT SUM(`Nettokertymä`) FROM t WHERE Vuosi = 2023")
	})

	t.Run("already wrapped column is unchanged", func(t *testing.T) {
		sql := "SELECT SUM(`Nettokertymä`) FROM t"
		gt.V(t, convert.QuoteColumns(sql, cols)).Equal(sql)
	})

	t.Run("running twice equals running once", func(t *testing.T) {
		sql := "SELECT Loppusaldo, SUM(Nettokertymä), `Käytettävissä` FROM t"
		once := convert.QuoteColumns(sql, cols)
		twice := convert.QuoteColumns(once, cols)
		gt.V(t, twice).Equal(once)
	})

	t.Run("substring of a longer identifier is untouched", func(t *testing.T) {
		sql := "SELECT Loppusaldo_adjusted, KonsLoppusaldo FROM t"
		gt.V(t, convert.QuoteColumns(sql, cols)).Equal(sql)
	})

	t.Run("short name inside a longer listed name is not double wrapped", func(t *testing.T) {
		sql := "SELECT Nettokertymä_ko_vuodelta FROM t"
		got := convert.QuoteColumns(sql, cols)
		gt.V(t, got).Equal("SELECT `Nettokertymä_ko_vuodelta` FROM t")
	})

	t.Run("multiple occurrences in one statement", func(t *testing.T) {
		sql := "SELECT Nettokertymä, Nettokertymä FROM t"
		got := convert.QuoteColumns(sql, cols)
		gt.V(t, got).Equal("SELECT `Nettokertymä`, `Nettokertymä` FROM t")
	})

	t.Run("column at start and end of string", func(t *testing.T) {
		got := convert.QuoteColumns("Nettokertymä", cols)
		gt.V(t, got).Equal("`Nettokertymä`")
	})
}

func TestUnwrapTable(t *testing.T) {
	const table = "proj.dataset.budget_transactions"

	t.Run("one wrapping layer is removed", func(t *testing.T) {
		sql := "SELECT * FROM `" + table + "` WHERE Vuosi = 2023"
		got := convert.UnwrapTable(sql, table)
		gt.V(t, got).Equal("SELECT * FROM " + table + " WHERE Vuosi = 2023")
	})

	t.Run("nested wrapping layers are all removed", func(t *testing.T) {
		sql := "SELECT * FROM ``" + table + "``"
		got := convert.UnwrapTable(sql, table)
		gt.V(t, got).Equal("SELECT * FROM " + table)
	})

	t.Run("unwrapped identifier is a no-op", func(t *testing.T) {
		sql := "SELECT * FROM " + table
		gt.V(t, convert.UnwrapTable(sql, table)).Equal(sql)
	})

	t.Run("empty table is a no-op", func(t *testing.T) {
		sql := "SELECT 1"
		gt.V(t, convert.UnwrapTable(sql, "")).Equal(sql)
	})
}
