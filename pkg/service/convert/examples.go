package convert

// Example is one worked question/SQL pair embedded in the prompt as few-shot
// guidance. The SQL holds a %s placeholder for the fully qualified table
// name. Examples are static reference material anchoring the model's output
// format, not derived from the live schema.
type Example struct {
	Name     string
	Question string
	SQL      string
}

// DefaultExamples cover the three query patterns users ask most: a simple
// aggregation filtered by a dimension, a grouped aggregation with a derived
// quarter bucket, and a multi-year trend.
var DefaultExamples = []Example{
	{
		Name:     "filtered-aggregation",
		Question: "What was the military budget for 2022?",
		SQL: `SELECT
  SUM(Alkuperäinen_talousarvio) AS original_budget,
  SUM(Voimassaoleva_talousarvio) AS current_budget
FROM
  %s
WHERE
  Vuosi = 2022
  AND Ha_Tunnus = '26'`,
	},
	{
		Name:     "quarterly-grouping",
		Question: "Compare defense spending between 2022 and 2023 by quarter",
		SQL: `SELECT
  Vuosi AS year,
  CEIL(Kk/3) AS quarter,
  SUM(Voimassaoleva_talousarvio) AS budget,
  SUM(Nettokertymä) AS spending
FROM
  %s
WHERE
  Vuosi IN (2022, 2023)
  AND Ha_Tunnus = '26'
GROUP BY
  year, quarter
ORDER BY
  year, quarter`,
	},
	{
		Name:     "multi-year-trend",
		Question: "What has been the development of the military budget during 2020-2023?",
		SQL: `SELECT
  Vuosi AS year,
  SUM(Alkuperäinen_talousarvio) AS original_budget,
  SUM(Voimassaoleva_talousarvio) AS current_budget,
  SUM(Nettokertymä) AS spending
FROM
  %s
WHERE
  Vuosi BETWEEN 2020 AND 2023
  AND Ha_Tunnus = '26'
GROUP BY
  year
ORDER BY
  year`,
	},
}
