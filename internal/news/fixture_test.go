package news

func testTaxonomy() Taxonomy {
	return Taxonomy{
		Domains: []string{"supply chain/ops", "sports analytics", "financial markets"},
		Include: []string{
			"supply chain", "logistics", "inventory", "trade policy", "tariff",
			"sports analytics", "betting", "nba",
			"federal reserve", "interest rate", "inflation", "earnings",
		},
		Exclude: []string{"celebrity", "kardashian", "royal family"},
		Explanations: []Explanation{
			{Keyword: "supply chain", Text: "Impacts logistics/inventory planning"},
			{Keyword: "logistics", Text: "Operational efficiency insights"},
			{Keyword: "trade policy", Text: "Affects global SC strategy"},
			{Keyword: "inventory", Text: "Relevant to ops optimization"},
			{Keyword: "sports analytics", Text: "New analytical methodology"},
			{Keyword: "betting", Text: "Model refinement opportunity"},
			{Keyword: "nba", Text: "Fantasy/analytics application"},
			{Keyword: "federal reserve", Text: "Macro environment shift"},
			{Keyword: "interest rate", Text: "Portfolio positioning relevant"},
			{Keyword: "inflation", Text: "Cost structure implications"},
		},
	}
}

type linkSet map[string]bool

func (s linkSet) Contains(link string) bool { return s[link] }
