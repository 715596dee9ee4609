package jobs

import "strings"

type expansion struct {
	key   string
	terms string
}

// Order matters: terms are appended in table order.
var expansions = []expansion{
	{key: "frontend", terms: "react developer, javascript developer, ui engineer"},
	{key: "backend", terms: "api developer, node.js developer, server engineer"},
	{key: "fullstack", terms: "full stack developer, web developer, mern stack"},
	{key: "python", terms: "django developer, python engineer, data engineer"},
	{key: "java", terms: "spring boot developer, java engineer, j2ee developer"},
	{key: "data scientist", terms: "machine learning engineer, data analyst, ai engineer"},
	{key: "mobile", terms: "android developer, ios developer, react native developer"},
}

// Plan expands a query into ordered search terms. The first term is always the
// query itself.
func Plan(query string) []string {
	terms := []string{query}
	lower := strings.ToLower(query)
	for _, e := range expansions {
		if strings.Contains(lower, e.key) {
			terms = append(terms, query+", "+e.terms)
		}
	}
	return terms
}
