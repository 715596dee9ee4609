package resume

import (
	"regexp"
	"sort"
	"strings"
)

// Vocabulary is the fixed list of skills recognized in resumes.
var Vocabulary = []string{
	"Python", "Java", "JavaScript", "TypeScript", "React", "Node.js", "AWS", "Azure",
	"ML", "Machine Learning", "AI", "Data Science", "SQL", "MongoDB", "GraphQL",
	"Full Stack", "Frontend", "Backend", "DevOps", "Cloud", "Docker", "Kubernetes",
	"UI/UX", "Design", "Figma", "Swift", "iOS", "Android", "Mobile", "Web",
	"C++", "C#", "Go", "Rust", "Ruby", "PHP", "Django", "Flask", "Spring",
	"Angular", "Vue", "Next.js", "Express", "PostgreSQL", "Redis", "Git",
	"HTML", "CSS", "Linux", "TensorFlow", "PyTorch", "Pandas", "Kotlin", "Excel",
}

// Tokens this short are only matched as whole words.
const shortToken = 3

type matcher struct {
	skill string
	lower string
	word  *regexp.Regexp
}

var matchers = compile(Vocabulary)

func compile(vocabulary []string) []matcher {
	out := make([]matcher, 0, len(vocabulary))
	for _, skill := range vocabulary {
		m := matcher{skill: skill, lower: strings.ToLower(skill)}
		if len([]rune(skill)) <= shortToken {
			m.word = regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(skill) + `($|[^a-z0-9])`)
		}
		out = append(out, m)
	}
	return out
}

// MatchSkills returns the vocabulary entries found in text, deduplicated and
// sorted alphabetically.
func MatchSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	skills := make([]string, 0)

	for _, m := range matchers {
		var found bool
		if m.word != nil {
			found = m.word.MatchString(text)
		} else {
			found = strings.Contains(lower, m.lower)
		}
		if !found {
			continue
		}
		if _, ok := seen[m.lower]; ok {
			continue
		}
		seen[m.lower] = struct{}{}
		skills = append(skills, m.skill)
	}

	sort.Slice(skills, func(i, j int) bool {
		a, b := strings.ToLower(skills[i]), strings.ToLower(skills[j])
		if a != b {
			return a < b
		}
		return skills[i] < skills[j]
	})
	return skills
}
