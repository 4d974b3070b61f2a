// Package cli holds terminal helpers shared by the wallsafe commands.
package cli

import "strings"

// MatchName resolves a case-insensitive, possibly abbreviated name against
// candidates. An exact match always wins over prefix matches. kind names
// the candidates in errors ("filter", "keyword").
func MatchName(kind, prefix string, candidates []string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(prefix))

	var matches []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == want {
			return c, nil
		}
		if want != "" && strings.HasPrefix(lc, want) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Type: kind, Name: prefix}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Type: kind, Prefix: prefix, Matches: matches}
	}
}
