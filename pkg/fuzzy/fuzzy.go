// Package fuzzy resolves user-typed names against entity display names.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
)

// Normalize case-folds s and drops everything that is not a letter or digit.
func Normalize(s string) string {
	folded := cases.Fold().String(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score rates how close candidate is to query, between 0 and 1. Both inputs
// are expected to be normalized already. An exact match scores 1.
func Score(query, candidate string) float64 {
	if query == candidate {
		return 1
	}
	return levenshtein.Match(query, candidate, nil)
}

// Candidate is a named entity that can be matched.
type Candidate struct {
	ID   string
	Name string
}

// Match is a candidate that qualified for a query.
type Match struct {
	Candidate
	Normalized string
	Score      float64
}

// Rank returns the candidates whose normalized name starts with or contains
// the normalized query, best score first. Equal scores are ordered by
// normalized name. An empty query matches nothing.
func Rank(query string, candidates []Candidate) []Match {
	return RankFunc(query, candidates, Normalize)
}

// RankFunc is Rank with a custom normalization applied to the query and every
// candidate name.
func RankFunc(query string, candidates []Candidate, normalize func(string) string) []Match {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var matches []Match
	for _, c := range candidates {
		n := normalize(c.Name)
		if !strings.Contains(n, q) {
			continue
		}
		matches = append(matches, Match{Candidate: c, Normalized: n, Score: Score(q, n)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Normalized != matches[j].Normalized {
			return matches[i].Normalized < matches[j].Normalized
		}
		return matches[i].ID < matches[j].ID
	})
	return matches
}

// Exact returns the leading matches that scored 1.
func Exact(matches []Match) []Match {
	n := 0
	for n < len(matches) && matches[n].Score == 1 {
		n++
	}
	return matches[:n]
}

// IDs returns the ids of matches in order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
