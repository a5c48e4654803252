package core

import (
	"fmt"
	"strings"
)

// EmptyQueryPolicy decides what a search returns when every query field is
// empty or whitespace-only.
type EmptyQueryPolicy string

const (
	// EmptyMatchNone returns no records and asks the user to type something.
	EmptyMatchNone EmptyQueryPolicy = "none"
	// EmptyMatchAll returns the full record set.
	EmptyMatchAll EmptyQueryPolicy = "all"
)

// ParseEmptyQueryPolicy converts a config value to a policy.
// The empty string selects EmptyMatchNone.
func ParseEmptyQueryPolicy(s string) (EmptyQueryPolicy, error) {
	switch EmptyQueryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EmptyMatchNone:
		return EmptyMatchNone, nil
	case EmptyMatchAll:
		return EmptyMatchAll, nil
	default:
		return "", fmt.Errorf("invalid empty query policy %q: want none or all", s)
	}
}

// Query holds the primary search inputs. Empty fields impose no constraint.
type Query struct {
	CommonName     string
	ScientificName string
}

// Normalize returns the query with surrounding whitespace removed.
func (q Query) Normalize() Query {
	return Query{
		CommonName:     strings.TrimSpace(q.CommonName),
		ScientificName: strings.TrimSpace(q.ScientificName),
	}
}

// IsEmpty reports whether no field carries a constraint.
func (q Query) IsEmpty() bool {
	n := q.Normalize()
	return n.CommonName == "" && n.ScientificName == ""
}

// SearchResult is the outcome of a primary search.
// Prompt is set when the query was empty and the policy returned nothing.
type SearchResult struct {
	Records []Record `json:"records"`
	Prompt  bool     `json:"prompt"`
}

// SpecimenResult is the outcome of a specimen search.
type SpecimenResult struct {
	Specimens []Specimen `json:"records"`
	Prompt    bool       `json:"prompt"`
}

// FilterRecords returns the records matching every non-empty field of q,
// in their original relative order.
func FilterRecords(records []Record, q Query, policy EmptyQueryPolicy) SearchResult {
	q = q.Normalize()
	if q.CommonName == "" && q.ScientificName == "" {
		if policy == EmptyMatchAll {
			return SearchResult{Records: keep(records, func(Record) bool { return true })}
		}
		return SearchResult{Records: []Record{}, Prompt: true}
	}

	common := strings.ToLower(q.CommonName)
	sci := strings.ToLower(q.ScientificName)

	return SearchResult{Records: keep(records, func(r Record) bool {
		if sci != "" && !containsFolded(r.ScientificName, sci) {
			return false
		}
		if common != "" && !containsFolded(r.CommonName, common) {
			return false
		}
		return true
	})}
}

// FilterSpecimens returns the specimens whose text contains query,
// in their original relative order.
func FilterSpecimens(specimens []Specimen, query string, policy EmptyQueryPolicy) SpecimenResult {
	query = strings.TrimSpace(query)
	if query == "" {
		if policy == EmptyMatchAll {
			return SpecimenResult{Specimens: keep(specimens, func(Specimen) bool { return true })}
		}
		return SpecimenResult{Specimens: []Specimen{}, Prompt: true}
	}

	q := strings.ToLower(query)
	return SpecimenResult{Specimens: keep(specimens, func(s Specimen) bool {
		return containsFolded(s.Text, q)
	})}
}

// containsFolded reports whether field contains the already lower-cased query.
func containsFolded(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}

// keep returns a new slice with the items for which pred holds.
// Never returns nil so JSON encodes an empty array.
func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
