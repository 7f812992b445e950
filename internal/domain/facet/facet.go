// Package facet defines the metadata facets extracted from a student question.
package facet

// Facet keys. Values mirror the tag field names of the course search index.
const (
	University = "university"
	College    = "college"
	Department = "department"
	Grade      = "grade"
	Semester   = "semester"
)

// Set maps facet keys to extracted values. Absent keys mean the question
// did not mention that facet.
type Set map[string]string

// Has reports whether the facet is present with a non-empty value.
func (s Set) Has(key string) bool { return s[key] != "" }

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
