// Package hit models a scored document returned by vector search.
package hit

// Hit is a single scored search hit with its indexed metadata.
type Hit struct {
	docID       string
	score       float64
	text        string
	majorID     string
	majorName   string
	docType     string
	metadata    map[string]string
	subjectTags []string
	jobTags     []string
}

// New creates a hit. Metadata and tag slices are stored as given.
func New(
	docID string, score float64, text string,
	metadata map[string]string,
) Hit {
	return Hit{
		docID:    docID,
		score:    score,
		text:     text,
		metadata: metadata,
	}
}

// WithMajor returns a copy carrying major identity fields.
func (h Hit) WithMajor(id, name, docType string) Hit {
	h.majorID = id
	h.majorName = name
	h.docType = docType
	return h
}

// WithTags returns a copy carrying subject and job tag lists.
func (h Hit) WithTags(subjectTags, jobTags []string) Hit {
	h.subjectTags = subjectTags
	h.jobTags = jobTags
	return h
}

// DocID returns the document key.
func (h Hit) DocID() string { return h.docID }

// Score returns the similarity score, higher is better.
func (h Hit) Score() float64 { return h.score }

// Text returns the document content.
func (h Hit) Text() string { return h.text }

// MajorID returns the owning major id, empty when the document is not
// attached to a major.
func (h Hit) MajorID() string { return h.majorID }

// MajorName returns the owning major name.
func (h Hit) MajorName() string { return h.majorName }

// DocType returns the document type tag (summary, interest, property,
// subjects, jobs, ...).
func (h Hit) DocType() string { return h.docType }

// Metadata returns the scalar metadata fields of the document.
func (h Hit) Metadata() map[string]string { return h.metadata }

// SubjectTags returns related subject tags.
func (h Hit) SubjectTags() []string { return h.subjectTags }

// JobTags returns related job tags.
func (h Hit) JobTags() []string { return h.jobTags }
