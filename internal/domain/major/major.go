// Package major holds the major catalog record value object.
package major

import (
	"errors"
	"strings"
)

// EnterField is one career destination category with its description.
type EnterField struct {
	Category    string
	Description string
}

// Offering is one university that offers the major.
type Offering struct {
	School    string
	Campus    string
	MajorName string
	Area      string
	URL       string
}

// Subject is a representative subject taught in the major.
type Subject struct {
	Name    string
	Summary string
}

// Activity is a recommended career preparation activity.
type Activity struct {
	Name        string
	Description string
}

// Record is a single major in the catalog. The canonical name is stored
// as loaded and must never be altered downstream.
type Record struct {
	id             string
	name           string
	aliases        []string
	summary        string
	interest       string
	property       string
	jobText        string
	qualifications string
	enterFields    []EnterField
	offerings      []Offering
	subjects       []Subject
	activities     []Activity
}

// New validates and creates a record with identity fields only.
func New(id, name string, aliases []string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, errors.New("major id is required")
	}
	if strings.TrimSpace(name) == "" {
		return Record{}, errors.New("major name is required")
	}
	return Record{id: id, name: name, aliases: aliases}, nil
}

// Reconstruct hydrates a record from the detail store without validation.
func Reconstruct(
	id, name string, aliases []string,
	summary, interest, property string,
	jobText, qualifications string,
	enterFields []EnterField,
	offerings []Offering,
	subjects []Subject,
	activities []Activity,
) Record {
	return Record{
		id: id, name: name, aliases: aliases,
		summary: summary, interest: interest, property: property,
		jobText: jobText, qualifications: qualifications,
		enterFields: enterFields, offerings: offerings,
		subjects: subjects, activities: activities,
	}
}

// WithCareer returns a copy carrying career description fields.
func (r Record) WithCareer(jobText, qualifications string, enterFields []EnterField, activities []Activity) Record {
	r.jobText = jobText
	r.qualifications = qualifications
	r.enterFields = enterFields
	r.activities = activities
	return r
}

// WithAcademics returns a copy carrying study description fields.
func (r Record) WithAcademics(summary, interest, property string, subjects []Subject, offerings []Offering) Record {
	r.summary = summary
	r.interest = interest
	r.property = property
	r.subjects = subjects
	r.offerings = offerings
	return r
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Name returns the canonical major name.
func (r Record) Name() string { return r.name }

// Aliases returns alternative names for lookup.
func (r Record) Aliases() []string { return r.aliases }

// Summary returns the major summary text.
func (r Record) Summary() string { return r.summary }

// Interest returns the interest description.
func (r Record) Interest() string { return r.interest }

// Property returns the aptitude description.
func (r Record) Property() string { return r.property }

// JobText returns the raw employment field text.
func (r Record) JobText() string { return r.jobText }

// Qualifications returns the raw qualifications text.
func (r Record) Qualifications() string { return r.qualifications }

// EnterFields returns career destination categories.
func (r Record) EnterFields() []EnterField { return r.enterFields }

// Offerings returns the universities offering the major.
func (r Record) Offerings() []Offering { return r.offerings }

// Subjects returns representative subjects.
func (r Record) Subjects() []Subject { return r.subjects }

// Activities returns recommended activities.
func (r Record) Activities() []Activity { return r.activities }
