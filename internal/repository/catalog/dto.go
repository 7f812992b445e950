package catalog

import (
	"encoding/json"
	"strings"

	"github.com/maroco/majormentor/internal/domain/major"
)

// majorDTO mirrors one entry of the major detail JSON. The upstream
// data carries inconsistent key spellings ("gradeuate" next to
// "graduate", SBJECT_NM next to subject_name), so every variant is
// mapped here and resolved during conversion.
type majorDTO struct {
	MajorID           string         `json:"major_id"`
	MajorName         string         `json:"major_name"`
	DepartmentAliases []string       `json:"department_aliases"`
	Summary           string         `json:"summary"`
	Interest          string         `json:"interest"`
	Property          string         `json:"property"`
	Job               string         `json:"job"`
	Qualifications    stringOrList   `json:"qualifications"`
	EnterField        []enterDTO     `json:"enter_field"`
	CareerAct         []activityDTO  `json:"career_act"`
	MainSubject       []subjectDTO   `json:"main_subject"`
	University        []offeringDTO  `json:"university"`
}

type enterDTO struct {
	Gradeuate   string `json:"gradeuate"`
	Graduate    string `json:"graduate"`
	Description string `json:"description"`
}

type activityDTO struct {
	ActName        string `json:"act_name"`
	ActDescription string `json:"act_description"`
}

type subjectDTO struct {
	SbjectNm           string `json:"SBJECT_NM"`
	SubjectName        string `json:"subject_name"`
	SbjectSumry        string `json:"SBJECT_SUMRY"`
	SubjectDescription string `json:"subject_description"`
}

type offeringDTO struct {
	SchoolName string `json:"schoolName"`
	CampusNm   string `json:"campus_nm"`
	CampusNm2  string `json:"campusNm"`
	MajorName  string `json:"majorName"`
	Area       string `json:"area"`
	SchoolURL  string `json:"schoolURL"`
}

// stringOrList accepts both a plain string and an array of strings,
// normalizing the array form to a comma separated string.
type stringOrList string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringOrList(single)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	cleaned := make([]string, 0, len(list))
	for _, item := range list {
		if v := strings.TrimSpace(item); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	*s = stringOrList(strings.Join(cleaned, ", "))
	return nil
}

func (d majorDTO) toDomain() major.Record {
	enterFields := make([]major.EnterField, 0, len(d.EnterField))
	for _, e := range d.EnterField {
		category := e.Gradeuate
		if category == "" {
			category = e.Graduate
		}
		enterFields = append(enterFields, major.EnterField{
			Category:    category,
			Description: e.Description,
		})
	}

	activities := make([]major.Activity, 0, len(d.CareerAct))
	for _, a := range d.CareerAct {
		activities = append(activities, major.Activity{
			Name:        a.ActName,
			Description: a.ActDescription,
		})
	}

	subjects := make([]major.Subject, 0, len(d.MainSubject))
	for _, s := range d.MainSubject {
		name := s.SbjectNm
		if name == "" {
			name = s.SubjectName
		}
		summary := s.SbjectSumry
		if summary == "" {
			summary = s.SubjectDescription
		}
		subjects = append(subjects, major.Subject{Name: name, Summary: summary})
	}

	offerings := make([]major.Offering, 0, len(d.University))
	for _, o := range d.University {
		campus := o.CampusNm
		if campus == "" {
			campus = o.CampusNm2
		}
		offerings = append(offerings, major.Offering{
			School:    o.SchoolName,
			Campus:    campus,
			MajorName: o.MajorName,
			Area:      o.Area,
			URL:       o.SchoolURL,
		})
	}

	return major.Reconstruct(
		d.MajorID, d.MajorName, d.DepartmentAliases,
		d.Summary, d.Interest, d.Property,
		d.Job, string(d.Qualifications),
		enterFields, offerings, subjects, activities,
	)
}
