package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// TemplateData is the canonical structured resume content. The same shape is
// used for stored templates and for per-generation overrides.
type TemplateData struct {
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	CustomSections map[string]any  `json:"customSections,omitempty"`
}

// Contact captures top-of-resume contact details.
type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedIn,omitempty"`
	GitHub   string `json:"gitHub,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience represents a work history entry.
type Experience struct {
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate,omitempty"`
	IsCurrent        bool     `json:"isCurrent"`
	Responsibilities []string `json:"responsibilities"`
}

// Education represents an education entry.
type Education struct {
	Degree         string `json:"degree"`
	School         string `json:"school"`
	Location       string `json:"location,omitempty"`
	GraduationDate string `json:"graduationDate,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

// Project represents a notable project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}

// Certification represents a certification entry.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate enforces the mandatory contact fields. It runs on the effective
// data of a generation, before any rendering happens.
func (d TemplateData) Validate() error {
	if strings.TrimSpace(d.Contact.FullName) == "" {
		return errors.New("contact.fullName is required")
	}
	email := strings.TrimSpace(d.Contact.Email)
	if email == "" {
		return errors.New("contact.email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("contact.email %q is not a valid email address", email)
	}
	return nil
}

// Clone returns a deep copy of the template data. Stored templates are
// immutable inputs to generation; callers that need to mutate work on a copy.
func (d TemplateData) Clone() TemplateData {
	out := d
	out.Experience = cloneExperience(d.Experience)
	out.Education = append([]Education(nil), d.Education...)
	out.Skills = append([]string(nil), d.Skills...)
	out.Projects = cloneProjects(d.Projects)
	out.Certifications = append([]Certification(nil), d.Certifications...)
	out.CustomSections = cloneCustomSections(d.CustomSections)
	return out
}

func cloneExperience(in []Experience) []Experience {
	if in == nil {
		return nil
	}
	out := make([]Experience, len(in))
	for i, exp := range in {
		out[i] = exp
		out[i].Responsibilities = append([]string(nil), exp.Responsibilities...)
	}
	return out
}

func cloneProjects(in []Project) []Project {
	if in == nil {
		return nil
	}
	out := make([]Project, len(in))
	for i, p := range in {
		out[i] = p
		out[i].Technologies = append([]string(nil), p.Technologies...)
	}
	return out
}

func cloneCustomSections(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
