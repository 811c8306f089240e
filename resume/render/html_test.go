package render

import (
	"strings"
	"testing"

	"jobtracker-backend/resume/model"
)

func fullData() model.TemplateData {
	return model.TemplateData{
		Contact: model.Contact{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1-555-0100",
			Location: "Portland, OR",
			LinkedIn: "https://linkedin.com/in/janedoe",
		},
		Summary: "Engineer with a focus on data platforms.",
		Experience: []model.Experience{
			{
				JobTitle:         "Staff Engineer",
				Company:          "Initech",
				Location:         "Portland, OR",
				StartDate:        "2022-01",
				IsCurrent:        true,
				Responsibilities: []string{"Led platform migration."},
			},
			{
				JobTitle:  "Engineer",
				Company:   "Globex",
				StartDate: "2019-06",
				EndDate:   "2021-12",
			},
		},
		Education: []model.Education{
			{Degree: "B.S. Computer Science", School: "OSU", GraduationDate: "2019", GPA: "3.8"},
		},
		Skills: []string{"Go", "SQL"},
		Projects: []model.Project{
			{Name: "Tracker", Description: "Job tracker.", Technologies: []string{"Go", "Postgres"}, Link: "https://example.com"},
		},
		Certifications: []model.Certification{
			{Name: "AWS SAA", Issuer: "AWS", IssueDate: "2023-05"},
		},
	}
}

func TestHTMLDeterministic(t *testing.T) {
	data := fullData()
	first := HTML(data)
	second := HTML(data)
	if first != second {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestHTMLSectionOrder(t *testing.T) {
	doc := HTML(fullData())

	headings := []string{
		"<h1>Jane Doe</h1>",
		"<h2>Professional Summary</h2>",
		"<h2>Experience</h2>",
		"<h2>Education</h2>",
		"<h2>Skills</h2>",
		"<h2>Projects</h2>",
		"<h2>Certifications</h2>",
	}
	last := -1
	for _, h := range headings {
		idx := strings.Index(doc, h)
		if idx < 0 {
			t.Fatalf("missing heading %q", h)
		}
		if idx < last {
			t.Fatalf("heading %q out of order", h)
		}
		last = idx
	}
}

func TestHTMLOmitsEmptySections(t *testing.T) {
	data := model.TemplateData{
		Contact: model.Contact{FullName: "Jane Doe", Email: "jane@example.com"},
	}
	doc := HTML(data)

	for _, heading := range []string{
		"Professional Summary", "Experience", "Education", "Skills", "Projects", "Certifications",
	} {
		if strings.Contains(doc, "<h2>"+heading+"</h2>") {
			t.Fatalf("unexpected section %q for empty data", heading)
		}
	}
	if !strings.Contains(doc, "jane@example.com") {
		t.Fatalf("expected contact email in output")
	}
}

func TestHTMLCurrentRoleShowsPresent(t *testing.T) {
	doc := HTML(fullData())
	if !strings.Contains(doc, "2022-01 – Present") {
		t.Fatalf("expected current role to end in Present")
	}
	if !strings.Contains(doc, "2019-06 – 2021-12") {
		t.Fatalf("expected closed role date range")
	}
}

func TestHTMLEscapesUserText(t *testing.T) {
	data := model.TemplateData{
		Contact: model.Contact{
			FullName: "<script>alert(1)</script>",
			Email:    "x@example.com",
		},
		Summary: "Loves <b>bold</b> claims & ampersands",
		Skills:  []string{"C++ & Go"},
	}
	doc := HTML(data)

	if strings.Contains(doc, "<script>") {
		t.Fatalf("script tag leaked unescaped")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag")
	}
	if !strings.Contains(doc, "Loves &lt;b&gt;bold&lt;/b&gt; claims &amp; ampersands") {
		t.Fatalf("expected escaped summary")
	}
	if !strings.Contains(doc, "C++ &amp; Go") {
		t.Fatalf("expected escaped skill")
	}
}

func TestHTMLNoEmptyLabels(t *testing.T) {
	data := model.TemplateData{
		Contact:   model.Contact{FullName: "Jane Doe", Email: "jane@example.com"},
		Education: []model.Education{{Degree: "B.S.", School: "OSU"}},
		Projects:  []model.Project{{Name: "Tracker"}},
	}
	doc := HTML(data)

	for _, label := range []string{"Graduated:", "GPA:", "Technologies:", "Link:", "LinkedIn:", "GitHub:", "Website:"} {
		if strings.Contains(doc, label) {
			t.Fatalf("label %q emitted for absent field", label)
		}
	}
}
