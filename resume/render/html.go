package render

import (
	"html"
	"strings"

	"jobtracker-backend/resume/model"
)

const styleSheet = `body { font-family: Arial, sans-serif; line-height: 1.6; margin: 40px; }
h1 { color: #333; border-bottom: 2px solid #333; padding-bottom: 10px; }
h2 { color: #555; margin-top: 25px; }
h3 { color: #666; }
.contact { margin-bottom: 20px; }
.section { margin-bottom: 25px; }
.experience-item, .education-item { margin-bottom: 20px; }
.skills { display: flex; flex-wrap: wrap; gap: 10px; }
.skill { background: #f0f0f0; padding: 5px 10px; border-radius: 3px; }
ul { margin: 10px 0; }
.date { color: #666; font-style: italic; }`

const detailSeparator = " | "

// HTML renders the effective resume data into a self-contained HTML document.
// The output is deterministic for identical input, sections are emitted in a
// fixed order, and absent optional fields never produce empty labels. All
// user-supplied text is escaped.
func HTML(data model.TemplateData) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n<title>Resume</title>\n")
	b.WriteString("<style>\n" + styleSheet + "\n</style>\n")
	b.WriteString("</head>\n<body>\n")

	writeContact(&b, data.Contact)
	writeSummary(&b, data.Summary)
	writeExperience(&b, data.Experience)
	writeEducation(&b, data.Education)
	writeSkills(&b, data.Skills)
	writeProjects(&b, data.Projects)
	writeCertifications(&b, data.Certifications)

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeContact(b *strings.Builder, c model.Contact) {
	b.WriteString("<div class=\"contact\">\n")
	b.WriteString("<h1>" + esc(c.FullName) + "</h1>\n")

	if line := joinPresent(c.Email, c.Phone, c.Location); line != "" {
		b.WriteString("<div>" + line + "</div>\n")
	}

	var links []string
	if c.LinkedIn != "" {
		links = append(links, "LinkedIn: "+esc(c.LinkedIn))
	}
	if c.GitHub != "" {
		links = append(links, "GitHub: "+esc(c.GitHub))
	}
	if c.Website != "" {
		links = append(links, "Website: "+esc(c.Website))
	}
	if len(links) > 0 {
		b.WriteString("<div>" + strings.Join(links, detailSeparator) + "</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeSummary(b *strings.Builder, summary string) {
	if strings.TrimSpace(summary) == "" {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Professional Summary</h2>\n")
	b.WriteString("<p>" + esc(summary) + "</p>\n</div>\n")
}

func writeExperience(b *strings.Builder, items []model.Experience) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Experience</h2>\n")
	for _, exp := range items {
		b.WriteString("<div class=\"experience-item\">\n")
		b.WriteString("<h3>" + esc(exp.JobTitle) + " — " + esc(exp.Company) + "</h3>\n")

		end := exp.EndDate
		if exp.IsCurrent {
			end = "Present"
		}
		dates := esc(exp.StartDate)
		if end != "" {
			dates += " – " + esc(end)
		}
		dateLine := dates
		if exp.Location != "" {
			dateLine = esc(exp.Location) + detailSeparator + dates
		}
		b.WriteString("<div class=\"date\">" + dateLine + "</div>\n")

		if len(exp.Responsibilities) > 0 {
			b.WriteString("<ul>\n")
			for _, resp := range exp.Responsibilities {
				b.WriteString("<li>" + esc(resp) + "</li>\n")
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeEducation(b *strings.Builder, items []model.Education) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Education</h2>\n")
	for _, edu := range items {
		b.WriteString("<div class=\"education-item\">\n")
		b.WriteString("<h3>" + esc(edu.Degree) + " — " + esc(edu.School) + "</h3>\n")

		var details []string
		if edu.Location != "" {
			details = append(details, esc(edu.Location))
		}
		if edu.GraduationDate != "" {
			details = append(details, "Graduated: "+esc(edu.GraduationDate))
		}
		if edu.GPA != "" {
			details = append(details, "GPA: "+esc(edu.GPA))
		}
		if len(details) > 0 {
			b.WriteString("<div class=\"date\">" + strings.Join(details, detailSeparator) + "</div>\n")
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeSkills(b *strings.Builder, skills []string) {
	if len(skills) == 0 {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Skills</h2>\n<div class=\"skills\">\n")
	for _, skill := range skills {
		b.WriteString("<span class=\"skill\">" + esc(skill) + "</span>\n")
	}
	b.WriteString("</div>\n</div>\n")
}

func writeProjects(b *strings.Builder, items []model.Project) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Projects</h2>\n")
	for _, proj := range items {
		b.WriteString("<div class=\"experience-item\">\n")
		b.WriteString("<h3>" + esc(proj.Name) + "</h3>\n")
		if proj.Description != "" {
			b.WriteString("<p>" + esc(proj.Description) + "</p>\n")
		}
		if len(proj.Technologies) > 0 {
			techs := make([]string, len(proj.Technologies))
			for i, t := range proj.Technologies {
				techs[i] = esc(t)
			}
			b.WriteString("<div><strong>Technologies:</strong> " + strings.Join(techs, ", ") + "</div>\n")
		}
		if proj.Link != "" {
			b.WriteString("<div><strong>Link:</strong> " + esc(proj.Link) + "</div>\n")
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeCertifications(b *strings.Builder, items []model.Certification) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<div class=\"section\">\n<h2>Certifications</h2>\n<ul>\n")
	for _, cert := range items {
		line := esc(cert.Name) + " — " + esc(cert.Issuer)
		if cert.IssueDate != "" {
			line += " (" + esc(cert.IssueDate) + ")"
		}
		b.WriteString("<li>" + line + "</li>\n")
	}
	b.WriteString("</ul>\n</div>\n")
}

func esc(s string) string {
	return html.EscapeString(s)
}

// joinPresent joins non-empty values with the detail separator, escaping each.
func joinPresent(values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, esc(v))
		}
	}
	return strings.Join(parts, detailSeparator)
}
