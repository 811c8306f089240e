package main

// Render a sample resume to HTML and DOCX without running the server:
//   go run ./cmd/renderdemo -out ./out

import (
	"archive/zip"
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"jobtracker-backend/resume/encode"
	"jobtracker-backend/resume/model"
	"jobtracker-backend/resume/render"
)

func main() {
	outDir := flag.String("out", "./out", "output directory for rendered files")
	flag.Parse()

	data := sampleData()
	document := render.HTML(data)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir failed: %v\n", err)
		os.Exit(1)
	}

	htmlPath := filepath.Join(*outDir, "sample_resume.html")
	if err := os.WriteFile(htmlPath, []byte(document), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write html failed: %v\n", err)
		os.Exit(1)
	}

	docxBytes, err := encode.WordDOCX{}.Convert(context.Background(), document)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docx conversion failed: %v\n", err)
		os.Exit(1)
	}
	docxPath := filepath.Join(*outDir, "sample_resume.docx")
	if err := os.WriteFile(docxPath, docxBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write docx failed: %v\n", err)
		os.Exit(1)
	}

	if err := validateDocx(docxBytes); err != nil {
		fmt.Fprintf(os.Stderr, "docx validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s and %s\n", htmlPath, docxPath)
}

func sampleData() model.TemplateData {
	return model.TemplateData{
		Contact: model.Contact{
			FullName: "Jordan Lee",
			Email:    "jordan.lee@example.com",
			Phone:    "+1-555-0102",
			Location: "Austin, TX",
			LinkedIn: "https://www.linkedin.com/in/jordanlee",
			GitHub:   "https://github.com/jordanlee",
		},
		Summary: "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		Experience: []model.Experience{
			{
				JobTitle:  "Senior Backend Engineer",
				Company:   "Acme Logistics",
				Location:  "Austin, TX",
				StartDate: "2021-04",
				IsCurrent: true,
				Responsibilities: []string{
					"Designed a routing service that reduced shipment latency by 18%.",
					"Implemented distributed tracing to cut incident triage time by 35%.",
				},
			},
			{
				JobTitle:  "Backend Engineer",
				Company:   "Blue Harbor Systems",
				Location:  "Seattle, WA",
				StartDate: "2018-01",
				EndDate:   "2021-03",
				Responsibilities: []string{
					"Built event-driven ingestion pipelines for compliance data feeds.",
				},
			},
		},
		Education: []model.Education{
			{
				Degree:         "B.S. Computer Science",
				School:         "University of Washington",
				Location:       "Seattle, WA",
				GraduationDate: "2017",
			},
		},
		Skills: []string{"Go", "PostgreSQL", "AWS", "Docker", "Kubernetes"},
	}
}

func validateDocx(docxBytes []byte) error {
	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return err
	}
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("document.xml not found in docx")
}
