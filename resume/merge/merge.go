package merge

import (
	"errors"
	"fmt"

	"jobtracker-backend/resume/model"
)

// ErrInvalidData indicates the effective data failed validation before rendering.
var ErrInvalidData = errors.New("invalid resume data")

// Merger produces the effective data for one generation from a stored
// template and an optional override payload.
type Merger interface {
	Merge(template model.TemplateData, override *model.TemplateData) (model.TemplateData, error)
}

// FullReplace substitutes the entire override payload for the template data
// when an override is supplied. Field-level merging is deliberately not done;
// a deep-merge strategy can be swapped in behind the Merger interface without
// touching callers.
type FullReplace struct{}

// Merge returns the effective data. Inputs are never mutated; the result is a
// deep copy. The mandatory contact fields are validated here so a bad payload
// fails before any rendering or storage work.
func (FullReplace) Merge(template model.TemplateData, override *model.TemplateData) (model.TemplateData, error) {
	effective := template
	if override != nil {
		effective = *override
	}
	effective = effective.Clone()

	if err := effective.Validate(); err != nil {
		return model.TemplateData{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return effective, nil
}

var _ Merger = FullReplace{}
