package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed template_schema.json
var templateSchemaJSON string

var templateSchema = gojsonschema.NewStringLoader(templateSchemaJSON)

// ValidateDataJSON checks a raw template-data payload against the resume
// schema before it is decoded into the typed model. The returned error lists
// every violation.
func ValidateDataJSON(raw json.RawMessage) error {
	result, err := gojsonschema.Validate(templateSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for _, violation := range result.Errors() {
		msgs = append(msgs, violation.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
