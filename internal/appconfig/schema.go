// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "data": { "type": "string" },
    "outputDir": { "type": "string" },
    "missingPolicy": { "type": "string", "enum": ["", "strict", "zero-fill"] },
    "maxMarksPerSubject": { "type": "number", "minimum": 0 },
    "metaColumns": {
      "type": "object",
      "properties": {
        "id": { "type": "string" },
        "name": { "type": "string" },
        "semester": { "type": "string" },
        "extra": { "type": ["array", "null"], "items": { "type": "string" } }
      },
      "additionalProperties": false
    },
    "gradingScheme": { "type": "string", "enum": ["", "5-band", "6-band"] },
    "pivotDuplicates": { "type": "string", "enum": ["", "last", "first", "mean"] },
    "topN": { "type": "integer", "minimum": 0 },
    "htmlReport": { "type": "boolean" },
    "analysisJSON": { "type": "boolean" },
    "workbook": { "type": "boolean" },
    "debug": { "type": "boolean" },
    "jsonMode": { "type": "boolean" },
    "logFile": { "type": "string" },
    "logLevel": { "type": "string" }
  },
  "additionalProperties": false
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

func validateDocument(document []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("%w: schema validation error: %v", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, ", "))
}
