package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/xeipuuv/gojsonschema"
)

// jsonSchema describes a PMD XML report converted to JSON with attributes
// under "$" and element text under "_", every child element as an array.
// An empty <pmd/> element converts to a blank string.
const jsonSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pmd"],
  "properties": {
    "pmd": {
      "oneOf": [
        {"type": "string", "pattern": "^\\s*$"},
        {
          "type": "object",
          "properties": {
            "$": {"type": "object"},
            "file": {"type": "array", "items": {"$ref": "#/definitions/file"}}
          }
        }
      ]
    }
  },
  "definitions": {
    "file": {
      "type": "object",
      "required": ["$"],
      "properties": {
        "$": {
          "type": "object",
          "required": ["name"],
          "properties": {"name": {"type": "string"}}
        },
        "violation": {"type": "array", "items": {"$ref": "#/definitions/violation"}}
      }
    },
    "violation": {
      "type": "object",
      "required": ["$"],
      "properties": {
        "$": {
          "type": "object",
          "required": ["beginline"],
          "properties": {
            "beginline": {"type": ["string", "integer"]},
            "class": {"type": "string"}
          }
        },
        "_": {"type": "string"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(jsonSchema)

type jsonReport struct {
	PMD json.RawMessage `json:"pmd"`
}

type jsonRoot struct {
	Attrs struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"$"`
	Files []jsonFile `json:"file"`
}

type jsonFile struct {
	Attrs struct {
		Name string `json:"name"`
	} `json:"$"`
	Violations []jsonViolation `json:"violation"`
}

type jsonViolation struct {
	Attrs struct {
		BeginLine json.RawMessage `json:"beginline"`
		Class     string          `json:"class"`
	} `json:"$"`
	Text string `json:"_"`
}

func parseJSON(data []byte) (*domain.ReportDocument, error) {
	if !json.Valid(data) {
		var scratch interface{}
		return nil, fmt.Errorf("invalid JSON: %w", json.Unmarshal(data, &scratch))
	}

	if err := validateJSONSchema(data); err != nil {
		return nil, err
	}

	var raw jsonReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc := &domain.ReportDocument{Files: []domain.FileEntry{}}

	// An empty <pmd/> element has no attributes or children
	trimmed := bytes.TrimSpace(raw.PMD)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil || strings.TrimSpace(text) != "" {
			return nil, domain.NewMalformedReportError("pmd element is text instead of an object", err)
		}
		return doc, nil
	}

	var root jsonRoot
	if err := json.Unmarshal(raw.PMD, &root); err != nil {
		return nil, domain.NewMalformedReportError("pmd element is not an object", err)
	}
	doc.Version = root.Attrs.Version
	doc.Timestamp = root.Attrs.Timestamp

	for _, f := range root.Files {
		entry := domain.FileEntry{
			Name:       f.Attrs.Name,
			Violations: make([]domain.ViolationEntry, 0, len(f.Violations)),
		}
		for _, v := range f.Violations {
			line, err := jsonBeginLine(v.Attrs.BeginLine)
			if err != nil {
				return nil, domain.NewMalformedReportError(
					fmt.Sprintf("file %q has a violation with an invalid beginline", f.Attrs.Name), err)
			}
			entry.Violations = append(entry.Violations, domain.ViolationEntry{
				Class:     v.Attrs.Class,
				BeginLine: line,
				Message:   v.Text,
			})
		}
		doc.Files = append(doc.Files, entry)
	}

	return doc, nil
}

func validateJSONSchema(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return &domain.MalformedReportError{
		Message:  "report does not match the PMD JSON layout",
		Problems: problems,
	}
}

// jsonBeginLine accepts both "12" and 12
func jsonBeginLine(raw json.RawMessage) (int, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return parseBeginLine(asString)
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err != nil {
		return 0, err
	}
	return asInt, nil
}
