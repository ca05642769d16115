// internal/rag/store/schema.go
package store

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Raw-record feeds arrive as collaborator-owned JSON payloads. Each feed
// is checked against its schema before decoding so that a malformed feed
// becomes a detectable upstream failure instead of a silent zero value.

var projectSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":            map[string]interface{}{"type": "string"},
		"status":        map[string]interface{}{"type": "string", "enum": []string{"completed", "active", "cancelled"}},
		"onTime":        map[string]interface{}{"type": "boolean"},
		"qualityRating": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 5},
		"contractValue": map[string]interface{}{"type": "number", "minimum": 0},
	},
	"required": []string{"id", "status"},
}

var financialSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"creditScore":     map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 850},
		"paymentDelays":   map[string]interface{}{"type": "integer", "minimum": 0},
		"revenueTrend":    map[string]interface{}{"type": "string"},
		"insuranceValid":  map[string]interface{}{"type": "boolean"},
		"bondingCapacity": map[string]interface{}{"type": "number", "minimum": 0},
	},
}

var documentSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":           map[string]interface{}{"type": "string"},
		"documentType": map[string]interface{}{"type": "string"},
		"status":       map[string]interface{}{"type": "string", "enum": []string{"valid", "expired", "missing"}},
	},
	"required": []string{"id", "status"},
}

var incidentSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":       map[string]interface{}{"type": "string"},
		"severity": map[string]interface{}{"type": "string", "enum": []string{"minor", "major", "critical"}},
		"resolved": map[string]interface{}{"type": "boolean"},
		"lostDays": map[string]interface{}{"type": "integer", "minimum": 0},
	},
	"required": []string{"id", "severity"},
}

var feedSchemas = map[string]map[string]interface{}{
	"projects":   projectSchema,
	"financials": financialSchema,
	"documents":  documentSchema,
	"incidents":  incidentSchema,
}

// validateFeedPayload checks one raw JSON payload against the feed's schema.
func validateFeedPayload(feed string, payload []byte) error {
	schema, ok := feedSchemas[feed]
	if !ok {
		return fmt.Errorf("unknown feed: %s", feed)
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("payload invalid: %s", strings.Join(msgs, "; "))
	}

	return nil
}
