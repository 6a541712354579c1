package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the config file. Keys are snake_case so they survive viper's
// case folding unchanged.
var configSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"input_dir":  map[string]any{"type": "string"},
		"output_dir": map[string]any{"type": "string"},
		"preset":     map[string]any{"type": "string", "enum": []any{"", "pair", "eer-abs", "eer-signed"}},
		"title_mode": map[string]any{"type": "string", "enum": []any{"", "fixed", "header", "header-token"}},
		"title":      map[string]any{"type": "string"},
		"x_column":   map[string]any{"type": "integer", "minimum": 0},
		"y_columns": map[string]any{
			"type":     "array",
			"minItems": 1,
			"maxItems": 2,
			"items":    map[string]any{"type": "integer", "minimum": 0},
		},
		"derivation": map[string]any{"type": "string"},
		"x_label":    map[string]any{"type": "string"},
		"y_label":    map[string]any{"type": "string"},
		"colors":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"normalize":  map[string]any{"type": "boolean"},
		"backend":    map[string]any{"type": "string", "enum": []any{"", "gonum", "gochart"}},
		"width":      map[string]any{"type": "number", "minimum": 0},
		"height":     map[string]any{"type": "number", "minimum": 0},
		"labels": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "pattern": "^[^=]+=.+$"},
		},
		"workers":   map[string]any{"type": "integer", "minimum": 0},
		"report":    map[string]any{"type": "string"},
		"log_file":  map[string]any{"type": "string"},
		"debug":     map[string]any{"type": "boolean"},
		"extension": map[string]any{"type": "string"},
	},
}

// validateSettings checks raw config file settings against configSchema.
func validateSettings(settings map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
