package grammar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/ryness-reports/internal/layout"
)

// Profile holds the layout constants of one report family. The defaults match
// the weekly report; a JSON file can override any subset of them.
type Profile struct {
	ProjectBands   []layout.Band `json:"project_bands"`
	LineTolerance  float64       `json:"line_tolerance"`
	HeaderOffset   float64       `json:"header_offset"`
	DefaultDataTop float64       `json:"default_data_top"`
	RegionMarkers  []string      `json:"region_markers"`
}

// DefaultProfile returns the built-in layout.
func DefaultProfile() Profile {
	bands := make([]layout.Band, len(DefaultProjectBands))
	copy(bands, DefaultProjectBands)
	return Profile{
		ProjectBands:   bands,
		LineTolerance:  layout.DefaultLineTolerance,
		HeaderOffset:   18,
		DefaultDataTop: 100,
		RegionMarkers:  []string{"Bay Area"},
	}
}

// BuildProfileJSONSchema returns the JSON-Schema a profile file must satisfy.
func BuildProfileJSONSchema() map[string]any {
	band := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": 1},
			"start": map[string]any{"type": "number", "minimum": 0},
		},
		"required": []string{"name", "start"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"project_bands":    map[string]any{"type": "array", "items": band, "minItems": 1},
			"line_tolerance":   map[string]any{"type": "number", "exclusiveMinimum": 0},
			"header_offset":    map[string]any{"type": "number"},
			"default_data_top": map[string]any{"type": "number", "minimum": 0},
			"region_markers": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			},
		},
	}
}

// LoadProfile reads a JSON or YAML profile from path, validates it and
// overlays it on the defaults. An empty path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return p, err
		}
	}
	return ParseProfile(data)
}

// ParseProfile validates raw JSON and overlays it on the defaults.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := validateJSONAgainstSchema(BuildProfileJSONSchema(), data); err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode profile: %w", err)
	}
	sort.SliceStable(p.ProjectBands, func(i, j int) bool {
		return p.ProjectBands[i].Start < p.ProjectBands[j].Start
	})
	return p, nil
}

// yamlToJSON re-encodes a YAML document so it goes through the same schema.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml profile: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml profile: %w", err)
	}
	return out, nil
}

func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("profile.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("profile does not match schema: %w", err)
	}
	return nil
}
