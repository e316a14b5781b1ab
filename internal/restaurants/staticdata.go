package restaurants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// datasetSchema constrains the static fallback dataset. Unknown fields are
// rejected so typos in hand-maintained JSON fail loudly instead of silently
// dropping data.
const datasetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "cuisine", "location", "rating", "visitDate"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "slug": {"type": "string"},
      "cuisine": {"type": "string"},
      "location": {"type": "string"},
      "rating": {"type": "number", "minimum": 0, "maximum": 5},
      "priceRange": {"type": "string"},
      "visitDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}"},
      "tags": {"type": "array", "items": {"type": "string"}},
      "summary": {"type": "string"},
      "photos": {
        "oneOf": [
          {"type": "string"},
          {"type": "integer", "minimum": 0},
          {"type": "array", "items": {"type": "string"}}
        ]
      }
    }
  }
}`

type staticRecord struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Cuisine    string   `json:"cuisine"`
	Location   string   `json:"location"`
	Rating     float64  `json:"rating"`
	PriceRange string   `json:"priceRange"`
	VisitDate  string   `json:"visitDate"`
	Tags       []string `json:"tags"`
	Summary    string   `json:"summary"`
	Photos     any      `json:"photos"`
}

func compileDatasetSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("restaurants.schema.json", bytes.NewReader([]byte(datasetSchema))); err != nil {
		return nil, err
	}
	return compiler.Compile("restaurants.schema.json")
}

func (s *Service) loadFromStaticData(ctx context.Context) ([]*Restaurant, error) {
	schema, err := compileDatasetSchema()
	if err != nil {
		return nil, fmt.Errorf("restaurants: compile dataset schema: %w", err)
	}

	var raw any
	if err := json.Unmarshal(s.staticData, &raw); err != nil {
		return nil, fmt.Errorf("restaurants: parse static dataset: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("restaurants: static dataset invalid: %w", err)
	}

	var entries []staticRecord
	if err := json.Unmarshal(s.staticData, &entries); err != nil {
		return nil, fmt.Errorf("restaurants: decode static dataset: %w", err)
	}

	records := make([]*Restaurant, 0, len(entries))
	for _, entry := range entries {
		slug := entry.Slug
		if slug == "" {
			slug = slugFromName(entry.Name)
		}

		record := &Restaurant{
			ID:         entry.ID,
			Name:       entry.Name,
			Slug:       slug,
			Cuisine:    entry.Cuisine,
			Location:   entry.Location,
			Rating:     entry.Rating,
			PriceRange: entry.PriceRange,
			VisitDate:  normalizeVisitDate(entry.VisitDate),
			Tags:       entry.Tags,
			Summary:    entry.Summary,
		}
		record.Photos = s.resolvePhotos(ctx, record, entry.Photos)
		records = append(records, record)
	}

	s.logger.Debug("static dataset loaded", "records", len(records))
	return records, nil
}

func slugFromName(name string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(name))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return normalized
}
