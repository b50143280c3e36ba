package grid

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// gridSchemaDoc describes the wire shape of a Grid payload: an array of
// rows (possibly empty), each an array of strings. This is a structural check on
// the transport payload, independent of the parser's own tolerance for
// ragged rows and empty cells.
const gridSchemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "array",
    "items": { "type": "string" }
  }
}`

// Validator compiles the grid shape schema once and reuses it for every
// incoming payload.
type Validator struct {
	schema  *jsonschema.Schema
	maxRows int
	maxCols int
}

// NewValidator compiles the schema. maxRows/maxCols of 0 disable the
// corresponding ceiling check (only the JSON shape is enforced).
func NewValidator(maxRows, maxCols int) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("grid.json", strings.NewReader(gridSchemaDoc)); err != nil {
		return nil, fmt.Errorf("compile grid schema: %w", err)
	}
	schema, err := compiler.Compile("grid.json")
	if err != nil {
		return nil, fmt.Errorf("compile grid schema: %w", err)
	}
	return &Validator{schema: schema, maxRows: maxRows, maxCols: maxCols}, nil
}

// ValidateJSON checks raw JSON bytes against the grid shape schema and the
// configured row/column ceilings, returning the decoded Grid on success.
func (v *Validator) ValidateJSON(data []byte) (Grid, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("invalid grid JSON: %w", err)
	}

	if err := v.schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("grid does not match expected shape: %w", err)
	}

	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid grid JSON: %w", err)
	}

	return g, v.validateDimensions(g)
}

// ValidateGrid checks an already-decoded Grid against the configured
// row/column ceilings, skipping the JSON-shape check ValidateJSON performs
// on raw wire input.
func (v *Validator) ValidateGrid(g Grid) error {
	return v.validateDimensions(g)
}

func (v *Validator) validateDimensions(g Grid) error {
	if v.maxRows > 0 && len(g) > v.maxRows {
		return fmt.Errorf("grid has %d rows, exceeds configured maximum %d", len(g), v.maxRows)
	}
	if v.maxCols == 0 {
		return nil
	}
	for i, row := range g {
		if len(row) > v.maxCols {
			return fmt.Errorf("row %d has %d cols, exceeds configured maximum %d", i, len(row), v.maxCols)
		}
	}
	return nil
}
