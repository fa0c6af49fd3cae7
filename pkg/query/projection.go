package query

import "fmt"

// ProjectionMap translates external field names into SQL column expressions,
// guarding against injection through caller-provided identifiers.
type ProjectionMap struct {
	columns map[string]string
}

// NewProjectionMap creates a projection map from field names to column
// expressions.
func NewProjectionMap(columns map[string]string) *ProjectionMap {
	return &ProjectionMap{columns: columns}
}

// Column resolves a field name to its column expression.
func (p *ProjectionMap) Column(field string) (string, error) {
	column, ok := p.columns[field]
	if !ok {
		return "", fmt.Errorf("unknown field: %s", field)
	}

	return column, nil
}

// Has reports whether the field is projectable.
func (p *ProjectionMap) Has(field string) bool {
	_, ok := p.columns[field]
	return ok
}
