package dataset

import "fmt"

// SchemaError reports a source table that cannot be normalized
// (no rows, no columns, or no usable name column).
type SchemaError struct {
	Source string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s: schema: %s", e.Source, e.Reason)
}

// RegionNotFoundError reports a region with no backing dataset.
type RegionNotFoundError struct {
	Region string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("region not found: %s", e.Region)
}

// ColumnNotFoundError reports a requested round column absent from a table.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Column)
}
