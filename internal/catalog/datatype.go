package catalog

import (
	"encoding/json"
	"fmt"
)

// DataType is a coarse category hint for a column.
type DataType int

// Unknown is the zero value and the fallback when no type can be found.
const (
	Unknown DataType = iota
	String
	DateTime
	Object
	Array
)

var dataTypeNames = map[DataType]string{
	Unknown:  "Unknown",
	String:   "String",
	DateTime: "DateTime",
	Object:   "Object",
	Array:    "Array",
}

// String returns the display name used in edge labels.
func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(d))
}

// IsKnown reports whether d is a concrete type.
func (d DataType) IsKnown() bool {
	return d != Unknown
}

// MarshalJSON encodes the display name.
func (d DataType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ParseDataType maps a catalog "datatype.type" value to a DataType.
// Only the four declared categories are accepted; "unknown" is not a valid
// declaration.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "string":
		return String, nil
	case "datetime":
		return DateTime, nil
	case "object":
		return Object, nil
	case "array":
		return Array, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownDataType, s)
}
