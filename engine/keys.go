package engine

import "fmt"

// groupKey normalizes a value for use as a map key when matching
// scanned columns against typed struct fields. Drivers on the
// database/sql path can return numeric and text columns as []byte, so
// raw byte slices stringify by content, not by fmt's byte-list form.
func groupKey(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}
