package async

import "fmt"

// anyToString renders a comparable memoize key as a singleflight.Group key.
// %v is sufficient here: memoize keys are small identifiers (entity ids,
// string command names), never large structures.
func anyToString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}
