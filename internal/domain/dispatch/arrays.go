package dispatch

import "github.com/lib/pq"

// textArray renders a NULL-when-empty text[] bind value so SQL filters can
// use the `$n::text[] IS NULL OR col = ANY($n)` shape.
func textArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
