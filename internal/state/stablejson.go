package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// stableJSON renders value as JSON with object keys sorted
// lexicographically and arrays kept in their input order, so that two
// values equivalent up to map key order always serialize identically.
// It is the input to every deterministic id in this package — never use
// encoding/json directly for id derivation, since Go's map iteration
// order (and therefore json.Marshal's object key order for map[string]
// any) is already sorted, but caller-built maps from other languages or
// future refactors should not be trusted to stay that way.
func stableJSON(value any) string {
	var b strings.Builder
	writeStable(&b, value)
	return b.String()
}

func writeStable(b *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")
	case map[string]any:
		writeStableMap(b, v)
	case []any:
		writeStableSlice(b, v)
	case string:
		b.WriteString(strconv.Quote(v))
	case bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	default:
		// Structs and other concrete domain types route through
		// toStableAny first; reaching here means a caller passed
		// something unexpected.
		b.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func writeStableMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		writeStable(b, m[k])
	}
	b.WriteByte('}')
}

func writeStableSlice(b *strings.Builder, s []any) {
	b.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		writeStable(b, v)
	}
	b.WriteByte(']')
}
