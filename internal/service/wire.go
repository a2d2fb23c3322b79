package service

import (
	"strconv"
	"strings"
)

// LooseInt unmarshals a JSON number or numeric string, and coerces null
// or junk to zero instead of rejecting the whole order over one bad
// field.
type LooseInt int

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	*n = LooseInt(looseFloat(data))
	return nil
}

// LooseFloat is the float counterpart of LooseInt, used for prices.
type LooseFloat float64

func (n *LooseFloat) UnmarshalJSON(data []byte) error {
	*n = LooseFloat(looseFloat(data))
	return nil
}

func looseFloat(data []byte) float64 {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" || s == "null" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// splitSideItems parses the comma-joined accompaniments string from the
// menu client: each token is trimmed, a blank string yields an empty
// list. Token order is preserved.
func splitSideItems(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
