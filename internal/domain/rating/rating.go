// Package rating defines the five-level rating value and its storage mapping.
package rating

import "fmt"

// Value is one of the five discrete rating levels.
type Value int

// Rating levels.
const (
	Rated1 Value = 1
	Rated2 Value = 2
	Rated3 Value = 3
	Rated4 Value = 4
	Rated5 Value = 5
)

// Parse converts a raw submission value into a Value.
// Only the exact strings "1" through "5" are accepted.
func Parse(raw string) (Value, error) {
	switch raw {
	case "1":
		return Rated1, nil
	case "2":
		return Rated2, nil
	case "3":
		return Rated3, nil
	case "4":
		return Rated4, nil
	case "5":
		return Rated5, nil
	default:
		return 0, fmt.Errorf("bad rating value: %q", raw)
	}
}

// Valid reports whether v is one of the five levels.
func (v Value) Valid() bool {
	return v >= Rated1 && v <= Rated5
}

// Column returns the counter column holding this level.
// This is the only place a rating value maps to a SQL identifier.
func (v Value) Column() string {
	switch v {
	case Rated1:
		return "rated_1"
	case Rated2:
		return "rated_2"
	case Rated3:
		return "rated_3"
	case Rated4:
		return "rated_4"
	case Rated5:
		return "rated_5"
	default:
		return ""
	}
}

// Columns lists every counter column in level order.
func Columns() []string {
	return []string{"rated_1", "rated_2", "rated_3", "rated_4", "rated_5"}
}
