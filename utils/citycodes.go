// utils/citycodes.go
package utils

import "strings"

// NormalizeCityCode trims and uppercases a location code so user input like
// " mad " compares equal to the catalog's "MAD".
func NormalizeCityCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
