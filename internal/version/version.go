// Package version provides version information and version comparison.
package version

import (
	"fmt"
	"strings"
)

// Version is the current version of gdbmi
const Version = "0.1.0"

// GetVersion returns the current version
func GetVersion() string {
	return Version
}

// Compare compares two dotted version strings.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2. Missing components
// count as zero and pre-release suffixes ("14.2-rc1") are ignored.
func Compare(v1, v2 string) int {
	a, b := parse(v1), parse(v2)
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parse(v string) [3]int {
	var out [3]int
	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	for i := 0; i < len(parts) && i < len(out); i++ {
		num := strings.FieldsFunc(parts[i], func(r rune) bool { return r < '0' || r > '9' })
		if len(num) > 0 {
			fmt.Sscanf(num[0], "%d", &out[i])
		}
	}
	return out
}
