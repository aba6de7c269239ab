package models

import "strings"

// MonthNames is the fixed calendar used as month keys in year records.
// Index 0 is January.
var MonthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the key for a zero-based month index, or "" when out of range
func MonthName(index int) string {
	if index < 0 || index >= len(MonthNames) {
		return ""
	}
	return MonthNames[index]
}

// MonthIndex resolves a month key to its zero-based index
func MonthIndex(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, m := range MonthNames {
		if m == name {
			return i, true
		}
	}
	return -1, false
}

// IsYearKey reports whether a document key names a year record
func IsYearKey(key string) bool {
	if len(key) != 4 {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
