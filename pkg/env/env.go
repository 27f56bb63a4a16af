// Package env holds the one-off environment lookups that happen before
// the typed config is parsed (the logger boots first).
package env

import "os"

// Get returns the named variable, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
