package utils

import (
	"os"
)

// Env returns the value of the named environment variable or fallback when
// it is not set.
func Env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
