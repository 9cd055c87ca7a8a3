package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader looks up variables and records values it had to replace with a
// default, so the caller can report them once a logger exists.
type envReader struct {
	warnings []string
}

func lookup[T any](r *envReader, key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		r.warnings = append(r.warnings, fmt.Sprintf("%s=%q is invalid (%v), using %v", key, raw, err, def))
		return def
	}
	return v
}

func (r *envReader) str(key, def string) string {
	return lookup(r, key, def, func(s string) (string, error) { return s, nil })
}

func (r *envReader) integer(key string, def int) int {
	return lookup(r, key, def, strconv.Atoi)
}

func (r *envReader) boolean(key string, def bool) bool {
	return lookup(r, key, def, strconv.ParseBool)
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	return lookup(r, key, def, time.ParseDuration)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
