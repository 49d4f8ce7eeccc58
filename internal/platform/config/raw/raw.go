// Package raw is a logging-free view over environment variables.
// The logger bootstraps itself from here, so this package must not
// import the logger or the main config package.
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed raw env view
type Conf struct{ prefix string }

// New returns a root raw Conf
func New() Conf { return Conf{} }

// Prefix returns a child view with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Get returns the trimmed value or def when missing/empty
func (c Conf) Get(key, def string) string {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	if v == "" {
		return def
	}
	return v
}

// GetBool returns the parsed bool or def when missing or unparseable
func (c Conf) GetBool(key string, def bool) bool {
	s := c.Get(key, "")
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

// GetInt returns the parsed int or def when missing or unparseable
func (c Conf) GetInt(key string, def int) int {
	s := c.Get(key, "")
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
