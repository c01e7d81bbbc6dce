package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of the fields that affect compiled output.
// Server, logging and metrics settings are left out so that changing them
// does not look like a content configuration change.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }

	w("content.root", c.Content.Root)
	w("content.extension", strings.ToLower(c.Content.Extension))
	w("content.recursive", strconv.FormatBool(c.Content.Recursive))
	w("compiler.git_timestamps", strconv.FormatBool(c.Compiler.GitTimestamps))
	w("site.title", c.Site.Title)
	w("site.footer", strconv.FormatBool(c.Site.Footer))
	w("cache.backend", string(c.Cache.Backend))
	return hex.EncodeToString(h.Sum(nil))
}
