package composer

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type psr4Rule struct {
	prefix string
	dirs   []string
}

// Autoloader maps fully-qualified class names to source files using PSR-4 rules
type Autoloader struct {
	rules []*psr4Rule
}

// NewAutoloader creates an empty autoloader
func NewAutoloader() *Autoloader {
	return &Autoloader{}
}

// AddPSR4 registers dirs for a namespace prefix such as "Symfony\Component\Validator\".
// An empty prefix registers fallback directories.
func (a *Autoloader) AddPSR4(prefix string, dirs ...string) {
	prefix = strings.TrimPrefix(prefix, `\`)
	if prefix != "" && !strings.HasSuffix(prefix, `\`) {
		prefix += `\`
	}

	for _, rule := range a.rules {
		if rule.prefix == prefix {
			rule.dirs = append(rule.dirs, dirs...)
			return
		}
	}
	a.rules = append(a.rules, &psr4Rule{prefix: prefix, dirs: dirs})

	// longest prefix first
	slices.SortStableFunc(a.rules, func(x, y *psr4Rule) int {
		return len(y.prefix) - len(x.prefix)
	})
}

// Locate returns the file expected to declare fqcn, if one exists
func (a *Autoloader) Locate(fqcn string) (string, bool) {
	fqcn = strings.TrimPrefix(fqcn, `\`)
	for _, rule := range a.rules {
		if !strings.HasPrefix(fqcn, rule.prefix) {
			continue
		}
		rel := strings.ReplaceAll(fqcn[len(rule.prefix):], `\`, string(filepath.Separator)) + ".php"
		for _, dir := range rule.dirs {
			path := filepath.Join(dir, rel)
			if stat, err := os.Stat(path); err == nil && stat.Mode().IsRegular() {
				return path, true
			}
		}
	}
	return "", false
}

// Prefixes returns the registered namespace prefixes, longest first
func (a *Autoloader) Prefixes() []string {
	out := make([]string, len(a.rules))
	for i, rule := range a.rules {
		out[i] = rule.prefix
	}
	return out
}
