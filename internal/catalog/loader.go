// Package catalog discovers constraint classes in PHP sources and answers
// class-graph questions about them.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/toyz/fluentgen/internal/php"
	"github.com/toyz/fluentgen/internal/utils"
)

// Locator maps a fully-qualified class name to the file declaring it
type Locator interface {
	Locate(fqcn string) (string, bool)
}

// Loader parses PHP files on demand and indexes the classes they declare.
// It implements php.ClassFinder.
type Loader struct {
	locator Locator
	reader  *utils.FileReader
	files   *utils.Cache[string, *php.File]

	mu      sync.RWMutex
	classes map[string]*php.Class
}

// NewLoader creates a loader. locator may be nil, in which case only
// classes from explicitly loaded files are known.
func NewLoader(locator Locator) *Loader {
	return &Loader{
		locator: locator,
		reader:  utils.NewFileReader(),
		files:   utils.NewCache[string, *php.File](),
		classes: make(map[string]*php.Class),
	}
}

// LoadFile parses path, or returns the cached parse while the file is unchanged
func (l *Loader) LoadFile(path string) (*php.File, error) {
	path = filepath.Clean(path)
	file, err := l.files.LoadFile(path, path, func() (*php.File, error) {
		src, err := l.reader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return php.ParseFile(path, src)
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	for _, class := range file.Classes {
		l.classes[strings.ToLower(class.FQCN())] = class
	}
	l.mu.Unlock()

	return file, nil
}

// FindClass returns the declaration of fqcn. Class names are case-insensitive.
// An unknown class yields an error wrapping php.ErrClassNotFound.
func (l *Loader) FindClass(fqcn string) (*php.Class, error) {
	fqcn = strings.TrimPrefix(fqcn, `\`)
	key := strings.ToLower(fqcn)

	l.mu.RLock()
	class, ok := l.classes[key]
	l.mu.RUnlock()
	if ok {
		return class, nil
	}

	if l.locator != nil {
		if path, found := l.locator.Locate(fqcn); found {
			if _, err := l.LoadFile(path); err != nil {
				return nil, err
			}
			l.mu.RLock()
			class, ok = l.classes[key]
			l.mu.RUnlock()
			if ok {
				return class, nil
			}
		}
	}

	return nil, fmt.Errorf("%s: %w", fqcn, php.ErrClassNotFound)
}
