package catalog

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/php"
)

// ConstraintDescriptor identifies one discovered constraint class
type ConstraintDescriptor struct {
	ClassName  string // fully-qualified, without a leading separator
	ShortName  string
	MethodName string // ShortName with the first letter lowercased
}

// NewDescriptor derives a descriptor from a fully-qualified class name
func NewDescriptor(fqcn string) ConstraintDescriptor {
	fqcn = strings.TrimPrefix(fqcn, `\`)
	short := php.ShortName(fqcn)
	return ConstraintDescriptor{
		ClassName:  fqcn,
		ShortName:  short,
		MethodName: lowerFirst(short),
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Catalog lists constraint classes: instantiable classes that are subtypes
// of the base constraint type.
type Catalog struct {
	loader *Loader
	base   string

	// short names of the last discovery, lowercased
	discovered map[string]string
}

// New creates a catalog over loader. base is the fully-qualified base constraint class.
func New(loader *Loader, base string) *Catalog {
	return &Catalog{
		loader:     loader,
		base:       strings.TrimPrefix(base, `\`),
		discovered: make(map[string]string),
	}
}

// Loader returns the class loader backing the catalog
func (c *Catalog) Loader() *Loader {
	return c.loader
}

// ListConstraintClasses walks dir in lexical order and returns every
// constraint class declared below it, in discovery order.
func (c *Catalog) ListConstraintClasses(dir string) ([]ConstraintDescriptor, error) {
	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		return nil, errors.NewDirectoryNotFoundError(dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".php") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.DiscoveryErrorCode, "failed to walk "+dir, err)
	}

	descriptors := make([]ConstraintDescriptor, 0, len(files))
	for _, path := range files {
		file, err := c.loader.LoadFile(path)
		if err != nil {
			return nil, err
		}

		for _, class := range file.Classes {
			if !class.Instantiable() {
				continue
			}
			ok, err := c.IsConstraint(class.FQCN())
			if err != nil {
				return nil, errors.NewIntrospectionError(class.FQCN(), "cannot resolve its ancestors", err)
			}
			if !ok {
				continue
			}

			desc := NewDescriptor(class.FQCN())
			c.discovered[strings.ToLower(desc.ShortName)] = desc.ClassName
			descriptors = append(descriptors, desc)
		}
	}
	return descriptors, nil
}

// IsConstraint reports whether fqcn is the base constraint type or one of its
// subtypes. Ancestors that cannot be located end their branch of the search.
func (c *Catalog) IsConstraint(fqcn string) (bool, error) {
	return c.isSubtype(strings.TrimPrefix(fqcn, `\`), make(map[string]bool))
}

func (c *Catalog) isSubtype(fqcn string, seen map[string]bool) (bool, error) {
	if strings.EqualFold(fqcn, c.base) {
		return true, nil
	}
	key := strings.ToLower(fqcn)
	if seen[key] {
		return false, nil
	}
	seen[key] = true

	class, err := c.loader.FindClass(fqcn)
	if stderrors.Is(err, php.ErrClassNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, ancestor := range class.Ancestors() {
		ok, err := c.isSubtype(ancestor, seen)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// ResolveShortName maps a short class name to a discovered constraint class
func (c *Catalog) ResolveShortName(name string) (string, bool) {
	fqcn, ok := c.discovered[strings.ToLower(name)]
	return fqcn, ok
}
