// Package composer reads the metadata Composer leaves in a vendor directory:
// installed packages, their install paths and their PSR-4 autoload maps.
package composer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/toyz/fluentgen/internal/errors"
)

// PSR4 maps a namespace prefix to one or more directories relative to the package root
type PSR4 map[string][]string

// UnmarshalJSON accepts both the string and the list form of a PSR-4 entry
func (p *PSR4) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(PSR4, len(raw))
	for prefix, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[prefix] = []string{single}
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err != nil {
			return fmt.Errorf("invalid psr-4 entry for %q: %w", prefix, err)
		}
		out[prefix] = many
	}
	*p = out
	return nil
}

// Autoload is the autoload section of a package
type Autoload struct {
	PSR4 PSR4 `json:"psr-4"`
}

// Package is a single entry of installed.json
type Package struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	InstallPath string   `json:"install-path"`
	Autoload    Autoload `json:"autoload"`
}

// Installed is the set of packages installed in a vendor directory
type Installed struct {
	VendorDir string
	Packages  []Package
}

// LoadInstalled reads <vendorDir>/composer/installed.json. Both the
// Composer 2 object format and the Composer 1 list format are supported.
func LoadInstalled(vendorDir string) (*Installed, error) {
	path := filepath.Join(vendorDir, "composer", "installed.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	installed := &Installed{VendorDir: vendorDir}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &installed.Packages)
	} else {
		var doc struct {
			Packages []Package `json:"packages"`
		}
		err = json.Unmarshal(data, &doc)
		installed.Packages = doc.Packages
	}
	if err != nil {
		return nil, errors.Wrap(errors.DiscoveryErrorCode, fmt.Sprintf("failed to parse %s", path), err)
	}

	return installed, nil
}

// Library is a located package together with the rest of its installation
type Library struct {
	Installed *Installed
	Package   *Package
	Dir       string
}

// Locate loads the installed packages of vendorDir and resolves the install
// path of name. Every failure is reported as a LibraryNotInstalled error.
func Locate(vendorDir, name string) (*Library, error) {
	installed, err := LoadInstalled(vendorDir)
	if err != nil {
		return nil, errors.NewLibraryNotInstalledError(name, vendorDir, err)
	}
	dir, err := installed.InstallPath(name)
	if err != nil {
		return nil, err
	}
	pkg, _ := installed.Package(name)
	return &Library{Installed: installed, Package: pkg, Dir: dir}, nil
}

// Package returns the installed package with the given name
func (i *Installed) Package(name string) (*Package, bool) {
	for idx := range i.Packages {
		if strings.EqualFold(i.Packages[idx].Name, name) {
			return &i.Packages[idx], true
		}
	}
	return nil, false
}

// InstallPath returns the directory a package was installed into
func (i *Installed) InstallPath(name string) (string, error) {
	pkg, ok := i.Package(name)
	if !ok {
		return "", errors.NewLibraryNotInstalledError(name, i.VendorDir, nil)
	}

	dir := i.packageDir(pkg)
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", dir)
		}
		return "", errors.NewLibraryNotInstalledError(name, i.VendorDir, err)
	}
	return dir, nil
}

// packageDir resolves install-path relative to vendor/composer, falling back to vendor/<name>
func (i *Installed) packageDir(pkg *Package) string {
	if pkg.InstallPath == "" {
		return filepath.Join(i.VendorDir, filepath.FromSlash(pkg.Name))
	}
	if filepath.IsAbs(pkg.InstallPath) {
		return filepath.Clean(pkg.InstallPath)
	}
	return filepath.Join(i.VendorDir, "composer", filepath.FromSlash(pkg.InstallPath))
}

// Autoloader builds a PSR-4 autoloader over every installed package
func (i *Installed) Autoloader() *Autoloader {
	loader := NewAutoloader()
	for idx := range i.Packages {
		pkg := &i.Packages[idx]
		base := i.packageDir(pkg)
		for prefix, dirs := range pkg.Autoload.PSR4 {
			for _, dir := range dirs {
				loader.AddPSR4(prefix, filepath.Join(base, filepath.FromSlash(dir)))
			}
		}
	}
	return loader
}

// CheckMinVersion verifies that pkg is at least version min. An empty min always passes.
func CheckMinVersion(pkg *Package, min string) error {
	if min == "" {
		return nil
	}

	want := canonical(min)
	if !semver.IsValid(want) {
		return errors.NewConfigurationError("min_version", fmt.Sprintf("'%s' is not a semantic version", min))
	}

	have := canonical(pkg.Version)
	if !semver.IsValid(have) {
		return errors.Newf(errors.DiscoveryErrorCode, "installed version '%s' of %s cannot be compared", pkg.Version, pkg.Name).
			WithContext("package", pkg.Name).
			WithSuggestion("Install a tagged release or remove min_version from the configuration")
	}

	if semver.Compare(have, want) < 0 {
		return errors.Newf(errors.DiscoveryErrorCode, "%s %s is older than the required %s", pkg.Name, pkg.Version, min).
			WithContext("package", pkg.Name).
			WithSuggestion(fmt.Sprintf("Run 'composer require %s:^%s'", pkg.Name, strings.TrimPrefix(min, "v")))
	}
	return nil
}

func canonical(version string) string {
	version = strings.TrimSpace(version)
	if version != "" && !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
