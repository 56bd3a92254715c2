package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/toyz/fluentgen/internal/emitter"
	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/utils"
)

// ConfigFileNames are looked up in this order
var ConfigFileNames = []string{"fluentgen.toml", "fluentgen.yaml", "fluentgen.yml"}

// Config holds the configuration for a generation run
type Config struct {
	// Package is the Composer package providing the constraints
	Package string `toml:"package" yaml:"package"`

	// VendorDir is relative to the project root holding composer.json
	VendorDir string `toml:"vendor_dir" yaml:"vendor_dir"`

	// LibraryPath points at the library sources directly and bypasses Composer
	LibraryPath string `toml:"library_path" yaml:"library_path"`

	// LibraryNamespace is the PSR-4 prefix of LibraryPath
	LibraryNamespace string `toml:"library_namespace" yaml:"library_namespace"`

	ConstraintsDir  string   `toml:"constraints_dir" yaml:"constraints_dir"`
	BaseConstraint  string   `toml:"base_constraint" yaml:"base_constraint"`
	QualifyPrefixes []string `toml:"qualify_prefixes" yaml:"qualify_prefixes"`

	// Namespace of the generated interfaces
	Namespace string `toml:"namespace" yaml:"namespace"`
	OutputDir string `toml:"output_dir" yaml:"output_dir"`

	// MinVersion is the lowest accepted version of Package. Empty accepts any.
	MinVersion string `toml:"min_version" yaml:"min_version"`

	Interfaces []InterfaceConfig `toml:"interfaces" yaml:"interfaces"`

	// WorkDir anchors relative paths. It is the directory of the loaded file,
	// or the working directory when no file was found.
	WorkDir string `toml:"-" yaml:"-"`
}

// InterfaceConfig describes one generated interface
type InterfaceConfig struct {
	Name       string `toml:"name" yaml:"name"`
	Flavor     string `toml:"flavor" yaml:"flavor"`
	ReturnType string `toml:"return_type" yaml:"return_type"`
	Terminals  bool   `toml:"terminals" yaml:"terminals"`
}

// DefaultConfig generates both interfaces of the fluent validator from an
// installed symfony/validator.
func DefaultConfig() *Config {
	return &Config{
		Package:          "symfony/validator",
		VendorDir:        "vendor",
		LibraryNamespace: `Symfony\Component\Validator\`,
		ConstraintsDir:   "Constraints",
		BaseConstraint:   `Symfony\Component\Validator\Constraint`,
		QualifyPrefixes:  []string{`Symfony\`},
		Namespace:        `ProgrammatorDev\FluentValidator`,
		OutputDir:        "src",
		Interfaces: []InterfaceConfig{
			{Name: "StaticValidatorInterface", Flavor: "static", ReturnType: "ChainedValidatorInterface"},
			{Name: "ChainedValidatorInterface", Flavor: "chained", ReturnType: "ChainedValidatorInterface", Terminals: true},
		},
		WorkDir: ".",
	}
}

// FindConfig returns the first configuration file present in dir, or "" when there is none
func FindConfig(dir string) (string, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			cerr := errors.NewConfigurationError("", fmt.Sprintf("cannot access %s", path))
			cerr.WithCause(err)
			return "", cerr
		}
	}
	return "", nil
}

// LoadConfig loads the configuration file found in dir. Defaults are returned
// when dir holds none.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := DefaultConfig()
		cfg.WorkDir = dir
		return cfg, nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads a TOML or YAML file over the defaults. Keys that are
// not recognized are rejected.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		cerr := errors.NewConfigurationError("", fmt.Sprintf("cannot read config %s", path))
		cerr.WithCause(err)
		return nil, cerr
	}

	cfg := DefaultConfig()
	// an explicit interfaces list replaces the default one
	cfg.Interfaces = nil

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, parseError(path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.NewConfigurationError(undecoded[0].String(),
				fmt.Sprintf("%s: unknown key '%s'", path, undecoded[0].String()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, parseError(path, err)
		}
	default:
		return nil, errors.NewConfigurationError("", fmt.Sprintf("unsupported config format '%s' (use .toml, .yaml or .yml)", ext))
	}

	if cfg.Interfaces == nil {
		cfg.Interfaces = DefaultConfig().Interfaces
	}
	cfg.WorkDir = filepath.Dir(path)
	return cfg, nil
}

func parseError(path string, err error) error {
	cerr := errors.NewConfigurationError("", fmt.Sprintf("cannot parse config %s", path))
	cerr.WithCause(err).WithSuggestion("Keys are snake_case, for example output_dir and [[interfaces]]")
	return cerr
}

// Validate checks the configuration before anything is read from disk. All
// problems are reported together.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		check func() error
	}{
		{"namespace", func() error { return utils.IsPHPNamespace("namespace")(c.Namespace) }},
		{"base_constraint", func() error { return utils.IsPHPNamespace("base_constraint")(c.BaseConstraint) }},
		{"constraints_dir", func() error { return utils.NotEmpty("constraints_dir")(c.ConstraintsDir) }},
		{"output_dir", func() error { return utils.NotEmpty("output_dir")(c.OutputDir) }},
		{"package", func() error {
			if c.LibraryPath != "" {
				return nil
			}
			return utils.NotEmpty("package")(c.Package)
		}},
		{"library_namespace", func() error {
			if c.LibraryPath == "" {
				return nil
			}
			return utils.NewValidatorChain(utils.IsPHPNamespace("library_namespace")).
				Add(utils.HasSuffix("library_namespace", `\`)).
				Validate(c.LibraryNamespace)
		}},
		{"qualify_prefixes", func() error {
			return utils.ValidateEach("qualify_prefixes", utils.NotEmpty("prefix"))(c.QualifyPrefixes)
		}},
		{"interfaces", func() error {
			if len(c.Interfaces) == 0 {
				return utils.ValidationError{Field: "interfaces", Message: "at least one interface is required"}
			}
			return utils.Unique("interfaces", func(i InterfaceConfig) string { return strings.ToLower(i.Name) })(c.Interfaces)
		}},
	}

	problems := errors.NewMultipleErrors()
	for _, ch := range checks {
		if err := ch.check(); err != nil {
			problems.Add(errors.NewConfigurationError(ch.key, err.Error()))
		}
	}

	for i, iface := range c.Interfaces {
		key := fmt.Sprintf("interfaces[%d]", i)
		if err := utils.IsPHPIdentifier(key + ".name")(iface.Name); err != nil {
			problems.Add(errors.NewConfigurationError(key+".name", err.Error()))
		}
		if err := utils.IsPHPNamespace(key + ".return_type")(iface.ReturnType); err != nil {
			problems.Add(errors.NewConfigurationError(key+".return_type", err.Error()))
		}
		flavor, err := emitter.ParseFlavor(iface.Flavor)
		if err != nil {
			problems.Add(errors.NewConfigurationError(key+".flavor", fmt.Sprintf("interface %s: %v", iface.Name, err)))
			continue
		}
		if iface.Terminals && flavor != emitter.Chained {
			problems.Add(errors.NewConfigurationError(key+".terminals",
				fmt.Sprintf("interface %s: terminal methods require the chained flavor", iface.Name)))
		}
	}

	if len(problems.Errors) == 1 {
		return problems.Errors[0]
	}
	return problems.ErrorOrNil()
}

// Targets converts the interface list into emitter targets. Names select a
// subset, matched case-insensitively; an empty selection returns all.
func (c *Config) Targets(names ...string) ([]emitter.Target, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = true
	}

	var targets []emitter.Target
	for _, iface := range c.Interfaces {
		if len(wanted) > 0 && !wanted[strings.ToLower(iface.Name)] {
			continue
		}
		flavor, err := emitter.ParseFlavor(iface.Flavor)
		if err != nil {
			return nil, errors.NewConfigurationError("flavor", err.Error())
		}
		delete(wanted, strings.ToLower(iface.Name))
		targets = append(targets, emitter.Target{
			Name:       iface.Name,
			Flavor:     flavor,
			ReturnType: iface.ReturnType,
			Terminals:  iface.Terminals,
		})
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, errors.NewConfigurationError("interfaces",
			fmt.Sprintf("no configured interface named %s", strings.Join(missing, ", ")))
	}
	return targets, nil
}

// TargetsByFlavor returns the configured interfaces of one flavor
func (c *Config) TargetsByFlavor(flavor emitter.Flavor) ([]emitter.Target, error) {
	all, err := c.Targets()
	if err != nil {
		return nil, err
	}
	var targets []emitter.Target
	for _, t := range all {
		if t.Flavor == flavor {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil, errors.NewConfigurationError("interfaces", fmt.Sprintf("no %s interface is configured", flavor))
	}
	return targets, nil
}

// Resolve anchors a configured path at WorkDir
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}
