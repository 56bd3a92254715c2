package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/fluentgen/internal/catalog"
	"github.com/toyz/fluentgen/internal/composer"
	"github.com/toyz/fluentgen/internal/emitter"
	"github.com/toyz/fluentgen/internal/errors"
	"github.com/toyz/fluentgen/internal/format"
	"github.com/toyz/fluentgen/internal/introspect"
	"github.com/toyz/fluentgen/internal/utils"
)

// Generator coordinates library discovery and interface emission
type Generator struct {
	config      *Config
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// GenerationSummary contains information about the last run
type GenerationSummary struct {
	LibraryDir            string
	LibraryVersion        string
	ConstraintsDiscovered int
	InterfacesGenerated   int
	MethodsWritten        int
	Hazards               []emitter.OrderingHazard
	GeneratedFiles        []string
}

// NewGenerator creates a generator. A nil diagnostics system discards output.
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Generator{config: config, diagnostics: diagnostics}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// library is the located constraint library
type library struct {
	dir        string
	version    string
	autoloader *composer.Autoloader
}

// discovery holds everything built from the library for one run
type discovery struct {
	descriptors []catalog.ConstraintDescriptor
	emitter     *emitter.Emitter
}

func (g *Generator) resolveLibrary() (*library, error) {
	cfg := g.config

	if cfg.LibraryPath != "" {
		dir := cfg.Resolve(cfg.LibraryPath)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, errors.NewDirectoryNotFoundError(dir)
		}

		// installed packages still provide ancestors outside the library
		autoloader := composer.NewAutoloader()
		vendor := composer.VendorDir(cfg.WorkDir, cfg.VendorDir)
		if installed, err := composer.LoadInstalled(vendor); err == nil {
			autoloader = installed.Autoloader()
		} else {
			g.diagnostics.Debug("No Composer installation used: %v", err)
		}
		autoloader.AddPSR4(cfg.LibraryNamespace, dir)
		return &library{dir: dir, autoloader: autoloader}, nil
	}

	vendor := composer.VendorDir(cfg.WorkDir, cfg.VendorDir)
	g.diagnostics.Debug("Reading Composer installation in %s", vendor)

	lib, err := composer.Locate(vendor, cfg.Package)
	if err != nil {
		return nil, err
	}
	if err := composer.CheckMinVersion(lib.Package, cfg.MinVersion); err != nil {
		return nil, err
	}
	return &library{
		dir:        lib.Dir,
		version:    lib.Package.Version,
		autoloader: lib.Installed.Autoloader(),
	}, nil
}

func (g *Generator) discover() (*discovery, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	lib, err := g.resolveLibrary()
	if err != nil {
		return nil, err
	}
	g.summary.LibraryDir = lib.dir
	g.summary.LibraryVersion = lib.version

	cat := catalog.New(catalog.NewLoader(lib.autoloader), g.config.BaseConstraint)
	descriptors, err := cat.ListConstraintClasses(filepath.Join(lib.dir, g.config.ConstraintsDir))
	if err != nil {
		return nil, err
	}
	g.summary.ConstraintsDiscovered = len(descriptors)

	types := format.NewTypeFormatter(g.config.QualifyPrefixes, cat)
	return &discovery{
		descriptors: descriptors,
		emitter:     emitter.New(g.config.Namespace, introspect.New(cat.Loader()), types),
	}, nil
}

// List returns the discovered constraints in emission order
func (g *Generator) List() ([]catalog.ConstraintDescriptor, error) {
	g.summary = GenerationSummary{}
	d, err := g.discover()
	if err != nil {
		return nil, err
	}
	return d.descriptors, nil
}

// Run generates every configured interface
func (g *Generator) Run() error {
	targets, err := g.config.Targets()
	if err != nil {
		return err
	}
	return g.Generate(targets)
}

// Generate writes each target to <output_dir>/<Name>.php. The first failure
// aborts the run; files already written are left in place.
func (g *Generator) Generate(targets []emitter.Target) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Header("Generating fluent interfaces")
	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))

	g.diagnostics.PhaseHeader("Discovery")
	d, err := g.discover()
	if err != nil {
		return err
	}
	g.diagnostics.PhaseItem("Library: %s", g.summary.LibraryDir)
	if g.summary.LibraryVersion != "" {
		g.diagnostics.PhaseItem("Version: %s", g.summary.LibraryVersion)
	}
	g.diagnostics.PhaseItem("Found %d constraints", len(d.descriptors))
	for _, desc := range d.descriptors {
		g.diagnostics.Debug("%s -> %s()", desc.ClassName, desc.MethodName)
	}

	outputDir := g.config.Resolve(g.config.OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.NewWriteError(outputDir, "create directory", err)
	}

	g.diagnostics.PhaseHeader("Generation")
	for _, target := range targets {
		path := filepath.Join(outputDir, target.FileName())
		g.diagnostics.PhaseProgress("Writing %s", path)

		result, err := d.emitter.EmitFile(path, target, d.descriptors)
		if err != nil {
			return err
		}

		for _, hazard := range result.Hazards {
			g.diagnostics.Warn("%s: %s", target.Name, hazard)
		}
		g.summary.InterfacesGenerated++
		g.summary.MethodsWritten += result.Methods
		g.summary.Hazards = append(g.summary.Hazards, result.Hazards...)
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
	}

	g.diagnostics.Verbose("Generation took %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// Clean removes the generated files of the configured interfaces. Missing
// files are skipped.
func (g *Generator) Clean() ([]string, error) {
	targets, err := g.config.Targets()
	if err != nil {
		return nil, err
	}

	outputDir := g.config.Resolve(g.config.OutputDir)
	var removed []string
	for _, target := range targets {
		path := filepath.Join(outputDir, target.FileName())
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.NewWriteError(path, "remove", err)
		}
		g.diagnostics.Verbose("Removed %s", path)
		removed = append(removed, path)
	}
	return removed, nil
}

// ReportSuccess prints the summary of the last run
func (g *Generator) ReportSuccess() {
	s := g.summary
	g.diagnostics.Summary("Summary", map[string]interface{}{
		"constraints": s.ConstraintsDiscovered,
		"interfaces":  s.InterfacesGenerated,
		"methods":     s.MethodsWritten,
		"hazards":     len(s.Hazards),
	})
	g.diagnostics.Indent()
	for _, file := range s.GeneratedFiles {
		g.diagnostics.List("%s", file)
	}
	g.diagnostics.Unindent()
	if len(s.Hazards) > 0 {
		g.diagnostics.Warn("%d method(s) declare a required parameter after an optional one; PHP deprecates this order", len(s.Hazards))
	}
	g.diagnostics.GenerationComplete()
}
