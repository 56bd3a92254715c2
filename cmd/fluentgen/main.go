// Command fluentgen generates the fluent validator interfaces from an
// installed constraint library.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/toyz/fluentgen/internal/cli"
	"github.com/toyz/fluentgen/internal/emitter"
	"github.com/toyz/fluentgen/internal/utils"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd()); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config  string
	dir     string
	verbose bool
	quiet   bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "fluentgen",
		Short: "Generate fluent validator interfaces",
		Long: `fluentgen reads the constraint classes of an installed validation library and
writes PHP interfaces with one chainable method per constraint.`,
		Version: fmt.Sprintf("%s (%s) %s", version, commit, date),
		Example: `  fluentgen                    # both interfaces from fluentgen.toml or defaults
  fluentgen chained --verbose  # only the chained interface
  fluentgen list               # show discovered constraints`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return generate(cmd, opts, nil)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("fluentgen %s (%s) %s\n", version, commit, date))

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.config, "config", "c", "", "configuration file (default: fluentgen.toml, .yaml or .yml in --dir)")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "working directory of the project")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		flavorCmd(opts, emitter.StaticFactory, "Generate the static factory interface"),
		flavorCmd(opts, emitter.Chained, "Generate the chained interface with terminal methods"),
		listCmd(opts),
		cleanCmd(opts),
	)
	return cmd
}

func flavorCmd(opts *options, flavor emitter.Flavor, short string) *cobra.Command {
	return &cobra.Command{
		Use:   flavor.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := flavor
			return generate(cmd, opts, &f)
		},
	}
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered constraints and their method names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, diagnostics, err := setup(cmd, opts)
			if err != nil {
				return report(cmd, opts, err)
			}

			descriptors, err := cli.NewGenerator(cfg, diagnostics).List()
			if err != nil {
				return report(cmd, opts, err)
			}

			rows := make([][]string, 0, len(descriptors))
			for _, d := range descriptors {
				rows = append(rows, []string{d.MethodName, d.ClassName})
			}
			diagnostics.Table(rows)
			diagnostics.Verbose("%d constraints", len(descriptors))
			return nil
		},
	}
}

func cleanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated interface files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, diagnostics, err := setup(cmd, opts)
			if err != nil {
				return report(cmd, opts, err)
			}

			removed, err := cli.NewGenerator(cfg, diagnostics).Clean()
			if err != nil {
				return report(cmd, opts, err)
			}
			for _, path := range removed {
				diagnostics.List("%s", path)
			}
			diagnostics.Info("Removed %d file(s)", len(removed))
			return nil
		},
	}
}

func generate(cmd *cobra.Command, opts *options, flavor *emitter.Flavor) error {
	cfg, diagnostics, err := setup(cmd, opts)
	if err != nil {
		return report(cmd, opts, err)
	}

	var targets []emitter.Target
	if flavor == nil {
		targets, err = cfg.Targets()
	} else {
		targets, err = cfg.TargetsByFlavor(*flavor)
	}
	if err != nil {
		return report(cmd, opts, err)
	}

	gen := cli.NewGenerator(cfg, diagnostics)
	if err := gen.Generate(targets); err != nil {
		return report(cmd, opts, err)
	}
	gen.ReportSuccess()
	return nil
}

func setup(cmd *cobra.Command, opts *options) (*cli.Config, *utils.DiagnosticSystem, error) {
	level := utils.DiagnosticInfo
	switch {
	case opts.quiet:
		level = utils.DiagnosticError
	case opts.verbose:
		level = utils.DiagnosticVerbose
	}
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	var (
		cfg *cli.Config
		err error
	)
	if opts.config != "" {
		cfg, err = cli.LoadConfigFile(opts.config)
		if err == nil && cmd.Flags().Changed("dir") {
			cfg.WorkDir = opts.dir
		}
	} else {
		cfg, err = cli.LoadConfig(opts.dir)
	}
	if err != nil {
		return nil, nil, err
	}
	diagnostics.Debug("Working directory: %s", cfg.WorkDir)
	return cfg, diagnostics, nil
}

// report prints the detailed explanation of err and hands it back for the exit status
func report(cmd *cobra.Command, opts *options, err error) error {
	reporter := cli.NewDiagnosticReporter(opts.verbose)
	reporter.SetOutput(cmd.ErrOrStderr())
	reporter.ReportError(err)
	return err
}
