package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zgl/internal/engine"
	"github.com/conneroisu/zgl/internal/logging"
	"github.com/conneroisu/zgl/internal/pipeline"
)

// newEngine is swapped in tests.
var newEngine = func(logger logging.Logger) engine.Engine {
	return engine.NewEsbuild(logger)
}

var buildFlagKeys = map[string]string{
	"mode": "build.mode",
	"lib":  "build.library",
}

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Build the project with the synthesized configuration",
		Long: `Build the project once. Without --lib a single application bundle is
built together with its HTML page. With --lib one bundle is built per module
format the package exports (cjs, esm, umd), each into its own directory.

Examples:
  zgl build                        # Production application build
  zgl build --mode development     # Unminified build with source maps
  zgl build --lib                  # Library builds for every exported format
  zgl build --root ../app --src lib`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}

	cmd.Flags().StringP("mode", "m", "", "build mode (production, development, none)")
	cmd.Flags().Bool("lib", false, "build library bundles instead of an application")
	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	rt, err := loadRuntime(cmd, buildFlagKeys)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	result, err := pipeline.NewResolver(rt.logger).Resolve(ctx, rt.request())
	if err != nil {
		return err
	}
	if result.OverridePath != "" {
		rt.logger.Info(ctx, "Applied override", "path", result.OverridePath)
	}

	if err := newEngine(rt.logger).Build(ctx, result.Configs); err != nil {
		return err
	}

	s := newStyles(cmd.OutOrStdout())
	for _, c := range result.Configs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
			s.success.Render("✓"),
			s.label.Render(c.Name),
			s.value.Render(c.Output.Path))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n",
		s.hint.Render(fmt.Sprintf("built %d configuration(s) in %s", len(result.Configs), time.Since(start).Round(time.Millisecond))))
	return nil
}
