package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/zgl/internal/output"
	"github.com/conneroisu/zgl/internal/pipeline"
)

var inspectFlagKeys = map[string]string{
	"mode": "build.mode",
	"lib":  "build.library",
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		Aliases: []string{"i"},
		Short:   "Print the final build configuration",
		Long: `Resolve the build configuration exactly as build would and print it
without running esbuild. The table format summarizes each configuration;
json and yaml print the full documents, one for an application and a list
for library builds.

Examples:
  zgl inspect                    # Summary of the application config
  zgl inspect --lib -f json      # Every library config as JSON
  zgl inspect -f yaml --mode development`,
		Args: cobra.NoArgs,
		RunE: runInspect,
	}

	cmd.Flags().StringP("format", "f", "table", "output format (table, json, yaml)")
	cmd.Flags().Bool("lib", false, "inspect library configurations")
	cmd.Flags().StringP("mode", "m", "", "build mode (production, development, none)")
	return cmd
}

func runInspect(cmd *cobra.Command, _ []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(cmd, inspectFlagKeys)
	if err != nil {
		return err
	}

	result, err := pipeline.NewResolver(rt.logger).Resolve(cmd.Context(), rt.request())
	if err != nil {
		return err
	}

	formatter := &output.Formatter{Format: format, Writer: cmd.OutOrStdout()}
	if err := formatter.PrintConfigs(result.Configs, rt.settings.Build.Library); err != nil {
		return err
	}
	if format == output.FormatTable && result.OverridePath != "" {
		return formatter.PrintKeyValue("override", result.OverridePath)
	}
	return nil
}
