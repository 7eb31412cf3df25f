package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/zgl/internal/output"
	"github.com/conneroisu/zgl/internal/version"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version information for zgl including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go and esbuild versions
- Target platform (OS/architecture)

Examples:
  zgl version                 # Show version details
  zgl version --short         # Show short version only
  zgl version --format json   # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	cmd.Flags().Bool("short", false, "show short version only")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	short, _ := cmd.Flags().GetBool("short")
	info := version.GetBuildInfo()
	w := cmd.OutOrStdout()

	switch format {
	case "json":
		formatter := &output.Formatter{Format: output.FormatJSON, Writer: w}
		return formatter.Print(struct {
			*version.BuildInfo
			IsRelease bool `json:"is_release"`
		}{info, info.IsRelease()})
	case "text":
		if short {
			_, err := fmt.Fprintln(w, info.Short())
			return err
		}
		s := newStyles(w)
		fmt.Fprintf(w, "%s %s\n", s.success.Render("zgl"), info.Short())
		_, err := fmt.Fprintln(w, s.value.Render(info.Detailed()))
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}
