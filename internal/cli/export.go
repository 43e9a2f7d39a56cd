package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/render/nodelink"
)

// exportCommand creates the export command for writing a settled layout.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		src      sourceFlags
		run      settleFlags
		format   string
		output   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "export [package]",
		Short: "Write the settled layout as SVG, PNG, DOT or JSON",
		Long: `Resolve the dependency tree, run the force simulation until it settles and
write the resulting positions. SVG and PNG are drawn by Graphviz with the
simulated positions pinned; DOT is the Graphviz input; JSON lists every
node with its coordinates.`,
		Example: `  depscope export pacman -o pacman.svg
  depscope export --graph tree.json -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == "" {
				format = formatFromPath(output)
			}
			if err := errors.ValidateFormat(format, nodelink.Formats); err != nil {
				return err
			}

			cfg, sess, err := c.prepare(cmd, &src, args)
			if err != nil {
				return err
			}
			logger := loggerFromContext(ctx)
			hs, err := settle(ctx, cfg, sess.tree, run, logger)
			if err != nil {
				return err
			}
			defer hs.exp.Teardown()
			if !hs.settled() {
				logger.Warn("exporting a layout that has not settled", "frames", hs.frames)
			}

			data, err := nodelink.Export(ctx, sess.tree, hs.exp.Driver().State(), format,
				nodelink.Options{Scale: scale, Detailed: detailed})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Exported %s layout of %s", strings.ToUpper(format), sess.tree.Root)
			printFile(output)
			return nil
		},
	}

	src.register(cmd)
	run.register(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&format, "format", "f", "", "output format: svg, png, dot or json (default from -o, else svg)")
	fl.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	fl.BoolVar(&detailed, "detailed", false, "include versions in node labels")
	fl.Float64Var(&scale, "scale", 0, "points per layout unit (default 1.5)")
	return cmd
}

// formatFromPath picks the format named by a file extension, or svg.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if slices.Contains(nodelink.Formats, ext) {
		return ext
	}
	return nodelink.FormatSVG
}
