package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depscope/pkg/buildinfo"
	"github.com/matzehuels/depscope/pkg/config"
	"github.com/matzehuels/depscope/pkg/errors"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/metrics"
	"github.com/matzehuels/depscope/pkg/observability"
)

// exploreFlags override the interactive sections of the config.
type exploreFlags struct {
	logFile     string
	metricsAddr string
	release     string
	anchorRoot  bool
	labels      bool
}

func (f *exploreFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.logFile, "log-file", "", "append logs to this file while the explorer runs")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	fl.StringVar(&f.release, "release", "", "after a drag: keep (stay pinned) or float (rejoin the simulation)")
	fl.BoolVar(&f.anchorRoot, "anchor-root", false, "pin the root at the layout center")
	fl.BoolVar(&f.labels, "labels", false, "label every node")
}

// apply merges the flags that were set into cfg.
func (f *exploreFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("release") {
		p, ok := interact.ParseReleasePolicy(f.release)
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown release policy %q (want keep or float)", f.release)
		}
		cfg.Interaction.ReleasePolicy = p
	}
	if cmd.Flags().Changed("anchor-root") {
		cfg.Simulation.AnchorRoot = f.anchorRoot
	}
	if cmd.Flags().Changed("labels") {
		cfg.Render.Labels = f.labels
	}
	return nil
}

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		src  sourceFlags
		opts exploreFlags
	)

	cmd := &cobra.Command{
		Use:   "explore [package]",
		Short: "Explore a package's dependency graph interactively",
		Long: `Resolve the dependency tree of a package and open it in a live force layout.

Drag a node to pin it, drag the background to pan, scroll to zoom, click a
node for details and double-click it to make it the new root. Right-click
releases a pinned node.`,
		Example: `  depscope explore pacman
  depscope explore --graph tree.json --direction both --depth 2
  depscope explore systemd --metrics-addr :9090 --log-file depscope.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, sess, err := c.prepare(cmd, &src, args)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			logger, closeLog, err := fileLogger(opts.logFile, c.Logger.GetLevel())
			if err != nil {
				return err
			}
			defer closeLog()
			sess.logger = logger
			logger.Info("explorer started", "build", buildinfo.Short(), "root", sess.tree.Root, "nodes", len(sess.tree.Nodes))

			if opts.metricsAddr != "" {
				stop := serveMetrics(ctx, opts.metricsAddr, logger)
				defer stop()
				printInfo("Serving metrics on %s", opts.metricsAddr)
			}

			for _, w := range sess.tree.Warnings {
				logger.Warn(w, "root", sess.tree.Root)
			}

			m := newExploreModel(cfg, sess, logger)
			defer m.exp.Teardown()
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(ctx),
			)
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		},
	}

	src.register(cmd)
	opts.register(cmd)
	return cmd
}

// serveMetrics installs a Prometheus registry as the observability hooks
// and serves it on addr. The returned stop function shuts the server down,
// waits for it and restores the no-op hooks.
func serveMetrics(ctx context.Context, addr string, logger *log.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	reg := metrics.NewRegistry()
	reg.Install()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := reg.Serve(ctx, addr, logger); err != nil {
			logger.Error("metrics server", "err", err)
		}
	}()
	return func() {
		cancel()
		<-done
		observability.Reset()
	}
}

// fileLogger returns a logger writing to path, or a discarding logger
// when path is empty. The explorer owns the terminal, so nothing may log
// to stderr while it runs.
func fileLogger(path string, level log.Level) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open log file %s", path)
	}
	return newLogger(f, level), func() { f.Close() }, nil
}
