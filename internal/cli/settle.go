package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depscope/pkg/config"
	"github.com/matzehuels/depscope/pkg/explorer"
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/scene"
	"github.com/matzehuels/depscope/pkg/sim"
)

const (
	defaultMaxFrames = 5000
	defaultWidth     = 100
	defaultHeight    = 30
)

// settleFlags sizes and bounds a headless run.
type settleFlags struct {
	maxFrames int
	width     int
	height    int
}

func (f *settleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.maxFrames, "max-frames", defaultMaxFrames, "stop after this many frames")
	fl.IntVar(&f.width, "width", defaultWidth, "snapshot width in cells")
	fl.IntVar(&f.height, "height", defaultHeight, "snapshot height in cells")
}

// settleCommand creates the settle command for running a layout headlessly.
func (c *CLI) settleCommand() *cobra.Command {
	var (
		src  sourceFlags
		run  settleFlags
		show bool
	)

	cmd := &cobra.Command{
		Use:   "settle [package]",
		Short: "Run the layout until it comes to rest and report it",
		Long: `Resolve the dependency tree, run the force simulation without a terminal
UI until it settles, and print layout statistics. With --show the settled
layout is fitted and printed as a snapshot.`,
		Example: `  depscope settle pacman
  depscope settle --graph tree.json --show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, sess, err := c.prepare(cmd, &src, args)
			if err != nil {
				return err
			}
			hs, err := settle(ctx, cfg, sess.tree, run, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer hs.exp.Teardown()

			hs.report(sess.tree)
			if show {
				hs.exp.Fit(cfg.Render.FitPadding)
				printNewline()
				fmt.Fprintln(out, hs.raster.View())
			}
			printNewline()
			printNextStep("Explore it", "depscope explore "+sess.tree.Root)
			return nil
		},
	}

	src.register(cmd)
	run.register(cmd)
	cmd.Flags().BoolVar(&show, "show", false, "print the settled layout")
	return cmd
}

// prepare loads the config, applies the source flags and opens a session.
func (c *CLI) prepare(cmd *cobra.Command, src *sourceFlags, args []string) (*config.Config, *session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := src.apply(cfg); err != nil {
		return nil, nil, err
	}
	sess, err := openSession(cmd.Context(), cfg, src, args, resolveFlagsChanged(cmd))
	if err != nil {
		return nil, nil, err
	}
	return cfg, sess, nil
}

// resolveFlagsChanged reports whether a flag that shapes resolution was set.
func resolveFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"depth", "direction", "max-nodes"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// explorerConfig maps the config file sections onto an explorer.
func explorerConfig(cfg *config.Config, w, h int, logger *log.Logger) explorer.Config {
	ec := explorer.DefaultConfig(w, h)
	ec.Driver = cfg.Simulation
	ec.Camera = cfg.Camera
	ec.Interaction = cfg.Interaction
	ec.Margin = cfg.Render.Margin
	ec.Logger = logger
	return ec
}

// =============================================================================
// Headless Run
// =============================================================================

// headless is an explorer driven without a terminal.
type headless struct {
	host    *host
	raster  *scene.Raster
	exp     *explorer.Explorer
	frames  int
	elapsed time.Duration
}

// settle loads tree and drains frames until the layout stops scheduling,
// run.maxFrames have run or ctx is done.
func settle(ctx context.Context, cfg *config.Config, tree *graph.Tree, run settleFlags, logger *log.Logger) (*headless, error) {
	hs := &headless{host: newHost(), raster: scene.NewRaster(run.width, run.height)}
	hs.raster.SetShowLabels(cfg.Render.Labels)
	hs.exp = explorer.New(hs.host, hs.raster, explorerConfig(cfg, run.width, run.height, logger))

	prog := newProgress(logger)
	start := time.Now()
	hs.exp.SetGraph(tree)
	n, err := hs.host.drain(ctx, run.maxFrames)
	hs.frames, hs.elapsed = n, time.Since(start)
	if err != nil {
		hs.exp.Teardown()
		return nil, err
	}
	prog.done(fmt.Sprintf("Ran %d frames", n))
	return hs, nil
}

// settled reports whether the simulation came to rest.
func (hs *headless) settled() bool {
	drv := hs.exp.Driver()
	return drv != nil && drv.Status() == sim.Settled
}

func (hs *headless) report(tree *graph.Tree) {
	drv := hs.exp.Driver()
	st := drv.State()

	if hs.settled() {
		printSuccess("Settled %s", StyleHighlight.Render(tree.Root))
	} else {
		printWarning("Stopped %s after %d frames without settling", tree.Root, hs.frames)
	}
	printStats(len(tree.Nodes), len(tree.Edges), drv.Status().String())
	printNewline()

	printKeyValue("instance", drv.Instance())
	printKeyValue("ticks", fmt.Sprintf("%d", drv.Ticks()))
	printKeyValue("energy", fmt.Sprintf("%.5f", st.Energy()))
	printKeyValue("alpha", fmt.Sprintf("%.4f", st.Alpha))
	if lo, hi, ok := st.Bounds(); ok {
		printKeyValue("bounds", fmt.Sprintf("%.1f × %.1f", hi.X-lo.X, hi.Y-lo.Y))
	}
	printKeyValue("elapsed", hs.elapsed.Round(time.Millisecond).String())

	if n := hs.exp.DroppedEdges(); n > 0 {
		printDetail("%d malformed edges ignored", n)
	}
	if tree.MaxDepthReached {
		printDetail("depth limit reached; deeper packages are not shown")
	}
	for _, w := range tree.Warnings {
		printWarning("%s", w)
	}
}
