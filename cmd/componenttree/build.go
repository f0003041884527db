package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/componenttree/internal/config"
	"github.com/vango-dev/componenttree/internal/descriptor"
	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/inspect"
	"github.com/vango-dev/componenttree/pkg/snapshot"
	"github.com/vango-dev/componenttree/pkg/tree"
)

type buildOptions struct {
	updates  []string
	trigger  string
	snapshot string
	always   bool
}

func buildCmd(flags *globalFlags) *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [descriptor.json]",
		Short: "Build a generation from a descriptor",
		Long: `Build generation 1 from a JSON descriptor and print the tree.

With --update, the state of every component with the given name is
incremented and a second generation is built against the first, showing
which subtrees were reused.

Examples:
  componenttree build app.tree.json
  componenttree build app.tree.json --update Counter
  componenttree build --update Counter --trigger state_update|props_update
  componenttree build --snapshot s3://my-bucket/trees`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			path := cfg.DescriptorPath()
			if len(args) == 1 {
				path = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBuild(ctx, cmd.OutOrStdout(), cfg, path, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.updates, "update", "u", nil, "Increment the state of components named NAME and rebuild (repeatable)")
	cmd.Flags().StringVarP(&opts.trigger, "trigger", "t", "state_update", "Trigger of the update pass")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Write snapshots to a directory or s3://bucket/prefix (default from componenttree.json)")
	cmd.Flags().BoolVar(&opts.always, "always", false, "Build even when no render component is present")

	return cmd
}

func runBuild(ctx context.Context, out io.Writer, cfg *config.Config, path string, opts buildOptions) error {
	if path == "" {
		return errors.New("C004").
			WithDetail("no descriptor given").
			WithSuggestion("Pass a descriptor file or set \"descriptor\" in " + config.ConfigFileName)
	}
	root, err := descriptor.Load(path)
	if err != nil {
		return err
	}

	trigger, ok := build.ParseTrigger(opts.trigger)
	if !ok {
		return errors.New("X002").WithDetail(opts.trigger)
	}

	bc := cfg.BuildConfig()
	if opts.always {
		bc.AlwaysBuildRenderTree = true
	}

	var sessionOpts []inspect.SessionOption
	target := cfg.Snapshot.Target
	if opts.snapshot != "" {
		target = opts.snapshot
	}
	if target != "" {
		sink, err := snapshot.Open(target, nil)
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts, inspect.WithSink(sink))
		info(out, "Snapshots: %s", target)
	}

	session := inspect.NewSession(root, build.New(build.WithConfig(bc)), sessionOpts...)
	res, err := session.Start(ctx)
	if err != nil {
		return err
	}
	printResult(out, res)

	if len(opts.updates) == 0 {
		return nil
	}

	var ids []tree.ID
	for _, name := range opts.updates {
		found := session.IDsForType(name)
		if len(found) == 0 {
			return errors.New("X001").
				WithDetail(name).
				WithSuggestion("Names are matched against the descriptor \"name\" field of built nodes")
		}
		ids = append(ids, found...)
	}

	res, err = session.Apply(ctx, trigger, ids)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func printResult(w io.Writer, res *build.Result) {
	fmt.Fprintln(w)
	if res.Skipped {
		warn(w, "Generation %d skipped: no render component (use --always)", res.Generation)
		return
	}
	success(w, "Generation %d (%s) in %s", res.Generation, res.Trigger, res.Report.Duration)
	fmt.Fprintln(w)
	res.Root.Walk(func(n *tree.Node) bool {
		depth := 0
		for id := n.ParentID(); id != tree.NoID; depth++ {
			id, _ = res.Root.ParentID(id)
		}
		mark := ""
		switch res.Report.Outcome(n.ID()) {
		case build.OutcomeReused:
			mark = "  (reused)"
		case build.OutcomeUnvisited:
			mark = "  (shared)"
		}
		state := ""
		if s, ok := res.Root.StateOf(n); ok && s != nil {
			state = fmt.Sprintf(" state=%v", s)
		}
		fmt.Fprintf(w, "    %*s%s #%d%s%s\n", depth*2, "", n.Key(), n.ID(), state, mark)
		return true
	})
	fmt.Fprintln(w)
	info(w, "nodes=%d rebuilt=%d reused=%d shared=%d rendered=%d dirty=%d",
		res.Root.Len(), res.Report.Rebuilt, res.Report.Reused, res.Report.Shared,
		res.Report.Rendered, res.DirtyIDs.Cardinality())
}
