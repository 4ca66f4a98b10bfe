package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/vdom/cmd/vdom/internal/demo"
	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/host"
	"github.com/go-drift/vdom/pkg/telemetry"
)

func init() {
	RegisterCommand(newRenderCommand())
}

type renderOptions struct {
	json    bool
	noColor bool
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo app and play a scripted session",
		Long: `Render mounts the demo application (a class counter, a hooks counter and
a keyed todo list) into an in-memory document driven by a frame loop,
simulates a series of clicks and input events, and prints the final tree.

Engine settings, logging and metrics come from vdom.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the final tree as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return cmd
}

// renderReport is the --json output.
type renderReport struct {
	App       string           `json:"app"`
	Steps     int              `json:"steps"`
	Flushes   int              `json:"flushes"`
	Mutations int              `json:"mutations"`
	Digest    string           `json:"digest"`
	Tree      []*host.TreeNode `json:"tree"`
}

func runRender(ctx context.Context, stdout, stderr io.Writer, opts renderOptions) error {
	env, err := loadEnvironment(stderr)
	if err != nil {
		return err
	}
	log := env.log.Component("render")

	loop := frame.NewLoop(env.cfg.Engine.FrameInterval)
	doc := host.NewDocument()
	rec := host.NewRecorder(doc)
	rt := core.NewRuntime(rec, env.runtimeOptions(loop)...)
	flushes := 0
	rt.Scheduler().OnFlush = func(mutations, instances int) { flushes++ }

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		start := time.Now()
		err := onLoop(gctx, loop, func() error {
			rt.Render(demo.New(env.appName), doc.Body())
			return nil
		})
		if err != nil {
			return err
		}
		for _, step := range demo.Script() {
			if err := settle(gctx, loop, rt); err != nil {
				return err
			}
			if err := onLoop(gctx, loop, func() error { return step.Apply(doc) }); err != nil {
				return err
			}
			log.Debug().Str("step", step.Name).Str("target", step.Target).Msg("step applied")
		}
		if err := settle(gctx, loop, rt); err != nil {
			return err
		}
		log.Info().Int("steps", len(demo.Script())).Int("flushes", flushes).
			Dur("elapsed", time.Since(start)).Msg("session finished")
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	report := renderReport{
		App:       env.appName,
		Steps:     len(demo.Script()),
		Flushes:   flushes,
		Mutations: len(rec.Ops()),
		Digest:    fmt.Sprintf("%016x", doc.Digest()),
		Tree:      doc.Tree(),
	}
	if opts.json {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("render: encode tree: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}

	p := newTreePrinter(stdout, opts.noColor)
	for _, n := range report.Tree {
		p.print(n, 0)
	}
	fmt.Fprintf(stdout, "\n%s steps, %s flushes, %s host mutations, digest %s\n",
		humanize.Comma(int64(report.Steps)), humanize.Comma(int64(report.Flushes)),
		humanize.Comma(int64(report.Mutations)), report.Digest)
	printMetrics(stdout, env.metrics)
	return nil
}

// onLoop runs fn on the loop goroutine and waits for it to return.
func onLoop(ctx context.Context, loop *frame.Loop, fn func() error) error {
	done := make(chan error, 1)
	err := loop.Post(func() {
		var err error
		defer func() { done <- err }()
		err = fn()
	})
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle waits until the scheduler has no flush pending.
func settle(ctx context.Context, loop *frame.Loop, rt *core.Runtime) error {
	for {
		var pending bool
		err := onLoop(ctx, loop, func() error {
			pending = rt.Scheduler().Pending()
			return nil
		})
		if err != nil {
			return err
		}
		if !pending {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(loop.Interval()):
		}
	}
}

type treePrinter struct {
	w       io.Writer
	tag     *color.Color
	attr    *color.Color
	text    *color.Color
	handler *color.Color
}

func newTreePrinter(w io.Writer, noColor bool) *treePrinter {
	p := &treePrinter{
		w:       w,
		tag:     color.New(color.FgCyan, color.Bold),
		attr:    color.New(color.FgYellow),
		text:    color.New(color.FgGreen),
		handler: color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range []*color.Color{p.tag, p.attr, p.text, p.handler} {
			c.DisableColor()
		}
	}
	return p
}

func (p *treePrinter) print(n *host.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Tag == "" {
		fmt.Fprintf(p.w, "%s%s\n", indent, p.text.Sprintf("%q", n.Text))
		return
	}
	var sb strings.Builder
	sb.WriteString(p.tag.Sprint(n.Tag))
	for _, name := range slices.Sorted(maps.Keys(n.Attrs)) {
		sb.WriteByte(' ')
		sb.WriteString(p.attr.Sprintf("%s=%q", name, n.Attrs[name]))
	}
	for _, name := range n.Handlers {
		sb.WriteByte(' ')
		sb.WriteString(p.handler.Sprint(name))
	}
	fmt.Fprintf(p.w, "%s%s\n", indent, sb.String())
	for _, c := range n.Children {
		p.print(c, depth+1)
	}
}

// printMetrics lists counter totals when metrics are enabled.
func printMetrics(w io.Writer, m *telemetry.Metrics) {
	if m == nil {
		return
	}
	families, err := m.Registry().Gather()
	if err != nil {
		fmt.Fprintf(w, "metrics unavailable: %v\n", err)
		return
	}
	fmt.Fprintln(w, "\nmetrics:")
	for _, fam := range families {
		var total float64
		counted := false
		for _, metric := range fam.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
				counted = true
			}
			if h := metric.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
				counted = true
			}
		}
		if counted {
			fmt.Fprintf(w, "  %-40s %s\n", fam.GetName(), humanize.Comma(int64(total)))
		}
	}
}
