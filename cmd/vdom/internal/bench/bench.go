// Package bench measures reconciliation of large child lists.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/jamiealquiza/tachymeter"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/host"
)

// Config sizes a run.
type Config struct {
	Size  int
	Iters int
}

// Result holds the measurements of one scenario.
type Result struct {
	Name    string
	Iters   int
	Timing  *tachymeter.Metrics
	HostOps int64
	// Converged reports whether the final tree matches a fresh mount of the
	// final descriptor.
	Converged bool
}

// Scenario produces the descriptor rendered at iteration i. Iteration 0 is
// the initial mount.
type Scenario struct {
	Name  string
	Build func(i, size int) any
}

// Scenarios lists the built-in workloads.
var Scenarios = []Scenario{
	{Name: "keyed reorder", Build: keyedReorder},
	{Name: "unkeyed shrink/grow", Build: unkeyedShrinkGrow},
	{Name: "attribute churn", Build: attributeChurn},
}

// Run measures every scenario in order.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Size < 1 || cfg.Iters < 1 {
		return nil, fmt.Errorf("bench: size and iters must be positive (got %d, %d)", cfg.Size, cfg.Iters)
	}
	results := make([]Result, 0, len(Scenarios))
	for _, s := range Scenarios {
		r, err := RunScenario(ctx, s, cfg)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// RunScenario mounts iteration 0 and times every following render.
func RunScenario(ctx context.Context, s Scenario, cfg Config) (Result, error) {
	doc := host.NewDocument()
	var ops int64
	rt := core.NewRuntime(host.NewObserver(doc, func(host.Op) { ops++ }))
	rt.Render(s.Build(0, cfg.Size), doc.Body())
	ops = 0

	tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iters})
	for i := 1; i <= cfg.Iters; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		desc := s.Build(i, cfg.Size)
		start := time.Now()
		rt.Render(desc, doc.Body())
		tach.AddTime(time.Since(start))
	}

	// Descriptors record the nodes they realized, so the reference mount
	// gets its own copy.
	fresh := host.NewDocument()
	core.NewRuntime(fresh).Render(s.Build(cfg.Iters, cfg.Size), fresh.Body())

	return Result{
		Name:      s.Name,
		Iters:     cfg.Iters,
		Timing:    tach.Calc(),
		HostOps:   ops,
		Converged: fresh.Digest() == doc.Digest(),
	}, nil
}

// keyedReorder rotates a keyed list by one position per iteration.
func keyedReorder(i, size int) any {
	items := make([]any, size)
	for j := range size {
		k := (j + i) % size
		items[j] = core.H("li", core.Props{"key": k}, k)
	}
	return core.H("ul", nil, items)
}

// unkeyedShrinkGrow alternates between size and size/2 positional children.
func unkeyedShrinkGrow(i, size int) any {
	n := size
	if i%2 == 1 {
		n = size / 2
	}
	items := make([]any, n)
	for j := range n {
		items[j] = core.H("li", nil, j)
	}
	return core.H("ul", nil, items...)
}

// attributeChurn changes one attribute on every element per iteration.
func attributeChurn(i, size int) any {
	items := make([]any, size)
	for j := range size {
		items[j] = core.H("div", core.Props{
			"className": fmt.Sprintf("c%d", (j+i)%3),
			"data-i":    j,
		}, j)
	}
	return core.H("section", nil, items...)
}
