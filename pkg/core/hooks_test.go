package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/host"
)

func TestHooks_SlotStabilityAcrossRerenders(t *testing.T) {
	f := newFixture(t)
	var seen []int
	acc := Func("Acc", func(h *Hooks, props Props) any {
		total, setTotal := UseState(h, 0)
		step := Prop[int](props, "step")
		UseEffect(h, func() func() {
			setTotal.Update(func(v int) int { return v + step })
			return nil
		}, Deps(step))
		seen = append(seen, total)
		return H("span", nil, total)
	})

	for step := 1; step <= 3; step++ {
		f.render(C(acc, Props{"step": step}))
		f.frames.Tick()
	}

	if got := f.markup(); got != "<span>6</span>" {
		t.Errorf("markup = %s", got)
	}
	want := []int{0, 1, 1, 3, 3, 6}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("rendered totals = %v, want %v", seen, want)
	}
}

func TestHooks_UpdateComposesInOneFlush(t *testing.T) {
	f := newFixture(t)
	renders := 0
	app := Func("App", func(h *Hooks, props Props) any {
		renders++
		n, setN := UseState(h, 0)
		return H("button", Props{"onClick": func() {
			for range 3 {
				setN.Update(func(v int) int { return v + 1 })
			}
		}}, n)
	})
	f.render(C(app, nil))

	f.click("button")
	f.frames.Tick()

	if got := f.markup(); !strings.Contains(got, ">3<") {
		t.Errorf("markup = %s", got)
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
}

func TestHooks_SetSameValueDoesNotSchedule(t *testing.T) {
	f := newFixture(t)
	var set Setter[string]
	app := Func("App", func(h *Hooks, props Props) any {
		v, s := UseState(h, "x")
		set = s
		return v
	})
	f.render(C(app, nil))

	set.Set("x")

	if f.frames.Pending() != 0 {
		t.Error("setting an equal value must not request a frame")
	}
}

func TestHooks_EffectDependencies(t *testing.T) {
	f := newFixture(t)
	var runs, cleanups []string
	app := Func("App", func(h *Hooks, props Props) any {
		dep := Prop[string](props, "dep")
		UseEffect(h, func() func() {
			runs = append(runs, "once")
			return nil
		}, Deps())
		UseEffect(h, func() func() {
			runs = append(runs, "every")
			return nil
		}, nil)
		UseEffect(h, func() func() {
			runs = append(runs, "dep:"+dep)
			return func() { cleanups = append(cleanups, "dep:"+dep) }
		}, Deps(dep))
		return nil
	})

	f.render(C(app, Props{"dep": "a"}))
	f.render(C(app, Props{"dep": "a"}))
	f.render(C(app, Props{"dep": "b"}))

	wantRuns := []string{"once", "every", "dep:a", "every", "every", "dep:b"}
	if !reflect.DeepEqual(runs, wantRuns) {
		t.Errorf("runs = %v, want %v", runs, wantRuns)
	}
	if !reflect.DeepEqual(cleanups, []string{"dep:a"}) {
		t.Errorf("cleanups = %v", cleanups)
	}
}

func TestHooks_EffectsRunAfterCommit(t *testing.T) {
	f := newFixture(t)
	var layoutSaw, effectSaw string
	app := Func("App", func(h *Hooks, props Props) any {
		UseLayoutEffect(h, func() func() {
			layoutSaw = f.markup()
			return nil
		}, Deps())
		UseEffect(h, func() func() {
			effectSaw = f.markup()
			return nil
		}, Deps())
		return H("p", nil, "done")
	})

	f.render(C(app, nil))

	if layoutSaw != "<p>done</p>" || effectSaw != "<p>done</p>" {
		t.Errorf("layout saw %q, effect saw %q", layoutSaw, effectSaw)
	}
}

func TestHooks_LayoutEffectStateLoopsBack(t *testing.T) {
	f := newFixture(t)
	renders := 0
	app := Func("App", func(h *Hooks, props Props) any {
		renders++
		v, set := UseState(h, 0)
		UseLayoutEffect(h, func() func() {
			if v == 0 {
				set.Set(1)
			}
			return nil
		}, nil)
		return H("span", nil, v)
	})

	f.render(C(app, nil))

	if got := f.markup(); got != "<span>1</span>" {
		t.Errorf("markup = %s", got)
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
	if f.frames.Pending() != 0 {
		t.Error("layout effect state must be committed synchronously")
	}
}

func TestHooks_StateSetDuringRenderRerendersBeforeCommit(t *testing.T) {
	f := newFixture(t)
	var committed []string
	f.rec.OnOp = func(op host.Op) {
		if op.Kind == host.OpCreateText {
			committed = append(committed, op.Name)
		}
	}
	app := Func("App", func(h *Hooks, props Props) any {
		v, set := UseState(h, 0)
		if v < 3 {
			set.Set(v + 1)
		}
		return H("span", nil, v)
	})

	f.render(C(app, nil))

	if !reflect.DeepEqual(committed, []string{"3"}) {
		t.Errorf("committed texts = %v, want only the stable render", committed)
	}
}

func TestHooks_RenderLoopLimit(t *testing.T) {
	h := captureErrors(t)
	f := newFixture(t, WithMaxRenderLoops(5))
	renders := 0
	app := Func("Runaway", func(h *Hooks, props Props) any {
		renders++
		v, set := UseState(h, 0)
		set.Set(v + 1)
		return v
	})

	f.render(C(app, nil))

	if renders != 5 {
		t.Errorf("renders = %d, want 5", renders)
	}
	if len(h.errs) != 1 || h.errs[0].Kind != errors.KindRender || h.errs[0].Component != "Runaway" {
		t.Errorf("unexpected errors %+v", h.errs)
	}
}

type unmountProbe struct {
	ComponentBase
	child *ComponentType
	log   *[]string
}

func (p *unmountProbe) Render() any { return H("div", nil, C(p.child, nil)) }
func (p *unmountProbe) WillUnmount() {
	*p.log = append(*p.log, "willUnmount")
}

func TestUnmount_CleanupOrdering(t *testing.T) {
	f := newFixture(t)
	var log []string
	child := Func("Child", func(h *Hooks, props Props) any {
		UseEffect(h, func() func() {
			return func() { log = append(log, "effect cleanup") }
		}, Deps())
		UseLayoutEffect(h, func() func() {
			return func() { log = append(log, "layout cleanup") }
		}, Deps())
		return H("i", nil)
	})
	ct := Stateful("Parent", func() Component { return &unmountProbe{child: child, log: &log} })
	f.render(H("main", nil, C(ct, nil)))
	f.rec.OnOp = func(op host.Op) {
		if op.Kind == host.OpRemoveChild {
			log = append(log, "detach")
		}
	}

	f.render(H("main", nil))

	want := []string{"willUnmount", "layout cleanup", "effect cleanup", "detach"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

func TestUnmount_CleanupPanicIsContained(t *testing.T) {
	h := captureErrors(t)
	f := newFixture(t)
	app := Func("App", func(h *Hooks, props Props) any {
		UseEffect(h, func() func() {
			return func() { panic("cleanup failed") }
		}, Deps())
		return H("b", nil)
	})
	f.render(H("div", nil, C(app, nil)))

	f.render(H("div", nil))

	if got := f.markup(); got != "<div></div>" {
		t.Errorf("markup = %s", got)
	}
	if len(h.errs) != 1 || h.errs[0].Kind != errors.KindEffect {
		t.Errorf("unexpected errors %+v", h.errs)
	}
}

func TestHooks_MemoCallbackRef(t *testing.T) {
	f := newFixture(t)
	computed := 0
	var refs []*Ref[int]
	var callbacks []func() int
	app := Func("App", func(h *Hooks, props Props) any {
		n := Prop[int](props, "n")
		double := UseMemo(h, func() int {
			computed++
			return n * 2
		}, Deps(n))
		ref := UseRef(h, 0)
		ref.Current++
		refs = append(refs, ref)
		cb := UseCallback(h, func() int { return n }, Deps(n))
		callbacks = append(callbacks, cb)
		return double
	})

	f.render(C(app, Props{"n": 1}))
	f.render(C(app, Props{"n": 1}))
	f.render(C(app, Props{"n": 2}))

	if computed != 2 {
		t.Errorf("computed = %d, want 2", computed)
	}
	if got := f.markup(); got != "4" {
		t.Errorf("markup = %s", got)
	}
	if refs[0] != refs[2] || refs[2].Current != 3 {
		t.Error("UseRef must return the same box every render")
	}
	if callbacks[1]() != 1 || callbacks[2]() != 2 {
		t.Error("UseCallback must refresh only when deps change")
	}
}

func TestSameValue(t *testing.T) {
	m := map[string]int{}
	s := []int{1}
	p := &struct{}{}
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"ints", 1, 1, true},
		{"different types", 1, int64(1), false},
		{"strings", "a", "b", false},
		{"same map", m, m, true},
		{"different maps", m, map[string]int{}, false},
		{"same slice", s, s, true},
		{"same pointer", p, p, true},
		{"funcs", fn, fn, false},
		{"structs", struct{ A int }{1}, struct{ A int }{1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameValue(tt.a, tt.b); got != tt.want {
				t.Errorf("sameValue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDepsChanged(t *testing.T) {
	if !depsChanged(nil, Deps()) || !depsChanged(Deps(), nil) {
		t.Error("nil deps always count as changed")
	}
	if depsChanged(Deps(), Deps()) {
		t.Error("empty deps never change")
	}
	if !depsChanged(Deps(1), Deps(1, 2)) {
		t.Error("length change counts as changed")
	}
	if depsChanged(Deps(1, "a"), Deps(1, "a")) {
		t.Error("equal deps must not count as changed")
	}
}
