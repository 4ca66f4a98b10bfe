package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/core"
)

func TestCaptureSnapshot_Structure(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.C(counter, nil))

	snap := tester.CaptureSnapshot()
	require.Len(t, snap.Tree, 1)
	root := snap.Tree[0]
	assert.Equal(t, "div", root.Tag)
	assert.Equal(t, map[string]string{"class": "counter"}, root.Attrs)
	require.Len(t, root.Children, 2)
	assert.Equal(t, []string{"onclick"}, root.Children[1].Handlers)
	assert.Equal(t, "0", root.Children[0].Children[0].Text)
}

func TestSnapshot_MatchesGolden(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	tester := NewTesterWithT(t)
	tester.Render(core.C(counter, nil))

	tester.CaptureSnapshot().MatchesFile(t, filepath.Join("testdata", "counter.snapshot.json"))
}

func TestSnapshot_EmptyDocument(t *testing.T) {
	tester := NewTesterWithT(t)
	data, err := tester.CaptureSnapshot().JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"tree": []}`, string(data))
}

func TestSnapshot_Diff(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.C(counter, nil))
	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()
	assert.Empty(t, a.Diff(b))

	require.NoError(t, tester.Click(ByText("+")))
	tester.Pump()
	c := tester.CaptureSnapshot()

	diff := c.Diff(a)
	assert.Regexp(t, `(?m)^-\s+"text": "0"$`, diff)
	assert.Regexp(t, `(?m)^\+\s+"text": "1"$`, diff)
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	tester := NewTesterWithT(t)
	tester.Render(core.H("p", nil, "hi"))
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "testdata", "p.snapshot.json")
	require.NoError(t, snap.UpdateFile(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	tester := NewTesterWithT(t)
	tester.Render(core.H("p", nil, "hi"))

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	tester.CaptureSnapshot().MatchesFile(sub, "/nonexistent/path/snap.json")

	assert.True(t, failed, "expected MatchesFile to fail for missing file")
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(UpdateEnv, "")
	tester := NewTesterWithT(t)
	tester.Render(core.H("p", nil, "first"))
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, tester.CaptureSnapshot().UpdateFile(path))

	tester.Render(core.H("p", nil, "second"))
	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	tester.CaptureSnapshot().MatchesFile(sub, path)

	assert.True(t, errored, "expected MatchesFile to report a mismatch")
}

func TestSnapshot_UpdateMode(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.H("p", nil, "hi"))
	path := filepath.Join(t.TempDir(), "update.snapshot.json")

	t.Setenv(UpdateEnv, "1")
	tester.CaptureSnapshot().MatchesFile(t, path)

	_, err := os.Stat(path)
	assert.NoError(t, err, "snapshot file should be created in update mode")
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
