// Package testing provides a component testing harness for vdom.
//
// # Quick Start
//
// Create a tester, render a descriptor, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := vdomtest.NewTesterWithT(t)
//	    tester.Render(core.C(Counter, nil))
//
//	    // Simulate events
//	    tester.Click(vdomtest.ByText("+"))
//	    tester.Pump()
//
//	    // Assert state
//	    if got := tester.Find(vdomtest.ByTag("span")).Text(); got != "1" {
//	        t.Errorf("count = %s", got)
//	    }
//	}
//
// State changes are applied when frames run. Pump runs the frames requested
// so far; PumpUntilIdle keeps going until effects stop scheduling work.
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	VDOM_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vdomtest "github.com/go-drift/vdom/pkg/testing"
package testing
