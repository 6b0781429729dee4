// Package testhelpers provides shared fixtures and goroutine-leak checks for
// flx tests.
package testhelpers

import (
	"testing"

	"go.uber.org/goleak"
)

// leakOptions ignores goroutines owned by the runtime rather than by flx.
var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
}

// VerifyTestMain runs the package tests and fails if any goroutine outlives them.
// Usage:
//
//	func TestMain(m *testing.M) { testhelpers.VerifyTestMain(m) }
func VerifyTestMain(m *testing.M, extra ...goleak.Option) {
	goleak.VerifyTestMain(m, append(leakOptions, extra...)...)
}

// AssertNoLeaks fails t if goroutines started after the test began are
// still running. Call it with defer at the top of the test.
func AssertNoLeaks(t *testing.T) func() {
	t.Helper()
	opts := append([]goleak.Option{goleak.IgnoreCurrent()}, leakOptions...)
	return func() {
		goleak.VerifyNone(t, opts...)
	}
}

// SkipIfShort skips the test if -short flag is provided
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("Skipping in short mode: %s", reason)
	}
}
