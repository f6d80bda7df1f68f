// Package testutil provides utilities for testing implshard components.
//
// Key components:
//   - Assertions: small assertion helpers for table-driven tests
//   - Recorder: a registry consumer that records every delivery
//   - File helpers: temporary shard trees on the real filesystem
//   - Fixtures: the same trait announced in every supported shard format
//
// Usage guidelines:
//   - Prefer testing/fstest.MapFS for loader tests; use real files only
//     when exercising os paths or configuration discovery
//   - All test data should be defined inline, not in external files
//   - Each test should own its hub; only pkg/registry touches the default one
package testutil
