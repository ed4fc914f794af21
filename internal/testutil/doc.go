// Package testutil provides deterministic agent doubles for tests: scripted
// multi-step runs, injected think/act failures and budget exhaustion without
// any real planning loop.
package testutil
