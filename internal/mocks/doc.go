// Package mocks provides shared test doubles for the orchestration core:
// in-memory store implementations with overridable behavior and call
// tracking, plus a scriptable provider. They live outside the _test files
// because several packages (dispatch, reconcile, wizard, api) exercise
// the same contracts.
package mocks
