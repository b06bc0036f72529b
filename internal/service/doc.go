// Package service contains the application services that sit between the
// HTTP handlers and the stores: draft persistence with ownership checks,
// and generation orchestration over the dispatcher and reconciler.
package service
