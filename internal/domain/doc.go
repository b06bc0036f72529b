// Package domain defines the core business entities of the pitch service:
// drafts collected by the wizard and the task record that tracks the
// asynchronous generation lifecycle for each draft.
package domain
