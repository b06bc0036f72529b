// Package api contains the HTTP handlers: draft CRUD, the generation
// trigger, the result poll endpoint, and the provider callback. Handlers
// translate between the JSON wire format and the services, and map
// internal errors to sanitized HTTP responses.
package api
