// Package handlers provides general infrastructure HTTP handlers
// (health, readiness, version, docs).
//
// The news posts API handlers are in internal/newsposts/handlers.
package handlers
