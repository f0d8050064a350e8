// Package integration contains end-to-end tests for the news posts server.
//
// These tests verify the server handles API requests correctly (expected responses,
// error handling, database persistence, etc). Each test runs against a temporary
// database with migrations applied, and the server is started in-process.
//
// Run them with:
//
//	go test -tags=integration ./test/integration
package integration
