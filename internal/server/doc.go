// Package server provides the HTTP server for the news posts app.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// The router serves
//   - the news posts API under /api/newsposts
//   - common infrastructure handlers (health, version, docs)
//   - the diagnostic /error route
//   - the client bundle, with index.html as the fallback for unmatched GET requests
//
// middleware is in internal/server/middleware
package server
