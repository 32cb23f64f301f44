// Package server implements the companion REST API that re-exposes Dify
// management operations over a local HTTP surface.
//
// The server holds one dify.Client and proxies each route to the matching
// client operation. Client errors are mapped onto HTTP statuses with a
// JSON body of the form {"error": kind, "message": ...}; upstream response
// bodies are never forwarded on failure paths.
package server
