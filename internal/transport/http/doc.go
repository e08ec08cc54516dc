// Package http contains the HTTP transport layer: chi routers and
// handlers that translate between the JSON API and the service layer.
// Errors leave this package as RFC 7807 problem documents.
package http
