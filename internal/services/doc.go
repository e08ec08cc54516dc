// Package services contains the application's business logic layer,
// sitting between the HTTP transport and the sheet/ledger/metrics
// packages. Handlers call services; services never touch http.Request.
package services
