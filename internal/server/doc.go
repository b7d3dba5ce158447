// Package server exposes transmission analysis over HTTP.
//
// Routes:
// - POST /decode        version sum and value of a transmission
// - POST /decode/tree   as /decode, plus the decoded packet tree
// - GET  /health, /ready, /metrics
package server
