package application

import "expvar"

// Counters exported on /debug/vars.
var (
	authMetrics = expvar.NewMap("auth")
	taskMetrics = expvar.NewMap("tasks")
)
