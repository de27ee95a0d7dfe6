// Package health implements liveness and readiness probes.
//
// Components register named checks; readiness runs them concurrently with
// a per-check timeout. A failing critical check reports "unavailable" with
// HTTP 503. A failing optional check reports "degraded" and still answers
// 200, so losing the history store does not take the engine out of
// rotation:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterOptionalCheck("history", health.PingCheck(store))
//	checker.RegisterCheck("rules", health.RulesCheck(func() int { return eng.Rules().Len() }))
//	mux.Handle("/health", checker.LivenessHandler())
//	mux.Handle("/ready", checker.ReadinessHandler())
package health
