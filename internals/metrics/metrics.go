package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuardRedirects counts protected-path requests redirected to sign-in.
	GuardRedirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_guard_redirects_total",
		Help: "Protected-path requests redirected to sign-in.",
	})

	// ValidatorRuns counts session validation attempts by result.
	ValidatorRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_session_validations_total",
		Help: "Session validation attempts by result.",
	}, []string{"result"})

	// SigninAttempts counts sign-in state machine attempts by step and result.
	SigninAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_signin_attempts_total",
		Help: "Sign-in attempts by step and result.",
	}, []string{"step", "result"})
)
