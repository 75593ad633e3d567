package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ristorante", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ristorante", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// ContentSaves counts persist attempts per collection (content|translations) and result (ok|error).
	ContentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ristorante", Name: "content_saves_total", Help: "Number of document saves by collection and result."},
		[]string{"collection", "result"},
	)
	ContentEdits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ristorante", Name: "content_edits_total", Help: "Number of applied editor write-backs by target."},
		[]string{"target"},
	)
	RenderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ristorante", Name: "render_requests_total", Help: "Number of public page renders by page."},
		[]string{"page"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ContentSaves)
	reg.MustRegister(ContentEdits)
	reg.MustRegister(RenderRequests)
}
