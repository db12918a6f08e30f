package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "social_wizard", Name: "http_requests_total", Help: "Number of HTTP requests by route and status."},
		[]string{"method", "route", "status"},
	)
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "social_wizard", Name: "generations_total", Help: "Number of post generation attempts by outcome."},
		[]string{"outcome"},
	)
	Images = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "social_wizard", Name: "images_total", Help: "Number of image generation attempts by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	Scrapes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "social_wizard", Name: "scrapes_total", Help: "Number of source page fetches by outcome."},
		[]string{"outcome"},
	)
	DocumentsAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "social_wizard", Name: "documents_added_total", Help: "Number of corpus documents added by kind."},
		[]string{"kind"},
	)
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(Generations)
	reg.MustRegister(Images)
	reg.MustRegister(Scrapes)
	reg.MustRegister(DocumentsAdded)
}
