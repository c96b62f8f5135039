package receipt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receiptsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_points_receipts_processed_total",
		Help: "Number of receipts accepted and stored.",
	})

	pointsLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_points_lookups_total",
		Help: "Number of points lookups by outcome.",
	}, []string{"outcome"})
)
