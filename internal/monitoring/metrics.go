package monitoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_tickets_purchased_total",
			Help: "Total primary ticket purchases",
		},
		[]string{"event_id"},
	)

	ticketsListed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_tickets_listed_total",
			Help: "Total resale listings",
		},
	)

	ticketsTransferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_tickets_transferred_total",
			Help: "Total secondary-sale transfers",
		},
	)

	ticketsValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_tickets_validated_total",
			Help: "Total tickets marked used",
		},
	)

	transferFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_transfer_failures_total",
			Help: "Value or ownership transfer failures per operation",
		},
		[]string{"operation"},
	)

	paymentVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_payment_units_total",
			Help: "Monetary units moved over the payment rail",
		},
		[]string{"kind"},
	)
)

func RecordPurchase(eventID, value int64) {
	ticketsPurchased.WithLabelValues(strconv.FormatInt(eventID, 10)).Inc()
	paymentVolume.WithLabelValues("primary").Add(float64(value))
}

func RecordListing() {
	ticketsListed.Inc()
}

func RecordResale(royalty, seller int64) {
	ticketsTransferred.Inc()
	paymentVolume.WithLabelValues("royalty").Add(float64(royalty))
	paymentVolume.WithLabelValues("seller").Add(float64(seller))
}

func RecordValidation() {
	ticketsValidated.Inc()
}

func RecordTransferFailure(operation string) {
	transferFailures.WithLabelValues(operation).Inc()
}
