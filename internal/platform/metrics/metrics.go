// Package metrics exposes the Prometheus instruments of the posting engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesPosted counts committed journal entries by originating document type.
	EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeping",
		Name:      "journal_entries_posted_total",
		Help:      "Number of journal entries committed to the ledger.",
	}, []string{"document_type"})

	// EntriesUnposted counts voided journal entries by originating document type.
	EntriesUnposted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookkeeping",
		Name:      "journal_entries_unposted_total",
		Help:      "Number of journal entries voided by unposting.",
	}, []string{"document_type"})
)
