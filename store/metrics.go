package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type storeMetrics struct {
	segmentsCreated prometheus.Counter
	segmentsDeleted prometheus.Counter
	txCommits       prometheus.Counter
	txAborts        prometheus.Counter
}

func newStoreMetrics(reg prometheus.Registerer) *storeMetrics {
	return &storeMetrics{
		segmentsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_store_segments_created_total",
			Help: "Number of segment buckets created in the catalog.",
		}),
		segmentsDeleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_store_segments_deleted_total",
			Help: "Number of segment buckets removed from the catalog.",
		}),
		txCommits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_store_tx_commits_total",
			Help: "Number of substrate transactions (read-write or read-only) that completed without error.",
		}),
		txAborts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_store_tx_aborts_total",
			Help: "Number of substrate transactions aborted.",
		}),
	}
}
