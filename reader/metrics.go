package reader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type readerMetrics struct {
	recordsRead prometheus.Counter
	acks        prometheus.Counter
	saves       prometheus.Counter
	exhausted   prometheus.Counter
	gone        prometheus.Counter
}

func newReaderMetrics(reg prometheus.Registerer) *readerMetrics {
	return &readerMetrics{
		recordsRead: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_reader_records_read_total",
			Help: "Number of records returned by NextRecord.",
		}),
		acks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_reader_acks_total",
			Help: "Number of records acknowledged.",
		}),
		saves: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_reader_saves_total",
			Help: "Number of checkpoint saves.",
		}),
		exhausted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_reader_exhausted_total",
			Help: "Number of NextRecord calls that found nothing to read.",
		}),
		gone: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_reader_gone_total",
			Help: "Number of NextRecord calls that hit a reclaimed segment.",
		}),
	}
}
