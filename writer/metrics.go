package writer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type writerMetrics struct {
	appends          prometheus.Counter
	appendBytes      prometheus.Counter
	segmentRotations prometheus.Counter
	deletes          prometheus.Counter
	deleteRejections *prometheus.CounterVec
}

func newWriterMetrics(reg prometheus.Registerer) *writerMetrics {
	return &writerMetrics{
		appends: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_writer_appends_total",
			Help: "Number of records appended.",
		}),
		appendBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_writer_append_bytes_total",
			Help: "Total bytes of appended payloads.",
		}),
		segmentRotations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_writer_segment_rotations_total",
			Help: "Number of times a new active segment was created.",
		}),
		deletes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "binlog_writer_deletes_total",
			Help: "Number of segments successfully deleted.",
		}),
		deleteRejections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "binlog_writer_delete_rejections_total",
			Help: "Number of rejected delete attempts, by reason.",
		}, []string{"reason"}),
	}
}
