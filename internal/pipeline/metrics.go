package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	batchesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tsgen_batches_processed_total",
		Help: "Total number of batches inserted successfully",
	})

	batchesFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tsgen_batches_failed_total",
		Help: "Total number of batches whose insert failed",
	})

	documentsInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tsgen_documents_inserted_total",
		Help: "Total number of documents inserted",
	})

	bytesInsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tsgen_bytes_inserted_total",
		Help: "Total serialized bytes inserted",
	})

	inFlightBatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tsgen_in_flight_batches",
		Help: "Number of batches currently being inserted",
	})
)

func init() {
	prometheus.MustRegister(batchesProcessedTotal)
	prometheus.MustRegister(batchesFailedTotal)
	prometheus.MustRegister(documentsInsertedTotal)
	prometheus.MustRegister(bytesInsertedTotal)
	prometheus.MustRegister(inFlightBatches)

	batchesProcessedTotal.Add(0)
	batchesFailedTotal.Add(0)
	documentsInsertedTotal.Add(0)
	bytesInsertedTotal.Add(0)
	inFlightBatches.Set(0)
}
