// Package metrics holds the KYC domain Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"kycapi/internal/model"
)

// KYC records document and profile lifecycle counters.
type KYC struct {
	uploads      *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	bulkItems    *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	blobDuration *prometheus.HistogramVec
}

// NewKYC creates the collectors and registers them on reg.
func NewKYC(reg prometheus.Registerer) (*KYC, error) {
	m := &KYC{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_documents_uploaded_total",
				Help: "Identity documents accepted for upload.",
			},
			[]string{"document_type"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_document_decisions_total",
				Help: "Reviewer decisions recorded on documents.",
			},
			[]string{"decision", "override"},
		),
		bulkItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_bulk_verify_items_total",
				Help: "Bulk verification items by outcome.",
			},
			[]string{"result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_profile_transitions_total",
				Help: "Profile status changes.",
			},
			[]string{"from", "to"},
		),
		blobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kyc_blob_operation_duration_seconds",
				Help:    "Latency of blob store operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.decisions, m.bulkItems, m.transitions, m.blobDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *KYC) DocumentUploaded(t model.DocumentType) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(string(t)).Inc()
}

func (m *KYC) Decision(d model.DocumentStatus, override bool) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(string(d), strconv.FormatBool(override)).Inc()
}

func (m *KYC) BulkItem(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.bulkItems.WithLabelValues(result).Inc()
}

func (m *KYC) ProfileTransition(from, to model.ProfileStatus) {
	if m == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveBlob matches storage.WithObserver.
func (m *KYC) ObserveBlob(op string, took time.Duration) {
	if m == nil {
		return
	}
	m.blobDuration.WithLabelValues(op).Observe(took.Seconds())
}
