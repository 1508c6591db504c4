package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facebank",
		Name:      "intents_total",
		Help:      "Messages handled by the local agent, by matched intent.",
	}, []string{"intent"})

	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facebank",
		Name:      "replies_total",
		Help:      "Assistant replies, by the responder that produced them.",
	}, []string{"source"})

	RemoteFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facebank",
		Name:      "remote_fallbacks_total",
		Help:      "Remote model attempts that fell back to the local agent.",
	})

	TranscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facebank",
		Name:      "transcriptions_total",
		Help:      "Audio transcription attempts, by outcome.",
	}, []string{"outcome"})
)
