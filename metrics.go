package lorapong

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lorapong_messages_received_total",
		Help: "Number of messages drained from the radio.",
	})
	bytesDrained = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lorapong_payload_bytes_total",
		Help: "Payload bytes read out of the radio data buffer.",
	})
	repliesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lorapong_replies_sent_total",
		Help: "Number of reply transmissions dispatched.",
	})
	rxTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lorapong_receive_timeouts_total",
		Help: "Number of device-side receive timeouts.",
	})
	unclassifiedStatuses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lorapong_unclassified_statuses_total",
		Help: "Command statuses the engine has no explicit handling for.",
	})
)
