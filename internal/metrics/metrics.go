// internal/metrics/metrics.go
// Prometheus 指標

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_api_send_success_total",
		Help: "Total number of messages accepted by the mail provider",
	}, []string{"provider"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_api_send_failure_total",
		Help: "Total number of messages rejected by the mail provider",
	}, []string{"provider"})
	BatchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mail_api_batch_total",
		Help: "Total number of processed batches",
	})
	BatchItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_api_batch_items_total",
		Help: "Total number of batch items by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(BatchTotal)
	prometheus.MustRegister(BatchItems)
}

// Handler 回傳 /metrics 的 http.Handler
func Handler() http.Handler {
	return promhttp.Handler()
}
