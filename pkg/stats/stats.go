package stats

import (
	"bufio"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var (
	// RetryAttempts counts the attempts made by the retry wrapper, labeled by
	// policy name and outcome (success, retry, exhausted, aborted).
	RetryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keyguard",
			Name:      "retry_attempts_total",
			Help:      "Attempts performed by the retry wrapper.",
		},
		[]string{"policy", "outcome"},
	)

	// ReconcileResults counts signer reconciliations by outcome (existing,
	// created, failed).
	ReconcileResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keyguard",
			Name:      "signer_reconcile_total",
			Help:      "Signer reconciliations against the local engine.",
		},
		[]string{"outcome"},
	)

	// RestartActions counts the actions run by plan restart sagas.
	RestartActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keyguard",
			Name:      "restart_saga_actions_total",
			Help:      "Actions executed by plan restart sagas.",
		},
		[]string{"action", "result"},
	)
)

func init() {
	prometheus.MustRegister(RetryAttempts, ReconcileResults, RestartActions)
}

// DumpMetrics appends the metrics of the default gatherer to the file at the
// given path.
func DumpMetrics(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}
	log.Debugf("metrics dumped to %s", path)
	return nil
}
