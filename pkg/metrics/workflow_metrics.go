package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type WorkflowMetrics struct {
	Transitions      *prometheus.CounterVec
	VersionConflicts prometheus.Counter
	Assignments      *prometheus.CounterVec
	OutboxDispatched *prometheus.CounterVec
}

var (
	workflowOnce sync.Once
	workflow     *WorkflowMetrics
)

// Workflow returns the process-wide workflow counters.
func Workflow() *WorkflowMetrics {
	workflowOnce.Do(func() {
		workflow = &WorkflowMetrics{
			Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "loanscreen_workflow_transitions_total",
				Help: "Committed status transitions by from/to status.",
			}, []string{"from", "to"}),
			VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
				Name: "loanscreen_workflow_version_conflicts_total",
				Help: "Transitions rejected by optimistic concurrency.",
			}),
			Assignments: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "loanscreen_assignments_total",
				Help: "Officer assignments by pool.",
			}, []string{"pool"}),
			OutboxDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "loanscreen_outbox_dispatched_total",
				Help: "Notification outbox dispatch attempts by outcome.",
			}, []string{"outcome"}),
		}
	})
	return workflow
}
