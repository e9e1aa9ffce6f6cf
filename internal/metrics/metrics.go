package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supdesk_tool_calls_total",
			Help: "Tool endpoint invocations by tool and outcome",
		},
		[]string{"tool", "outcome"}, // search|balance|create_ticket|record_payment , ok|client_error|error
	)

	PaymentsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "supdesk_payments_recorded_total",
			Help: "Successfully recorded payments",
		},
	)

	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "supdesk_audit_write_failures_total",
			Help: "Audit log writes that were swallowed after failing",
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		ToolCallsTotal,
		PaymentsRecordedTotal,
		AuditWriteFailures,
	)
}
