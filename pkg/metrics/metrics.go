package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProvisioningMetrics counts provisioning request outcomes by mode.
type ProvisioningMetrics struct {
	success *prometheus.CounterVec
	failure *prometheus.CounterVec
	invites *prometheus.CounterVec
}

// NewProvisioningMetrics registers the provisioning counters on the provided
// registerer. A nil registerer yields a no-op instance for tests.
func NewProvisioningMetrics(reg prometheus.Registerer) *ProvisioningMetrics {
	if reg == nil {
		return &ProvisioningMetrics{}
	}
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provisioning_success_total",
		Help: "Successful provisioning requests.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provisioning_failure_total",
		Help: "Failed provisioning requests.",
	}, []string{"mode", "code"})
	invites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provisioning_invite_emails_total",
		Help: "Invite email sends by delivery result.",
	}, []string{"result"})
	reg.MustRegister(success, failure, invites)
	return &ProvisioningMetrics{
		success: success,
		failure: failure,
		invites: invites,
	}
}

// IncSuccess increments the success counter for the given mode.
func (m *ProvisioningMetrics) IncSuccess(mode string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the given mode and code.
func (m *ProvisioningMetrics) IncFailure(mode, code string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(mode), normalizeLabel(code)).Inc()
}

// IncInvite records an invite email attempt outcome ("sent" or "failed").
func (m *ProvisioningMetrics) IncInvite(result string) {
	if m == nil || m.invites == nil {
		return
	}
	m.invites.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
