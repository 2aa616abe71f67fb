package types

// SuccessEnvelope is the wire shape for every successful response. The
// correlation id echoes the caller's X-Correlation-Id header (or a generated
// one) so console and server logs can be joined.
type SuccessEnvelope struct {
	OK            bool   `json:"ok"`
	Data          any    `json:"data"`
	CorrelationID string `json:"correlationId"`
}

// ErrorEnvelope is the wire shape for every failed response.
type ErrorEnvelope struct {
	OK            bool     `json:"ok"`
	Error         APIError `json:"error"`
	CorrelationID string   `json:"correlationId"`
}

// APIError carries a machine-readable code plus a human-readable message.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
