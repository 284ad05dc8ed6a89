package redemption

// Reason is the stable rejection code surfaced to callers. Values are part
// of the API contract and never change meaning.
type Reason string

const (
	ReasonDisabled        Reason = "Disabled"
	ReasonExpired         Reason = "Expired"
	ReasonExhaustedCap    Reason = "ExhaustedCap"
	ReasonNotEligible     Reason = "NotEligible"
	ReasonGatewayRetry    Reason = "GatewayRetryable"
	ReasonGatewayTerminal Reason = "GatewayTerminal"
	ReasonConflict        Reason = "ConflictExceededRetries"
)

type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return string(r.Reason) + ": " + r.Message
}

func Reject(reason Reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}
