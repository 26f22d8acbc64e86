package service

import "github.com/msomdec/o2o-admin/internal/domain"

// State is the result code of a product operation.
type State int

const (
	StateSuccess          State = 1
	StateOperationFailed  State = -1001
	StateValidationFailed State = -1002
)

func (s State) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateOperationFailed:
		return "operation failed"
	case StateValidationFailed:
		return "validation failed"
	default:
		return "unknown"
	}
}

// Outcome reports the result of a pipeline call. Reason is set whenever
// State is not StateSuccess, and Err keeps the underlying cause when there
// is one. Warnings collect best-effort failures that did not change the state.
type Outcome struct {
	State    State
	Reason   string
	Err      error
	Warnings []string
	Count    int
	Product  *domain.Product
	Products []domain.Product
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.State == StateSuccess
}

func success() Outcome {
	return Outcome{State: StateSuccess}
}

func validationFailed(reason string) Outcome {
	return Outcome{State: StateValidationFailed, Reason: reason}
}

func operationFailed(reason string) Outcome {
	return Outcome{State: StateOperationFailed, Reason: reason}
}

func operationError(reason string, err error) Outcome {
	return Outcome{State: StateOperationFailed, Reason: reason, Err: err}
}
