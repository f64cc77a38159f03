package auth

import (
	"fmt"
	"net/http"
)

// Reason classifies why a credential was rejected.
type Reason string

const (
	Missing          Reason = "missing"
	Malformed        Reason = "malformed"
	Expired          Reason = "expired"
	InvalidSignature Reason = "invalid-signature"
	WrongAudience    Reason = "wrong-audience"
)

type Failure struct {
	Reason Reason
	Err    error
}

func fail(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("auth %s: %v", f.Reason, f.Err)
	}
	return "auth " + string(f.Reason)
}

func (f *Failure) Unwrap() error { return f.Err }

// Status is the HTTP status the failure is reported with.
func (f *Failure) Status() int {
	switch f.Reason {
	case InvalidSignature, WrongAudience:
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}

func (f *Failure) Message() string {
	switch f.Reason {
	case Missing:
		return "Authorization token is missing"
	case Expired:
		return "Token has expired"
	case InvalidSignature:
		return "Invalid token signature"
	case WrongAudience:
		return "You don't have permission to access this resource"
	default:
		return "Invalid token"
	}
}
