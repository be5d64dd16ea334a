package autherr

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// ErrNetwork can be wrapped by transports to flag a generic network failure.
var ErrNetwork = errors.New("NetworkError")

var networkHints = []string{"NetworkError", "Failed to fetch", "Network request failed"}

// Classify maps err onto a user-facing Error. online is the device
// connectivity at the moment of classification. A nil err yields nil.
func Classify(err error, online bool) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if !online {
		return &Error{Name: NameNetwork, Message: MsgOffline, cause: err}
	}

	if isUnreachable(err) {
		return &Error{Name: NameNetwork, Message: MsgUnreachable, cause: err}
	}

	if isNetwork(err) {
		return &Error{Name: NameNetwork, Message: MsgNetwork, cause: err}
	}

	code := statusCode(err)
	name := errorName(err)
	msg := errorMessage(err)

	switch {
	case code >= 500 && code < 600:
		return &Error{Name: orDefault(name, NameServer), Message: MsgServer, Code: code, cause: err}

	case code >= 400 && code < 500:
		switch code {
		case 401:
			msg = MsgInvalidCredential
		case 429:
			msg = MsgTooManyAttempts
		}
		return &Error{Name: orDefault(name, NameAuth), Message: orDefault(msg, MsgUnexpected), Code: code, cause: err}
	}

	if code == 0 {
		code = 500
	}
	return &Error{Name: orDefault(name, NameUnknown), Message: orDefault(msg, MsgUnexpected), Code: code, cause: err}
}

// isUnreachable matches failures that mean the endpoint itself could not be
// reached: name resolution, refused or failed dials.
func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH)
}

func isNetwork(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var typed Typer
	if errors.As(err, &typed) && typed.ErrorType() == NameNetwork {
		return true
	}

	msg := err.Error()
	for _, hint := range networkHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func statusCode(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func errorName(err error) string {
	var n Namer
	if errors.As(err, &n) {
		return n.ErrorName()
	}
	return ""
}

// errorMessage prefers the message of the error that carries a status code,
// so transport wrapping does not leak into what the user sees.
func errorMessage(err error) string {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if e, ok := sc.(error); ok {
			return e.Error()
		}
	}
	return err.Error()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
