// Package client contains the transport used by the VetClinic session layer.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     authentication endpoints: Login/Register, ValidateCredential,
//     RefreshCredential, profile read/update and the password flows.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that attaches
//     the stored bearer credential, tags every request with an X-Request-ID
//     and maps HTTP failures to *Error values.
//
// # Error Handling
//
// Every failure is an *Error carrying a Kind, the HTTP status (0 when no
// response arrived), a user-facing message and optional field errors.
// Callers match categories with errors.Is against ErrUnauthorized,
// ErrForbidden, ErrValidation, ErrRateLimited, ErrServer and ErrUnavailable.
//
// A 401 on an endpoint that requires a credential clears the session store
// and invokes the unauthorized handler. A 401 on the public entry points
// (login, register, password recovery) is just an invalid-credentials error.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
