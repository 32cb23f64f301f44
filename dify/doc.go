// Package dify provides a client for the Dify console and public APIs.
//
// Dify is a self-hostable LLM application platform. This package wraps its
// HTTP APIs with typed request structs, a shared session, and a uniform
// error taxonomy.
//
// # Architecture
//
//   - Client: request dispatcher that builds URLs, attaches credentials and
//     maps HTTP outcomes to typed errors
//   - Session: process-local bearer token storage, populated by Login and
//     cleared automatically when the backend rejects it
//   - Types: per-operation request/response structs
//   - Errors: sentinel errors plus APIError for upstream failures
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := dify.NewClient("https://dify.example.com", logger,
//		dify.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := client.Login(ctx, "admin@example.com", "secret"); err != nil {
//		log.Fatal(err)
//	}
//
//	apps, err := client.ListApps(ctx)
//
// Console operations require a prior Login; without a session token they
// fail locally with ErrUnauthenticated before any network call. Public API
// operations (ChatCompletion, GetConversations) authenticate with an app
// key instead and never touch the session.
//
// # Error Handling
//
// All failures are classified:
//
//   - ErrUnreachable: transport failure (DNS, connect, timeout)
//   - ErrUnauthenticated: missing or rejected session token; the stored
//     token is invalidated so the next call fails fast until re-login
//   - ErrInvalidCredentials: login rejected
//   - ErrNotFound: no such app or dataset
//   - ErrMalformedResponse: 2xx with an undecodable body
//   - APIError: any non-2xx status, with helpers such as IsServerError
//
// Nothing is retried; callers decide whether resubmitting is safe.
package dify
