// Package sessionsdk is a Go client for the Doorman session service.
//
// The service keeps the access token in an HttpOnly cookie, so the client
// carries a cookie jar and behaves like a browser: Login stores the cookie,
// every later call sends it back automatically, Logout drops it.
//
// Basic usage:
//
//	client, err := sessionsdk.NewClient("https://auth.example.com")
//	if err != nil { ... }
//
//	login, err := client.Login(ctx, "alice@example.com", "password")
//	if err != nil { ... }
//
//	me, err := client.Whoami(ctx)
package sessionsdk
