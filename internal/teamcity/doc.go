// Package teamcity implements the REST client for a TeamCity server.
//
// The client speaks the JSON flavor of the TeamCity REST API under
// /httpAuth/app/rest (basic auth) or /guestAuth/app/rest (no credentials).
// List endpoints are filtered through a Locator, the comma-joined
// key:value expression TeamCity uses for server-side filtering. Responses
// are decoded into map[string]any with json.Number preserved, so numeric
// ids survive round trips without float formatting artifacts.
//
// Every list endpoint has a sibling ...URL method that returns the fully
// resolved request URL without executing the request; the CLI uses these
// for --show-url mode. Failed requests are reported as *HTTPError, which
// carries the attempted URL, the status code (0 when the request never
// reached the server), and the response detail.
package teamcity
