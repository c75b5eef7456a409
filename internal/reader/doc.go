// Package reader is the HTTP client for the feed reader server.
//
// The server owns subscriptions, fetching, and entry storage. perch only
// reads from it and issues a handful of commands:
//
//	GET    /api/feeds                  list subscriptions
//	GET    /api/entries?filter=&feed=  list entries
//	POST   /api/feeds     {"url": ...} subscribe
//	DELETE /api/feeds/<id>             unsubscribe
//	GET    /api/feeds/update           refresh every feed (idempotent)
//
// Every request sends Accept: application/json and a perch User-Agent, and
// times out after 10 seconds. Status codes >= 400 become errors of the form
// "api <path> returned status <code>".
//
// The update call is used by the menu as fire-and-forget: the caller starts
// it on its own goroutine and drops the error. The client itself does not
// retry.
package reader
