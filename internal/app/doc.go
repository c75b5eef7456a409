// Package app is the composition root for perch.
//
// Run loads config and preferences, opens the log file and the SQLite cache,
// seeds the shared feed and entry collections from the cache, starts the
// background poller and then blocks in the TUI until the user quits or the
// context is cancelled.
//
// # Polling
//
// The poller fetches feeds and entries from the reader server at the
// configured interval (default 30 seconds), swaps them into the shared
// collections, records the outcome in state.Store and writes the result back
// to the cache. After a failure it retries sooner, doubling the wait from two
// seconds up to a thirty second cap; a success resets the schedule.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Unreadable or malformed config file
//   - Log file or cache database that cannot be opened
//   - Reader client initialization failure
//
// Recoverable errors (logged, polling continues):
//   - Feed or entry fetch failures, shown in the header
//   - Cache read or write failures
//   - Preference load failures, which fall back to defaults
package app
