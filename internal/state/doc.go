// Package state tracks perch's sync status.
//
// The poller writes to a Store after every attempt and the UI header reads
// Snapshots on each tick. The feeds and entries themselves live in
// feed.Set and feed.EntrySet; the Store only records how the last poll went:
//
//	Producer (poller):              Consumer (UI):
//	  FetchFeeds()
//	  FetchEntries()
//	  store.Update(summary, err) ──> store.Snapshot()
//
// A failed poll keeps the previous summary and bumps ConsecutiveFailures;
// two or more failures in a row mark the snapshot offline. A summary seeded
// from the local cache is flagged FromCache until the first live poll lands.
//
// Snapshot returns a value copy with the error rewrapped, so callers can
// hold on to it without synchronizing.
package state
