// Package menu implements perch's navigation panel.
//
// The panel is a fixed row of seven items:
//
//	[toggle-read] subscribe manage-feeds update-feeds refresh all-entries show-starred
//
// The first item is the show-read toggle, built once from a ToggleFactory and
// kept for the panel's lifetime. Render detaches every child of the root and
// reattaches the same nodes in the same order, so the toggle's element (and
// whatever state its owner keeps on it) survives any number of renders.
//
// Input is dispatched by command name rather than by key or markup. The UI
// maps keys and clicks to a Command and calls Dispatch:
//
//	subscribe, manage-feeds   construct a new Dialog, Render it, Show it
//	update-feeds              start TriggerUpdate on a goroutine and return
//	refresh                   no-op, reserved for reloading the current view
//	all-entries, show-starred not intercepted; the Result carries the path
//
// Handlers are method values bound in New, so Handler(cmd) can be stored and
// called later without going through Dispatch.
//
// The update request has no timeout, retry, or completion handling of its own
// beyond what the UpdateTrigger does. Failures are dropped unless
// Options.OnUpdateResult is set.
//
// Classes, command names and link paths are fixed identifiers, not display
// text. Classes use hyphens and double as Command values. The two links are
// PathAllEntries ("/") and PathStarred ("/?filter=starred"), and the update
// endpoint is reader.UpdatePath. Servers or scripts that expect underscore
// names such as update_feeds or a feeds/starred path need a mapping layer.
//
// The panel reads the preferences and holds the feed and entry collections by
// pointer. It never writes to any of them.
package menu
