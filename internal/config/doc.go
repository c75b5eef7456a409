// Package config loads perch's configuration file.
//
// The file lives at ~/.config/perch/config.toml unless overridden with
// --config. Every key is optional:
//
//	server       = "127.0.0.1:8080"              # reader server host:port or URL
//	cache_path   = "~/.cache/perch/perch.db"     # SQLite cache of feeds and entries
//	log_file     = "~/.local/state/perch/perch.log"
//	poll_seconds = 30
//
// A missing file yields the defaults above. A file that exists but cannot be
// read or parsed is an error, since silently ignoring it would point perch at
// the wrong server. Paths beginning with ~ are expanded against $HOME and made
// absolute.
package config
