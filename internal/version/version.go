// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
const Version = "0.4.0"

// Commit and Date are set at build time with -ldflags.
var (
	Commit = "none"
	Date   = "unknown"
)

// Milestones:
// 0.4.0 - serve subcommand (JSON API), config hot reload, month browser TUI
// 0.3.0 - Meeus ephemeris resolver, compare and calendar subcommands
// 0.2.0 - Local estimator, --source flag, config file and .env support
// 0.1.0 - Initial release: USNO almanac lookup with a daily glyph cache

// String returns the version line printed by the version subcommand.
func String() string {
	return fmt.Sprintf("ls-moonphase %s (commit %s, built %s)", Version, Commit, Date)
}
