// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - planet-data backend, metrics endpoint, stdout tracing
// 0.2.0 - Camera views, object markers, YAML config, rate-limited ephemeris client
// 0.1.0 - Initial release: orrery TUI, Horizons reconciler, headless summary
