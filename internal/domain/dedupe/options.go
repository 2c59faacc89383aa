// Package dedupe collapses raw test-attempt records into one entry per
// participant identity.
package dedupe

// Option applies a configuration option to the max-score deduper.
type Option func(*maxScoreDeduper)

// WithAnonymousRetention keeps records that lack an identity key by deduping
// them under a synthetic per-row key instead of dropping them. Off by
// default: the historical behavior excludes anonymous attempts from the
// ranking entirely.
func WithAnonymousRetention(keep bool) Option {
	return func(d *maxScoreDeduper) {
		d.keepAnonymous = keep
	}
}
