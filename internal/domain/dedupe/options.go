package dedupe

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of ids retained before the oldest are
// evicted. Values <= 0 disable eviction.
func WithMaxSize(n int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = n
	}
}
