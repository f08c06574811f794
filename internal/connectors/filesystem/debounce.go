package filesystem

import "time"

// debouncer calls fire once a path has been quiet for d. It is owned by a
// single goroutine; fire runs on a timer goroutine.
type debouncer struct {
	d      time.Duration
	fire   func(path string)
	timers map[string]*time.Timer
}

func newDebouncer(d time.Duration, fire func(path string)) *debouncer {
	return &debouncer{d: d, fire: fire, timers: make(map[string]*time.Timer)}
}

// touch records activity on path. A path whose timer has already fired
// stays scheduled once until done is called for it.
func (b *debouncer) touch(path string) {
	if t, ok := b.timers[path]; ok {
		if t.Stop() {
			t.Reset(b.d)
		}
		return
	}
	b.timers[path] = time.AfterFunc(b.d, func() { b.fire(path) })
}

// done forgets path after its delivery has been handled.
func (b *debouncer) done(path string) {
	delete(b.timers, path)
}

func (b *debouncer) stop() {
	for _, t := range b.timers {
		t.Stop()
	}
}
