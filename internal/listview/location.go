package listview

import (
	"net/url"
	"sync"
)

// Location is the URL a screen is bound to. Push records a new history entry
// and Replace overwrites the current one. Both notify subscribers
// synchronously before returning.
type Location interface {
	Values() url.Values
	Push(v url.Values)
	Replace(v url.Values)
	Subscribe(fn func(url.Values)) (unsubscribe func())
}

// MemoryLocation is an in-process Location with back/forward history.
type MemoryLocation struct {
	path string

	mu      sync.Mutex
	entries []url.Values
	index   int
	subs    map[int]func(url.Values)
	nextSub int
}

// NewMemoryLocation starts history at path?initial.
func NewMemoryLocation(path string, initial url.Values) *MemoryLocation {
	if initial == nil {
		initial = url.Values{}
	}
	return &MemoryLocation{
		path:    path,
		entries: []url.Values{cloneValues(initial)},
		subs:    make(map[int]func(url.Values)),
	}
}

// ParseLocation builds a MemoryLocation from a raw URL such as
// "/articles?page=2".
func ParseLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewMemoryLocation(u.Path, u.Query()), nil
}

// Values returns a copy of the current query values.
func (l *MemoryLocation) Values() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.entries[l.index])
}

// Push appends v after the current entry, dropping any forward history.
func (l *MemoryLocation) Push(v url.Values) {
	l.mu.Lock()
	l.entries = append(l.entries[:l.index+1], cloneValues(v))
	l.index = len(l.entries) - 1
	l.mu.Unlock()
	l.notify(v)
}

// Replace overwrites the current entry, keeping forward history.
func (l *MemoryLocation) Replace(v url.Values) {
	l.mu.Lock()
	l.entries[l.index] = cloneValues(v)
	l.mu.Unlock()
	l.notify(v)
}

// Back moves one entry back. It reports false at the start of history.
func (l *MemoryLocation) Back() bool {
	return l.move(-1)
}

// Forward moves one entry forward. It reports false at the end of history.
func (l *MemoryLocation) Forward() bool {
	return l.move(1)
}

// Len is the number of history entries.
func (l *MemoryLocation) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// String renders the current URL.
func (l *MemoryLocation) String() string {
	v := l.Values()
	if len(v) == 0 {
		return l.path
	}
	return l.path + "?" + v.Encode()
}

// Subscribe registers fn for every navigation.
func (l *MemoryLocation) Subscribe(fn func(url.Values)) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *MemoryLocation) move(delta int) bool {
	l.mu.Lock()
	next := l.index + delta
	if next < 0 || next >= len(l.entries) {
		l.mu.Unlock()
		return false
	}
	l.index = next
	v := cloneValues(l.entries[next])
	l.mu.Unlock()
	l.notify(v)
	return true
}

func (l *MemoryLocation) notify(v url.Values) {
	l.mu.Lock()
	subs := make([]func(url.Values), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()
	for _, fn := range subs {
		fn(cloneValues(v))
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
