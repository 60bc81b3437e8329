package journal

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// Sink receives every appended entry. Record is called with the book lock
// held and must not block.
type Sink interface {
	Record(e Entry)
}

// Book is a mutex-guarded, append-only activity log.
type Book struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries []Entry
	sink    Sink
	subs    map[chan struct{}]struct{}
}

// NewBook creates an empty book. sink may be nil.
func NewBook(clock clockwork.Clock, sink Sink) *Book {
	return &Book{
		clock: clock,
		sink:  sink,
		subs:  make(map[chan struct{}]struct{}),
	}
}

// Append adds an entry and wakes subscribers.
func (b *Book) Append(sev Severity, text string) Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := Entry{
		ID:       int64(len(b.entries)) + 1,
		Severity: sev,
		Text:     text,
		At:       b.clock.Now(),
	}
	b.entries = append(b.entries, e)

	if b.sink != nil {
		b.sink.Record(e)
	}
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return e
}

// Entries returns a copy of all entries in insertion order.
func (b *Book) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Since returns the entries whose ID is greater than id.
func (b *Book) Since(id int64) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id < 0 {
		id = 0
	}
	if id >= int64(len(b.entries)) {
		return nil
	}
	out := make([]Entry, int64(len(b.entries))-id)
	copy(out, b.entries[id:])
	return out
}

// Len reports the number of entries.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Last returns the newest entry.
func (b *Book) Last() (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

// Subscribe returns a channel signalled after appends. Signals coalesce: a
// slow reader sees one wakeup for many entries and should call Since. The
// returned func unsubscribes.
func (b *Book) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}
