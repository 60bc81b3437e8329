package journal

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *captureSink) Record(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *captureSink) all() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

func TestBook_AppendAssignsIDsAndTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	b := NewBook(clock, nil)

	e1 := b.Append(Info, "hello")
	clock.Advance(time.Second)
	e2 := b.Append(Error, "oops")

	assert.Equal(t, int64(1), e1.ID)
	assert.Equal(t, int64(2), e2.ID)
	assert.Equal(t, start, e1.At)
	assert.Equal(t, start.Add(time.Second), e2.At)
	assert.Equal(t, []Entry{e1, e2}, b.Entries())
	assert.Equal(t, 2, b.Len())
}

func TestBook_EntriesIsACopy(t *testing.T) {
	b := NewBook(clockwork.NewFakeClock(), nil)
	b.Append(Info, "a")

	got := b.Entries()
	got[0].Text = "changed"

	assert.Equal(t, "a", b.Entries()[0].Text)
}

func TestBook_Since(t *testing.T) {
	b := NewBook(clockwork.NewFakeClock(), nil)
	b.Append(Info, "a")
	b.Append(Success, "b")
	b.Append(Error, "c")

	tail := b.Since(1)
	require.Len(t, tail, 2)
	assert.Equal(t, "b", tail[0].Text)
	assert.Equal(t, "c", tail[1].Text)

	assert.Len(t, b.Since(-5), 3)
	assert.Nil(t, b.Since(3))
	assert.Nil(t, b.Since(10))
}

func TestBook_Last(t *testing.T) {
	b := NewBook(clockwork.NewFakeClock(), nil)
	_, ok := b.Last()
	assert.False(t, ok)

	b.Append(Info, "a")
	b.Append(Error, "z")
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "z", last.Text)
}

func TestBook_SinkReceivesEveryEntry(t *testing.T) {
	sink := &captureSink{}
	b := NewBook(clockwork.NewFakeClock(), sink)

	b.Append(Info, "a")
	b.Append(Success, "b")

	assert.Equal(t, b.Entries(), sink.all())
}

func TestBook_SubscribeCoalesces(t *testing.T) {
	b := NewBook(clockwork.NewFakeClock(), nil)
	ch, unsubscribe := b.Subscribe()

	b.Append(Info, "a")
	b.Append(Info, "b")

	select {
	case <-ch:
	default:
		t.Fatal("expected a wakeup")
	}
	select {
	case <-ch:
		t.Fatal("wakeups should coalesce")
	default:
	}

	unsubscribe()
	b.Append(Info, "c")
	select {
	case <-ch:
		t.Fatal("unsubscribed channel must stay quiet")
	default:
	}
}

func TestBook_ConcurrentAppend(t *testing.T) {
	b := NewBook(clockwork.NewFakeClock(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Append(Info, "x")
		}()
	}
	wg.Wait()

	entries := b.Entries()
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.ID)
	}
}
