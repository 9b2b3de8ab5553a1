package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	applied []string
}

func (r *recorder) apply(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, q)
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.applied...)
}

func TestDebouncer(t *testing.T) {
	t.Run("fires after quiet window", func(t *testing.T) {
		rec := &recorder{}
		d := NewDebouncer(20*time.Millisecond, rec.apply)
		defer d.Stop()

		d.Trigger("launch")
		require.Eventually(t, func() bool {
			return len(rec.values()) == 1 && rec.values()[0] == "launch"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("only last value wins", func(t *testing.T) {
		rec := &recorder{}
		d := NewDebouncer(30*time.Millisecond, rec.apply)
		defer d.Stop()

		d.Trigger("l")
		d.Trigger("la")
		d.Trigger("launch")
		require.Eventually(t, func() bool {
			vals := rec.values()
			return len(vals) == 1 && vals[0] == "launch"
		}, time.Second, 5*time.Millisecond)

		time.Sleep(60 * time.Millisecond)
		require.Equal(t, []string{"launch"}, rec.values())
	})

	t.Run("stop cancels pending fire", func(t *testing.T) {
		rec := &recorder{}
		d := NewDebouncer(30*time.Millisecond, rec.apply)

		d.Trigger("stale")
		d.Stop()

		time.Sleep(80 * time.Millisecond)
		require.Empty(t, rec.values())
	})

	t.Run("trigger after stop is ignored", func(t *testing.T) {
		rec := &recorder{}
		d := NewDebouncer(10*time.Millisecond, rec.apply)
		d.Stop()

		d.Trigger("late")
		time.Sleep(40 * time.Millisecond)
		require.Empty(t, rec.values())
	})

	t.Run("zero window falls back to default", func(t *testing.T) {
		d := NewDebouncer(0, func(string) {})
		defer d.Stop()
		require.Equal(t, DefaultDebounce, d.window)
	})
}
