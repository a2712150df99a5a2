package clip_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipkeep/internal/clip"
	"clipkeep/internal/testutil"
)

func TestMonitor_Start(t *testing.T) {
	t.Run("seeds last observed from clipboard", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Clipboard.Set("already there")

		e.Monitor.Start()

		assert.True(t, e.Monitor.Active())
		assert.Equal(t, "already there", e.Monitor.LastObserved())
	})

	t.Run("clipboard failure leaves seed empty", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Clipboard.Fail(errors.New("no display"))

		e.Monitor.Start()

		assert.True(t, e.Monitor.Active())
		assert.Empty(t, e.Monitor.LastObserved())
	})

	t.Run("stop clears active", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()
		e.Monitor.Stop()
		assert.False(t, e.Monitor.Active())
	})
}

func TestMonitor_Poll(t *testing.T) {
	t.Run("unchanged clipboard captures nothing but records the check", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Clipboard.Set("hello")
		e.Monitor.Start()

		assert.False(t, e.Monitor.Poll())
		assert.Empty(t, e.Store.ListRecords())

		at, ok := e.Store.LastCheck()
		require.True(t, ok)
		assert.True(t, at.Equal(e.Clock.Now()))
	})

	t.Run("new text is captured once", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()

		e.Clipboard.Set("see https://example.com #Docs")
		require.True(t, e.Monitor.Poll())

		records := e.Store.ListRecords()
		require.Len(t, records, 1)
		r := records[0]
		assert.Equal(t, "id-1", r.ID)
		assert.Equal(t, clip.TypeLink, r.Type)
		assert.ElementsMatch(t, []string{"docs", "link"}, r.Tags)
		assert.False(t, r.IsFavorite)
		assert.Empty(t, r.FolderID)
		assert.True(t, r.Timestamp.Equal(e.Clock.Now()))
		assert.Equal(t, "see https://example.com #Docs", e.Monitor.LastObserved())

		e.Clock.Advance(2 * time.Second)
		assert.False(t, e.Monitor.Poll(), "same text must not be captured twice")
		assert.Len(t, e.Store.ListRecords(), 1)
	})

	t.Run("blank text is ignored", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()

		for _, text := range []string{"", "   ", "\n\t"} {
			e.Clipboard.Set(text)
			assert.False(t, e.Monitor.Poll(), "text %q", text)
		}
		assert.Empty(t, e.Store.ListRecords())
	})

	t.Run("auto-save off does not read the clipboard", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()
		settings := e.Store.Settings()
		settings.AutoSave = false
		require.NoError(t, e.Store.SaveSettings(settings))

		e.Clipboard.Set("new text")
		assert.False(t, e.Monitor.Poll())
		assert.Empty(t, e.Store.ListRecords())

		_, ok := e.Store.LastCheck()
		assert.False(t, ok, "no check should be recorded while auto-save is off")
	})

	t.Run("clipboard read failure reports no change", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()
		e.Clipboard.Fail(errors.New("locked"))

		assert.False(t, e.Monitor.Poll())
		assert.Empty(t, e.Store.ListRecords())
	})

	t.Run("failed append is retried on the next poll", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()
		e.Clipboard.Set("important")
		e.DB.FailPut(clip.KeyRecords, true)

		assert.False(t, e.Monitor.Poll())
		assert.Empty(t, e.Monitor.LastObserved())

		e.DB.FailPut(clip.KeyRecords, false)
		assert.True(t, e.Monitor.Poll())
		assert.Len(t, e.Store.ListRecords(), 1)
	})

	t.Run("successive copies are stored newest first", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()

		for _, text := range []string{"one", "two", "three"} {
			e.Clipboard.Set(text)
			e.Clock.Advance(time.Second)
			require.True(t, e.Monitor.Poll())
		}

		var texts []string
		for _, r := range e.Store.ListRecords() {
			texts = append(texts, r.Text)
		}
		assert.Equal(t, []string{"three", "two", "one"}, texts)
	})
}

func TestMonitor_CopyOut(t *testing.T) {
	t.Run("own output is not captured", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Start()

		require.NoError(t, e.Monitor.CopyOut("pasted back"))

		got, _ := e.Clipboard.ReadText()
		assert.Equal(t, "pasted back", got)
		assert.False(t, e.Monitor.Poll())
		assert.Empty(t, e.Store.ListRecords())
	})

	t.Run("own output is not captured by another monitor on the same store", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Clipboard.Set("alpha")
		alpha, err := e.Service.AddManual("alpha", "", false)
		require.NoError(t, err)

		watcher := clip.NewMonitor(e.Clipboard, e.Store, e.Clock, e.IDs, clip.NewNopLogger())
		watcher.Start()
		e.Clipboard.Set("beta")
		require.True(t, watcher.Poll())

		_, err = e.Service.CopyOut(alpha.ID)
		require.NoError(t, err)

		assert.False(t, watcher.Poll(), "a running watcher skips text copied out elsewhere")
		oneShot := clip.NewMonitor(e.Clipboard, e.Store, e.Clock, e.IDs, clip.NewNopLogger())
		oneShot.Resume(e.Service.Recent(1)[0].Text)
		assert.False(t, oneShot.Poll(), "a later one-shot poll skips it too")
		assert.Len(t, e.Store.ListRecords(), 2)

		last, ok := e.Store.LastObserved()
		require.True(t, ok)
		assert.Equal(t, "alpha", last)
	})

	t.Run("write failure is returned", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Clipboard.Fail(errors.New("denied"))

		assert.Error(t, e.Monitor.CopyOut("x"))
		assert.Empty(t, e.Monitor.LastObserved())
	})
}

func TestMonitor_CurrentAndAvailable(t *testing.T) {
	e := testutil.NewEngine(t)
	e.Clipboard.Set("live")

	assert.Equal(t, "live", e.Monitor.Current())
	assert.True(t, e.Monitor.Available())

	e.Clipboard.Fail(errors.New("gone"))
	assert.Empty(t, e.Monitor.Current())
	assert.False(t, e.Monitor.Available())
}

func TestMonitor_Resume(t *testing.T) {
	t.Run("stored observation wins over fallback", func(t *testing.T) {
		e := testutil.NewEngine(t)
		require.NoError(t, e.Store.SaveLastObserved("copied out"))
		e.Clipboard.Set("copied out")

		e.Monitor.Resume("newest record")
		assert.Equal(t, "copied out", e.Monitor.LastObserved())
		assert.False(t, e.Monitor.Poll())
	})

	t.Run("fallback used when nothing stored", func(t *testing.T) {
		e := testutil.NewEngine(t)
		e.Monitor.Resume("newest record")
		assert.Equal(t, "newest record", e.Monitor.LastObserved())
	})
}

func TestMonitor_ResumeAcrossRuns(t *testing.T) {
	e := testutil.NewEngine(t)
	e.Clipboard.Set("stored last run")

	e.Monitor.Resume("stored last run")
	assert.True(t, e.Monitor.Active())
	assert.False(t, e.Monitor.Poll(), "text seen in an earlier run is not captured again")

	e.Clipboard.Set("new since last run")
	assert.True(t, e.Monitor.Poll())
	assert.Len(t, e.Store.ListRecords(), 1)
}
