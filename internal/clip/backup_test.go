package clip_test

import (
	"errors"
	"testing"

	"clipkeep/internal/clip"
	"clipkeep/internal/testutil"
)

func TestService_PushPullBackup(t *testing.T) {
	vault := testutil.NewTestVault()
	src := testutil.NewEngine(t)
	_, _ = src.Service.AddManual("backed up", "", true)

	v1, err := src.Service.PushBackup(vault, "host-a")
	if err != nil {
		t.Fatalf("PushBackup() error = %v", err)
	}
	if v1 != 1 {
		t.Errorf("first PushBackup() version = %d, want 1", v1)
	}

	v2, err := src.Service.PushBackup(vault, "host-a")
	if err != nil {
		t.Fatalf("second PushBackup() error = %v", err)
	}
	if v2 != 2 {
		t.Errorf("second PushBackup() version = %d, want 2", v2)
	}

	dst := testutil.NewEngine(t)
	version, summary, err := dst.Service.PullBackup(vault, "host-a")
	if err != nil {
		t.Fatalf("PullBackup() error = %v", err)
	}
	if version != 2 {
		t.Errorf("PullBackup() version = %d, want 2", version)
	}
	if summary.Records != 1 {
		t.Errorf("summary.Records = %d, want 1", summary.Records)
	}
	got := dst.Store.ListRecords()
	if len(got) != 1 || got[0].Text != "backed up" || !got[0].IsFavorite {
		t.Errorf("ListRecords() = %+v, want the backed up favorite", got)
	}
}

func TestService_PullBackup_NothingStored(t *testing.T) {
	e := testutil.NewEngine(t)

	_, _, err := e.Service.PullBackup(testutil.NewTestVault(), "host-a")
	if !errors.Is(err, clip.ErrNotFound) {
		t.Errorf("PullBackup() error = %v, want ErrNotFound", err)
	}
}
