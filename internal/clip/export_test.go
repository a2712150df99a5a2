package clip_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"clipkeep/internal/clip"
	"clipkeep/internal/testutil"
)

func TestStore_Export(t *testing.T) {
	e := testutil.NewEngine(t)
	work, _ := e.Service.CreateFolder("Work", "folder", "#6366F1")
	_, _ = e.Service.AddManual("in work", work.ID, true)
	_, _ = e.Service.AddManual("loose", "", false)
	_ = e.Store.SaveUser(clip.User{ID: "u1", SubscriptionType: clip.SubscriptionFree})

	data, err := e.Store.Export(e.Clock.Now())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var doc clip.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Version != clip.ExportVersion {
		t.Errorf("Version = %q, want %q", doc.Version, clip.ExportVersion)
	}
	if !doc.ExportDate.Equal(e.Clock.Now()) {
		t.Errorf("ExportDate = %v, want %v", doc.ExportDate, e.Clock.Now())
	}
	if len(doc.Items) != 2 || len(doc.Folders) != 1 {
		t.Errorf("Items = %d Folders = %d, want 2 and 1", len(doc.Items), len(doc.Folders))
	}
	if doc.UserData == nil || doc.UserData.ID != "u1" {
		t.Errorf("UserData = %+v, want u1", doc.UserData)
	}
	if doc.Settings != clip.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", doc.Settings)
	}
}

func TestStore_Export_EmptyStore(t *testing.T) {
	s := testutil.NewTestStore(t)

	data, err := s.Export(t0)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if string(raw["items"]) != "[]" || string(raw["folders"]) != "[]" {
		t.Errorf("items = %s folders = %s, want empty arrays", raw["items"], raw["folders"])
	}
	if string(raw["userData"]) != "null" {
		t.Errorf("userData = %s, want null", raw["userData"])
	}
}

func TestStore_Export_FailsOnUnreadableData(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	_ = db.Put(clip.KeyFolders, []byte("not json"))
	s := clip.NewStore(db, clip.NewNopLogger())

	if _, err := s.Export(t0); err == nil {
		t.Error("Export() expected error for undecodable folders")
	}
}

func TestStore_Import(t *testing.T) {
	t.Run("round trip into a fresh store", func(t *testing.T) {
		src := testutil.NewEngine(t)
		work, _ := src.Service.CreateFolder("Work", "", "")
		_, _ = src.Service.AddManual("one", work.ID, false)
		_, _ = src.Service.AddManual("two #tag", "", true)
		settings := src.Store.Settings()
		settings.Theme = clip.ThemeDark
		_ = src.Store.SaveSettings(settings)

		data, err := src.Store.Export(src.Clock.Now())
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		dst := testutil.NewTestStore(t)
		summary, err := dst.Import(data)
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if summary.Records != 2 || summary.Folders != 1 || !summary.Settings || summary.User {
			t.Errorf("summary = %+v, want 2 records, 1 folder, settings, no user", summary)
		}

		got := dst.ListRecords()
		want := src.Store.ListRecords()
		if len(got) != len(want) {
			t.Fatalf("len(records) = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID || got[i].Text != want[i].Text || !got[i].Timestamp.Equal(want[i].Timestamp) {
				t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
			}
		}
		if got := folderCount(t, dst, work.ID); got != 1 {
			t.Errorf("Work count = %d, want 1", got)
		}
		if dst.Settings().Theme != clip.ThemeDark {
			t.Errorf("Theme = %q, want dark", dst.Settings().Theme)
		}
	})

	t.Run("absent fields are left untouched", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_ = s.AppendRecord(newRecord("r1", "keep me", 0))
		r := newRecord("r2", "member", time.Minute)
		r.FolderID = "f9"
		_ = s.AppendRecord(r)

		summary, err := s.Import([]byte(`{"folders":[{"id":"f9","name":"Imported","itemCount":0}]}`))
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if summary.Records != 0 || summary.Folders != 1 {
			t.Errorf("summary = %+v, want only folders applied", summary)
		}
		if got := s.ListRecords(); len(got) != 2 {
			t.Errorf("ListRecords() = %d records, want 2 untouched", len(got))
		}
		if got := folderCount(t, s, "f9"); got != 1 {
			t.Errorf("imported folder count = %d, want recounted 1", got)
		}
	})

	t.Run("malformed field changes nothing", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		_ = s.AppendRecord(newRecord("r1", "original", 0))

		_, err := s.Import([]byte(`{"folders":[],"items":"oops"}`))
		if err == nil {
			t.Fatal("Import() expected error")
		}
		if got := s.ListRecords(); len(got) != 1 || got[0].Text != "original" {
			t.Errorf("ListRecords() = %+v, want original record", got)
		}
	})

	t.Run("not json", func(t *testing.T) {
		s := testutil.NewTestStore(t)
		if _, err := s.Import([]byte("<xml/>")); err == nil {
			t.Error("Import() expected error")
		}
	})

	t.Run("write failure surfaces", func(t *testing.T) {
		db := testutil.NewFaultyDatabase(testutil.NewTestDatabase(t))
		s := clip.NewStore(db, clip.NewNopLogger())
		db.FailPut(clip.KeyRecords, true)

		_, err := s.Import([]byte(`{"items":[]}`))
		if !errors.Is(err, testutil.ErrInjected) {
			t.Errorf("Import() error = %v, want ErrInjected", err)
		}
	})
}
