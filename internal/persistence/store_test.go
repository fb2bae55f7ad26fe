package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sjzar/gamefreeze/internal/model"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "frozen_state.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := tempStore(t)

	records := []model.FrozenRecord{
		{PID: 200, Name: "chrome.exe", FrozenAt: time.Now().Unix()},
		{PID: 300, Name: "onedrive.exe", FrozenAt: time.Now().Unix()},
	}
	if err := store.Save(records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Load returned %d records, want 2", len(loaded))
	}
	if loaded[0] != records[0] || loaded[1] != records[1] {
		t.Errorf("Load = %+v, want %+v", loaded, records)
	}
}

func TestFileStoreSaveReplacesWholeSet(t *testing.T) {
	store := tempStore(t)

	store.Save([]model.FrozenRecord{
		{PID: 1, Name: "a.exe", FrozenAt: time.Now().Unix()},
		{PID: 2, Name: "b.exe", FrozenAt: time.Now().Unix()},
	})
	store.Save([]model.FrozenRecord{
		{PID: 3, Name: "c.exe", FrozenAt: time.Now().Unix()},
	})

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].PID != 3 {
		t.Errorf("Load = %+v, want single record for pid 3", loaded)
	}
}

func TestFileStoreSaveEmpty(t *testing.T) {
	store := tempStore(t)

	store.Save([]model.FrozenRecord{{PID: 1, Name: "a.exe", FrozenAt: time.Now().Unix()}})
	if err := store.Save(nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load = %+v, want empty set", loaded)
	}

	// 空集合依然是有效文件，而不是删除
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("state file should exist after saving empty set: %v", err)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := tempStore(t)

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load = %+v, want nil for missing file", loaded)
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	store := tempStore(t)

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load on corrupt file must not fail: %v", err)
	}
	if loaded != nil {
		t.Errorf("Load = %+v, want nil for corrupt file", loaded)
	}
}

func TestFileStoreSaveLeavesNoTempFile(t *testing.T) {
	store := tempStore(t)

	if err := store.Save([]model.FrozenRecord{{PID: 1, Name: "a.exe", FrozenAt: time.Now().Unix()}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away after Save")
	}
}

func TestFileStoreDelete(t *testing.T) {
	store := tempStore(t)

	store.Save([]model.FrozenRecord{{PID: 1, Name: "a.exe", FrozenAt: time.Now().Unix()}})
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("state file should be gone after Delete")
	}

	// 重复删除为空操作
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}
