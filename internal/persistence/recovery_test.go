package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/model"
)

type fakeResumer struct {
	resumed []uint32
	fail    map[uint32]error
}

func (f *fakeResumer) Resume(pid uint32) error {
	if err, ok := f.fail[pid]; ok {
		return err
	}
	f.resumed = append(f.resumed, pid)
	return nil
}

func TestFilterStale(t *testing.T) {
	now := time.Now()
	records := []model.FrozenRecord{
		{PID: 1, Name: "fresh.exe", FrozenAt: now.Add(-time.Minute).Unix()},
		{PID: 2, Name: "old.exe", FrozenAt: now.Add(-2 * time.Hour).Unix()},
		{PID: 3, Name: "edge.exe", FrozenAt: now.Add(-59 * time.Minute).Unix()},
	}

	valid, stale := FilterStale(records, now)
	if stale != 1 {
		t.Errorf("stale = %d, want 1", stale)
	}
	if len(valid) != 2 || valid[0].PID != 1 || valid[1].PID != 3 {
		t.Errorf("valid = %+v, want pids 1 and 3", valid)
	}
}

func TestRecoverResumesAndDeletes(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "frozen_state.json"))
	now := time.Now().Unix()
	store.Save([]model.FrozenRecord{
		{PID: 200, Name: "chrome.exe", FrozenAt: now},
		{PID: 300, Name: "onedrive.exe", FrozenAt: now},
	})

	resumer := &fakeResumer{}
	report := Recover(store, resumer)

	if report.Resumed != 2 || report.Skipped != 0 || report.Stale != 0 {
		t.Errorf("report = %+v, want 2 resumed", report)
	}
	if len(resumer.resumed) != 2 {
		t.Errorf("resumed = %v, want 2 pids", resumer.resumed)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("state file should be deleted after recovery")
	}
}

func TestRecoverSkipsStaleRecords(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "frozen_state.json"))
	store.Save([]model.FrozenRecord{
		{PID: 200, Name: "chrome.exe", FrozenAt: time.Now().Unix()},
		{PID: 300, Name: "ancient.exe", FrozenAt: time.Now().Add(-25 * time.Hour).Unix()},
	})

	resumer := &fakeResumer{}
	report := Recover(store, resumer)

	if report.Resumed != 1 || report.Stale != 1 {
		t.Errorf("report = %+v, want 1 resumed 1 stale", report)
	}
	// 过期记录不触碰，PID 可能已被系统复用
	if len(resumer.resumed) != 1 || resumer.resumed[0] != 200 {
		t.Errorf("resumed = %v, want [200]", resumer.resumed)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("state file should be deleted even with stale records")
	}
}

func TestRecoverToleratesResumeFailure(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "frozen_state.json"))
	now := time.Now().Unix()
	store.Save([]model.FrozenRecord{
		{PID: 200, Name: "gone.exe", FrozenAt: now},
		{PID: 300, Name: "alive.exe", FrozenAt: now},
	})

	resumer := &fakeResumer{fail: map[uint32]error{200: errors.ProcessNotFound(200)}}
	report := Recover(store, resumer)

	// 个体失败不中断恢复流程
	if report.Resumed != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 1 resumed 1 skipped", report)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("state file should be deleted despite failures")
	}
}

func TestRecoverEmptyStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "frozen_state.json"))

	resumer := &fakeResumer{}
	report := Recover(store, resumer)

	if report.Resumed != 0 || report.Skipped != 0 || report.Stale != 0 {
		t.Errorf("report = %+v, want all zero for missing store", report)
	}
	if len(resumer.resumed) != 0 {
		t.Errorf("resumed = %v, want none", resumer.resumed)
	}
}
