package freezer

import (
	"errors"
	"testing"

	"github.com/sjzar/gamefreeze/internal/model"
)

type fakeEnumerator struct {
	procs []*model.Snapshot
	err   error
}

func (f *fakeEnumerator) List() ([]*model.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*model.Snapshot, 0, len(f.procs))
	for _, p := range f.procs {
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeEnumerator) ForegroundPID() (uint32, error) { return 0, nil }

type fakeController struct {
	suspended []uint32
	resumed   []uint32
	err       error
}

func (f *fakeController) Suspend(pid uint32) error {
	if f.err != nil {
		return f.err
	}
	f.suspended = append(f.suspended, pid)
	return nil
}

func (f *fakeController) Resume(pid uint32) error {
	if f.err != nil {
		return f.err
	}
	f.resumed = append(f.resumed, pid)
	return nil
}

func TestEngineSnapshotCategorizes(t *testing.T) {
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 1, Name: "svchost.exe"},
		{PID: 2, Name: "steam.exe"},
		{PID: 3, Name: "notepad.exe"},
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	procs, err := engine.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	want := []model.Category{model.CategoryCritical, model.CategoryGaming, model.CategoryUnknown}
	for i, p := range procs {
		if p.Category != want[i] {
			t.Errorf("procs[%d].Category = %v, want %v", i, p.Category, want[i])
		}
	}
}

func TestEngineFindGaming(t *testing.T) {
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 1, Name: "explorer.exe", MemoryBytes: 150 * mb},
		{PID: 2, Name: "chrome.exe", MemoryBytes: 450 * mb},
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	gaming, err := engine.FindGaming()
	if err != nil {
		t.Fatalf("FindGaming: %v", err)
	}
	if len(gaming) != 0 {
		t.Errorf("FindGaming = %v, want empty without games", gaming)
	}

	enumerator.procs = append(enumerator.procs, &model.Snapshot{PID: 3, Name: "steam.exe", MemoryBytes: 200 * mb})
	gaming, err = engine.FindGaming()
	if err != nil {
		t.Fatalf("FindGaming: %v", err)
	}
	if len(gaming) != 1 || gaming[0].Name != "steam.exe" {
		t.Errorf("FindGaming = %v, want [steam.exe]", gaming)
	}
}

func TestEngineFindSafeToFreeze(t *testing.T) {
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 1, Name: "explorer.exe", MemoryBytes: 300 * mb},                    // Critical
		{PID: 2, Name: "steam.exe", MemoryBytes: 500 * mb},                       // Gaming
		{PID: 3, Name: "onedrive.exe", MemoryBytes: 115 * mb},                    // Background
		{PID: 4, Name: "chrome.exe", MemoryBytes: 450 * mb},                      // Productivity
		{PID: 5, Name: "editor.exe", MemoryBytes: 450 * mb, IsForeground: true},  // 前台
		{PID: 6, Name: "notepad.exe", MemoryBytes: 12 * mb},                      // 低于阈值
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	safe, err := engine.FindSafeToFreeze()
	if err != nil {
		t.Fatalf("FindSafeToFreeze: %v", err)
	}

	if len(safe) != 2 {
		t.Fatalf("FindSafeToFreeze returned %d processes, want 2", len(safe))
	}
	// 内存降序
	if safe[0].PID != 4 || safe[1].PID != 3 {
		t.Errorf("order = [%d %d], want [4 3]", safe[0].PID, safe[1].PID)
	}
}

func TestEngineFindSafeToFreezeStableOrder(t *testing.T) {
	// 内存相同的进程保持枚举顺序
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 10, Name: "alpha.bin", MemoryBytes: 200 * mb},
		{PID: 11, Name: "beta.bin", MemoryBytes: 200 * mb},
		{PID: 12, Name: "gamma.bin", MemoryBytes: 200 * mb},
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	safe, err := engine.FindSafeToFreeze()
	if err != nil {
		t.Fatalf("FindSafeToFreeze: %v", err)
	}
	if len(safe) != 3 {
		t.Fatalf("len = %d, want 3", len(safe))
	}
	for i, want := range []uint32{10, 11, 12} {
		if safe[i].PID != want {
			t.Errorf("safe[%d].PID = %d, want %d", i, safe[i].PID, want)
		}
	}
}

func TestEngineFindProtected(t *testing.T) {
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 1, Name: "explorer.exe", MemoryBytes: 300 * mb},
		{PID: 2, Name: "steam.exe", MemoryBytes: 500 * mb},
		{PID: 3, Name: "chrome.exe", MemoryBytes: 450 * mb},
		{PID: 4, Name: "notepad.exe", MemoryBytes: 12 * mb},
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	procs, reasons, err := engine.FindProtected()
	if err != nil {
		t.Fatalf("FindProtected: %v", err)
	}

	// chrome 满足冻结条件，不在保护列表中
	if len(procs) != 3 || len(reasons) != 3 {
		t.Fatalf("FindProtected returned %d/%d entries, want 3", len(procs), len(reasons))
	}
	wantReasons := []string{"critical process", "gaming process", "below memory threshold"}
	for i, want := range wantReasons {
		if reasons[i] != want {
			t.Errorf("reasons[%d] = %q, want %q", i, reasons[i], want)
		}
	}
}

func TestEngineSetConfig(t *testing.T) {
	enumerator := &fakeEnumerator{procs: []*model.Snapshot{
		{PID: 1, Name: "onedrive.exe", MemoryBytes: 115 * mb},
	}}
	engine := NewEngine(enumerator, &fakeController{}, DefaultConfig())

	safe, _ := engine.FindSafeToFreeze()
	if len(safe) != 1 {
		t.Fatalf("len = %d, want 1 at default threshold", len(safe))
	}

	engine.SetConfig(Config{ThresholdBytes: 200 * mb})
	safe, _ = engine.FindSafeToFreeze()
	if len(safe) != 0 {
		t.Errorf("len = %d, want 0 after raising threshold", len(safe))
	}
}

func TestEngineEnumerationError(t *testing.T) {
	wantErr := errors.New("enumeration broken")
	engine := NewEngine(&fakeEnumerator{err: wantErr}, &fakeController{}, DefaultConfig())

	if _, err := engine.FindGaming(); !errors.Is(err, wantErr) {
		t.Errorf("FindGaming err = %v, want %v", err, wantErr)
	}
	if _, err := engine.FindSafeToFreeze(); !errors.Is(err, wantErr) {
		t.Errorf("FindSafeToFreeze err = %v, want %v", err, wantErr)
	}
}

func TestEngineFreezeResumeDelegation(t *testing.T) {
	controller := &fakeController{}
	engine := NewEngine(&fakeEnumerator{}, controller, DefaultConfig())

	if err := engine.Freeze(42); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if err := engine.Resume(42); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(controller.suspended) != 1 || controller.suspended[0] != 42 {
		t.Errorf("suspended = %v, want [42]", controller.suspended)
	}
	if len(controller.resumed) != 1 || controller.resumed[0] != 42 {
		t.Errorf("resumed = %v, want [42]", controller.resumed)
	}
}
