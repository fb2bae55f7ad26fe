package monitor

import (
	"sync"
	"testing"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/freezer"
	"github.com/sjzar/gamefreeze/internal/gamefreeze/conf"
	"github.com/sjzar/gamefreeze/internal/model"
)

const mb = 1024 * 1024

type fakeEnumerator struct {
	mu    sync.Mutex
	procs []*model.Snapshot
	err   error
}

func (f *fakeEnumerator) List() ([]*model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeEnumerator) setProcs(procs []*model.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = procs
	f.err = nil
}

func (f *fakeEnumerator) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeController struct {
	mu          sync.Mutex
	suspended   []uint32
	resumed     []uint32
	failSuspend map[uint32]error
	failResume  map[uint32]error
}

func (f *fakeController) Suspend(pid uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failSuspend[pid]; ok {
		return err
	}
	f.suspended = append(f.suspended, pid)
	return nil
}

func (f *fakeController) Resume(pid uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failResume[pid]; ok {
		return err
	}
	f.resumed = append(f.resumed, pid)
	return nil
}

func (f *fakeController) suspendedPIDs() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.suspended...)
}

func (f *fakeController) resumedPIDs() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.resumed...)
}

type memStore struct {
	mu      sync.Mutex
	records []model.FrozenRecord
	saves   int
	deletes int
}

func (m *memStore) Save(records []model.FrozenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]model.FrozenRecord(nil), records...)
	m.saves++
	return nil
}

func (m *memStore) Load() ([]model.FrozenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.FrozenRecord(nil), m.records...), nil
}

func (m *memStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.deletes++
	return nil
}

func (m *memStore) stored() []model.FrozenRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.FrozenRecord(nil), m.records...)
}

func newTestService(t *testing.T) (*Service, *fakeEnumerator, *fakeController, *memStore) {
	t.Helper()

	confService, err := conf.NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	enumerator := &fakeEnumerator{}
	controller := &fakeController{
		failSuspend: make(map[uint32]error),
		failResume:  make(map[uint32]error),
	}
	store := &memStore{}
	engine := freezer.NewEngine(enumerator, controller, confService.GetConfig().FreezerConfig())
	state := freezer.NewState()

	return NewService(confService, engine, state, store, nil), enumerator, controller, store
}

func gameRunning() []*model.Snapshot {
	return []*model.Snapshot{
		{PID: 100, Name: "mygame.exe", MemoryBytes: 2048 * mb},
		{PID: 200, Name: "chrome.exe", MemoryBytes: 450 * mb},
		{PID: 300, Name: "onedrive.exe", MemoryBytes: 115 * mb},
		{PID: 400, Name: "notepad.exe", MemoryBytes: 12 * mb},
	}
}

func gameExited() []*model.Snapshot {
	return []*model.Snapshot{
		{PID: 200, Name: "chrome.exe", MemoryBytes: 450 * mb},
		{PID: 300, Name: "onedrive.exe", MemoryBytes: 115 * mb},
	}
}

func TestGameStartTriggersFreeze(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if !svc.state.GameDetected() {
		t.Error("expected GameActive after game start")
	}

	suspended := controller.suspendedPIDs()
	if len(suspended) != 2 {
		t.Fatalf("suspended = %v, want pids 200 and 300", suspended)
	}
	// 内存降序：chrome 先于 onedrive
	if suspended[0] != 200 || suspended[1] != 300 {
		t.Errorf("suspend order = %v, want [200 300]", suspended)
	}

	records := store.stored()
	if len(records) != 2 {
		t.Fatalf("stored records = %d, want 2", len(records))
	}
	if records[0].PID != 200 || records[0].Name != "chrome.exe" {
		t.Errorf("record[0] = %+v, want pid 200 chrome.exe", records[0])
	}

	if count := svc.state.FrozenCount(); count != 2 {
		t.Errorf("FrozenCount = %d, want 2", count)
	}
}

func TestSteadyStateDoesNothing(t *testing.T) {
	svc, enumerator, controller, _ := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	before := len(controller.suspendedPIDs())

	// 游戏持续运行，后续周期不应重复冻结
	for i := 0; i < 3; i++ {
		if err := svc.RunCycle(); err != nil {
			t.Fatalf("RunCycle: %v", err)
		}
	}

	if after := len(controller.suspendedPIDs()); after != before {
		t.Errorf("suspend count changed %d -> %d in steady state", before, after)
	}
}

func TestGameExitTriggersResume(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	enumerator.setProcs(gameExited())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if svc.state.GameDetected() {
		t.Error("expected Idle after game exit")
	}

	resumed := controller.resumedPIDs()
	if len(resumed) != 2 {
		t.Fatalf("resumed = %v, want pids 200 and 300", resumed)
	}

	if records := store.stored(); len(records) != 0 {
		t.Errorf("stored records = %v, want empty after resume", records)
	}
	if count := svc.state.FrozenCount(); count != 0 {
		t.Errorf("FrozenCount = %d, want 0", count)
	}
}

func TestDisabledSuppressesFreezeUntilReenabled(t *testing.T) {
	svc, enumerator, controller, _ := newTestService(t)

	if err := svc.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// 停用时检测照常，冻结被抑制
	if !svc.state.GameDetected() {
		t.Error("detection should continue while disabled")
	}
	if suspended := controller.suspendedPIDs(); len(suspended) != 0 {
		t.Fatalf("suspended = %v, want none while disabled", suspended)
	}

	// 游戏运行期间重新启用，下个周期应补执行冻结，无需重新触发边沿
	if err := svc.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if suspended := controller.suspendedPIDs(); len(suspended) != 2 {
		t.Errorf("suspended = %v, want 2 after re-enable", suspended)
	}
}

func TestDisableKeepsFrozenProcesses(t *testing.T) {
	svc, enumerator, controller, _ := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if err := svc.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// 停用不恢复已冻结的进程，等游戏退出再恢复
	if resumed := controller.resumedPIDs(); len(resumed) != 0 {
		t.Errorf("resumed = %v, want none on disable", resumed)
	}
	if count := svc.state.FrozenCount(); count != 2 {
		t.Errorf("FrozenCount = %d, want 2", count)
	}

	enumerator.setProcs(gameExited())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if resumed := controller.resumedPIDs(); len(resumed) != 2 {
		t.Errorf("resumed = %v, want 2 after game exit", resumed)
	}
}

func TestFreezeFailureDoesNotAbortSequence(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	controller.failSuspend[200] = errors.ProcessAccessDenied(200, nil)
	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// chrome 冻结失败，onedrive 仍应被冻结且落盘
	if suspended := controller.suspendedPIDs(); len(suspended) != 1 || suspended[0] != 300 {
		t.Errorf("suspended = %v, want [300]", suspended)
	}
	records := store.stored()
	if len(records) != 1 || records[0].PID != 300 {
		t.Errorf("stored = %+v, want single record for pid 300", records)
	}
}

func TestManualFreezeSurvivesBurst(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	enumerator.setProcs(append(gameExited(), &model.Snapshot{PID: 400, Name: "notepad.exe", MemoryBytes: 12 * mb}))

	// 手动冻结低于阈值的进程，自动冻结不会重新选中它
	if err := svc.FreezePID(400); err != nil {
		t.Fatalf("FreezePID: %v", err)
	}

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// 冻结潮落盘完整跟踪集合，手动冻结的记录不能被覆盖丢失
	records := store.stored()
	if len(records) != 3 {
		t.Fatalf("stored records = %+v, want pids 200, 300 and 400", records)
	}
	for i, want := range []uint32{200, 300, 400} {
		if records[i].PID != want {
			t.Errorf("records[%d].PID = %d, want %d", i, records[i].PID, want)
		}
	}
	if count := svc.state.FrozenCount(); count != 3 {
		t.Errorf("FrozenCount = %d, want 3", count)
	}

	// 游戏退出后三个进程全部恢复，记录清空
	enumerator.setProcs(gameExited())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if resumed := controller.resumedPIDs(); len(resumed) != 3 {
		t.Errorf("resumed = %v, want 3 pids", resumed)
	}
	if records := store.stored(); len(records) != 0 {
		t.Errorf("stored = %+v, want empty after resume", records)
	}
}

func TestResumeFailureKeepsRecord(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	controller.failResume[300] = errors.ResumeFailed(300, nil)
	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	enumerator.setProcs(gameExited())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// 恢复失败的进程保留在跟踪集合与落盘记录中，不能悄悄消失
	if resumed := controller.resumedPIDs(); len(resumed) != 1 || resumed[0] != 200 {
		t.Errorf("resumed = %v, want [200]", resumed)
	}
	records := store.stored()
	if len(records) != 1 || records[0].PID != 300 {
		t.Errorf("stored = %+v, want single record for pid 300", records)
	}
	if count := svc.state.FrozenCount(); count != 1 {
		t.Errorf("FrozenCount = %d, want 1", count)
	}

	// 故障消除后下一次恢复成功并清空记录
	delete(controller.failResume, 300)
	if err := svc.ResumePID(300); err != nil {
		t.Fatalf("ResumePID: %v", err)
	}
	if records := store.stored(); len(records) != 0 {
		t.Errorf("stored = %+v, want empty after retry", records)
	}
}

func TestEnumerationFailureSkipsCycle(t *testing.T) {
	svc, enumerator, controller, _ := newTestService(t)

	enumerator.setErr(errors.EnumerateFailed(nil))
	if err := svc.RunCycle(); err == nil {
		t.Fatal("expected error when enumeration fails")
	}

	if svc.state.GameDetected() {
		t.Error("state must not change on failed cycle")
	}
	if suspended := controller.suspendedPIDs(); len(suspended) != 0 {
		t.Errorf("suspended = %v, want none", suspended)
	}

	// 下个周期恢复正常
	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if !svc.state.GameDetected() {
		t.Error("expected GameActive once enumeration recovers")
	}
}

func TestStopResumesEverything(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// 退出协议：游戏仍在运行也要恢复全部进程并清空记录
	if resumed := controller.resumedPIDs(); len(resumed) != 2 {
		t.Errorf("resumed = %v, want 2 on shutdown", resumed)
	}
	if records := store.stored(); len(records) != 0 {
		t.Errorf("stored = %v, want empty after shutdown", records)
	}
	if svc.GetStatus().Running {
		t.Error("status should report not running after Stop")
	}
}

func TestRecoveryOnStart(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	// 模拟上次异常退出留下的记录
	store.Save([]model.FrozenRecord{
		model.NewFrozenRecord(200, "chrome.exe"),
		model.NewFrozenRecord(300, "onedrive.exe"),
	})
	store.saves = 0

	enumerator.setProcs(gameExited())
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop()

	if resumed := controller.resumedPIDs(); len(resumed) != 2 {
		t.Errorf("resumed = %v, want 2 from recovery", resumed)
	}
	store.mu.Lock()
	deletes := store.deletes
	store.mu.Unlock()
	if deletes != 1 {
		t.Errorf("store deletes = %d, want 1", deletes)
	}
}

func TestManualFreezeResume(t *testing.T) {
	svc, enumerator, controller, store := newTestService(t)

	enumerator.setProcs([]*model.Snapshot{
		{PID: 1, Name: "svchost.exe", MemoryBytes: 80 * mb},
		{PID: 100, Name: "mygame.exe", MemoryBytes: 2048 * mb},
		{PID: 200, Name: "chrome.exe", MemoryBytes: 450 * mb},
	})

	// 关键进程与游戏进程拒绝手动冻结
	if err := svc.FreezePID(1); err == nil {
		t.Error("expected refusal for critical process")
	}
	if err := svc.FreezePID(100); err == nil {
		t.Error("expected refusal for gaming process")
	}
	if err := svc.FreezePID(999); err == nil {
		t.Error("expected error for unknown pid")
	}

	if err := svc.FreezePID(200); err != nil {
		t.Fatalf("FreezePID: %v", err)
	}
	if suspended := controller.suspendedPIDs(); len(suspended) != 1 || suspended[0] != 200 {
		t.Errorf("suspended = %v, want [200]", suspended)
	}
	if records := store.stored(); len(records) != 1 || records[0].PID != 200 {
		t.Errorf("stored = %+v, want single record for pid 200", records)
	}

	if err := svc.ResumePID(200); err != nil {
		t.Fatalf("ResumePID: %v", err)
	}
	if resumed := controller.resumedPIDs(); len(resumed) != 1 || resumed[0] != 200 {
		t.Errorf("resumed = %v, want [200]", resumed)
	}
	if records := store.stored(); len(records) != 0 {
		t.Errorf("stored = %+v, want empty", records)
	}
	if count := svc.state.FrozenCount(); count != 0 {
		t.Errorf("FrozenCount = %d, want 0", count)
	}
}

func TestGetStatus(t *testing.T) {
	svc, enumerator, _, _ := newTestService(t)

	enumerator.setProcs(gameRunning())
	if err := svc.RunCycle(); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	status := svc.GetStatus()
	if !status.GameActive {
		t.Error("status.GameActive = false, want true")
	}
	if status.FrozenCount != 2 {
		t.Errorf("status.FrozenCount = %d, want 2", status.FrozenCount)
	}
	if want := uint64(565 * mb); status.FreedBytes != want {
		t.Errorf("status.FreedBytes = %d, want %d", status.FreedBytes, want)
	}
	if len(status.FrozenPIDs) != 2 || status.FrozenPIDs[0] != 200 || status.FrozenPIDs[1] != 300 {
		t.Errorf("status.FrozenPIDs = %v, want [200 300]", status.FrozenPIDs)
	}
}
