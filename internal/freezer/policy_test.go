package freezer

import (
	"testing"

	"github.com/sjzar/gamefreeze/internal/model"
)

const mb = 1024 * 1024

func TestEligibleForeground(t *testing.T) {
	conf := DefaultConfig()

	p := &model.Snapshot{
		PID:          1000,
		Name:         "chrome.exe",
		MemoryBytes:  500 * mb,
		IsForeground: true,
		Category:     model.CategoryProductivity,
	}
	if Eligible(p, conf) {
		t.Error("foreground process must not be eligible")
	}

	p.IsForeground = false
	if !Eligible(p, conf) {
		t.Error("background process above threshold should be eligible")
	}
}

func TestEligibleProtectedCategories(t *testing.T) {
	conf := DefaultConfig()

	cases := []struct {
		category model.Category
		want     bool
	}{
		{model.CategoryCritical, false},
		{model.CategoryGaming, false},
		{model.CategoryCommunication, true}, // 默认不保护通讯应用
		{model.CategoryBackground, true},
		{model.CategoryProductivity, true},
		{model.CategoryUnknown, true},
	}

	for _, tc := range cases {
		p := &model.Snapshot{
			PID:         1000,
			Name:        "test.bin",
			MemoryBytes: 500 * mb,
			Category:    tc.category,
		}
		if got := Eligible(p, conf); got != tc.want {
			t.Errorf("Eligible(category=%v) = %v, want %v", tc.category, got, tc.want)
		}
	}
}

func TestEligibleKeepCommunication(t *testing.T) {
	conf := DefaultConfig()
	conf.KeepCommunication = true

	p := &model.Snapshot{
		PID:         1000,
		Name:        "discord.exe",
		MemoryBytes: 500 * mb,
		Category:    model.CategoryCommunication,
	}
	if Eligible(p, conf) {
		t.Error("communication process must be kept when protection is on")
	}
}

func TestProtectionReason(t *testing.T) {
	conf := DefaultConfig()
	conf.KeepCommunication = true

	cases := []struct {
		name string
		proc *model.Snapshot
		want string
	}{
		{"foreground", &model.Snapshot{MemoryBytes: 500 * mb, IsForeground: true, Category: model.CategoryProductivity}, "foreground"},
		{"critical", &model.Snapshot{MemoryBytes: 500 * mb, Category: model.CategoryCritical}, "critical process"},
		{"gaming", &model.Snapshot{MemoryBytes: 500 * mb, Category: model.CategoryGaming}, "gaming process"},
		{"communication", &model.Snapshot{MemoryBytes: 500 * mb, Category: model.CategoryCommunication}, "communication protected"},
		{"below threshold", &model.Snapshot{MemoryBytes: 50 * mb, Category: model.CategoryBackground}, "below memory threshold"},
		{"eligible", &model.Snapshot{MemoryBytes: 500 * mb, Category: model.CategoryBackground}, ""},
	}

	for _, tc := range cases {
		if got := ProtectionReason(tc.proc, conf); got != tc.want {
			t.Errorf("ProtectionReason(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}

	// 前台优先于类别规则
	p := &model.Snapshot{MemoryBytes: 500 * mb, IsForeground: true, Category: model.CategoryCritical}
	if got := ProtectionReason(p, conf); got != "foreground" {
		t.Errorf("ProtectionReason(foreground critical) = %q, want foreground", got)
	}
}

func TestEligibleThreshold(t *testing.T) {
	conf := DefaultConfig()

	cases := []struct {
		memory uint64
		want   bool
	}{
		{0, false},
		{99 * mb, false},
		{100 * mb, true}, // 阈值为闭区间下界
		{450 * mb, true},
	}

	for _, tc := range cases {
		p := &model.Snapshot{
			PID:         1000,
			Name:        "chrome.exe",
			MemoryBytes: tc.memory,
			Category:    model.CategoryProductivity,
		}
		if got := Eligible(p, conf); got != tc.want {
			t.Errorf("Eligible(memory=%d) = %v, want %v", tc.memory, got, tc.want)
		}
	}
}
