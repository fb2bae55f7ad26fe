package persistence

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/gamefreeze/internal/model"
)

// MaxRecordAge 恢复时可信任的记录最大年龄
// 操作系统会复用 PID，过老的记录可能指向一个完全无关的新进程
const MaxRecordAge = time.Hour

// Resumer 恢复协议需要的最小控制能力
type Resumer interface {
	Resume(pid uint32) error
}

// Report 一次恢复的结果统计
type Report struct {
	Resumed int
	Skipped int
	Stale   int
}

// FilterStale 过滤掉超过 MaxRecordAge 的记录
// 按约定该过滤发生在恢复阶段而不是 Load 内部，Load 始终返回完整集合
func FilterStale(records []model.FrozenRecord, now time.Time) (valid []model.FrozenRecord, stale int) {
	for _, r := range records {
		if r.Age(now) > MaxRecordAge {
			stale++
			continue
		}
		valid = append(valid, r)
	}
	return valid, stale
}

// Recover 执行崩溃恢复协议：加载记录、恢复未过期的进程、删除存储
// 单个进程恢复失败（通常是进程已退出）只计入 Skipped，恢复流程总是完整执行，
// 结束后无论个体成败都会删除存储文件
func Recover(store Store, resumer Resumer) Report {
	var report Report

	records, err := store.Load()
	if err != nil || len(records) == 0 {
		return report
	}

	valid, stale := FilterStale(records, time.Now())
	report.Stale = stale
	if stale > 0 {
		log.Warn().Int("count", stale).Msg("跳过过期的冻结记录，PID 可能已被复用")
	}

	if len(valid) > 0 {
		log.Info().Int("count", len(valid)).Msg("检测到上次异常退出，恢复被冻结的进程")
	}

	for _, r := range valid {
		if err := resumer.Resume(r.PID); err != nil {
			log.Warn().Err(err).Uint32("pid", r.PID).Str("name", r.Name).Msg("恢复失败，进程可能已退出")
			report.Skipped++
			continue
		}
		log.Info().Uint32("pid", r.PID).Str("name", r.Name).Msg("已恢复进程")
		report.Resumed++
	}

	if err := store.Delete(); err != nil {
		log.Warn().Err(err).Msg("删除状态文件失败")
	}

	return report
}
