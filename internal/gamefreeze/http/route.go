package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sjzar/gamefreeze/internal/errors"
	"github.com/sjzar/gamefreeze/internal/model"
)

func (s *Service) initRouter() {
	s.router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/processes", s.handleProcesses)
		api.GET("/candidates", s.handleCandidates)
		api.GET("/gaming", s.handleGaming)
		api.GET("/history", s.handleHistory)
		api.POST("/enable", s.handleEnable)
		api.POST("/disable", s.handleDisable)
		api.POST("/freeze/:pid", s.handleFreeze)
		api.POST("/resume/:pid", s.handleResume)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// processItem 进程的对外展示形式，类别转为名称输出
type processItem struct {
	PID          uint32 `json:"pid"`
	Name         string `json:"name"`
	MemoryBytes  uint64 `json:"memory_bytes"`
	MemoryMB     uint64 `json:"memory_mb"`
	Category     string `json:"category"`
	IsForeground bool   `json:"is_foreground"`
}

func toItems(procs []*model.Snapshot) []processItem {
	items := make([]processItem, 0, len(procs))
	for _, p := range procs {
		items = append(items, processItem{
			PID:          p.PID,
			Name:         p.Name,
			MemoryBytes:  p.MemoryBytes,
			MemoryMB:     p.MemoryMB(),
			Category:     p.CategoryName(),
			IsForeground: p.IsForeground,
		})
	}
	return items
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetStatus())
}

func (s *Service) handleProcesses(c *gin.Context) {
	procs, err := s.engine.Snapshot()
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toItems(procs)})
}

func (s *Service) handleCandidates(c *gin.Context) {
	procs, err := s.engine.FindSafeToFreeze()
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toItems(procs)})
}

func (s *Service) handleGaming(c *gin.Context) {
	procs, err := s.engine.FindGaming()
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toItems(procs)})
}

func (s *Service) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	events, err := s.history.List(limit)
	if err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}

func (s *Service) handleEnable(c *gin.Context) {
	if err := s.monitor.SetEnabled(true); err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, s.monitor.GetStatus())
}

func (s *Service) handleDisable(c *gin.Context) {
	if err := s.monitor.SetEnabled(false); err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, s.monitor.GetStatus())
}

func (s *Service) handleFreeze(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	if err := s.monitor.FreezePID(pid); err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, s.monitor.GetStatus())
}

func (s *Service) handleResume(c *gin.Context) {
	pid, err := parsePID(c.Param("pid"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	if err := s.monitor.ResumePID(pid); err != nil {
		errors.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, s.monitor.GetStatus())
}

func parsePID(raw string) (uint32, error) {
	pid, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || pid == 0 {
		return 0, errors.ErrInvalidArg("pid")
	}
	return uint32(pid), nil
}
