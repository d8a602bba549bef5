package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/watcher"
)

// StatsProvider exposes the watcher's runtime counters to the HTTP layer.
type StatsProvider interface {
	State() watcher.State
	Stats() watcher.Stats
}

var _ StatsProvider = (*watcher.Watcher)(nil)

type Handler struct {
	watcher    StatsProvider
	catalog    *club.Catalog
	sourceName string
	version    string
	startedAt  time.Time
}

func NewHandler(w StatsProvider, catalog *club.Catalog, sourceName, version string) *Handler {
	return &Handler{
		watcher:    w,
		catalog:    catalog,
		sourceName: sourceName,
		version:    version,
		startedAt:  time.Now().UTC(),
	}
}

func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "transferwatch",
		"version": h.version,
		"source":  h.sourceName,
		"clubs":   h.catalog.Len(),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	state := h.watcher.State()

	status := http.StatusOK
	if state == watcher.StateDisconnected || state == watcher.StateUninitialized {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"state":     state.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.watcher.Stats()

	c.JSON(http.StatusOK, gin.H{
		"version": h.version,
		"source":  h.sourceName,
		"watcher": stats,
	})
}
