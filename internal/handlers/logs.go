package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pumpbank/internal/service"

	"github.com/gin-gonic/gin"
)

// Accepted time layouts for the logs range query, tried in order.
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-08-01)
// @Param        to    query   string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). Date-only treated as end of day."  example(2026-08-31)
// @Param        type  query   string  false  "Event type"  Enums(STARTUP,SHUTDOWN,FAULT,RECOVERY,CHECKPOINT,TIME_CHANGE,PAUSE,RESUME,RESET)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	eventType := strings.ToUpper(strings.TrimSpace(c.Query("type")))
	events, err := h.services.EventLog.List(c.Request.Context(), service.LogFilter{
		From: from,
		To:   to,
		Type: eventType,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", from, "to", to, "type", eventType)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// queryTime parses an optional range bound from the query string. When
// endOfDay is set a bare date covers its whole day. A malformed value
// writes the 400 response and reports !ok.
func (h *Handler) queryTime(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	qs := c.Query(name)
	if qs == "" {
		return time.Time{}, true
	}
	for _, layout := range queryTimeLayouts {
		t, err := time.Parse(layout, qs)
		if err != nil {
			continue
		}
		t = t.UTC()
		if endOfDay && !strings.ContainsAny(qs, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": fmt.Sprintf("invalid '%s' time; use RFC3339 or YYYY-MM-DD", name),
	})
	return time.Time{}, false
}
