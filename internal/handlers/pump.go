package handlers

import (
	"errors"
	"net/http"

	"pumpbank"
	"pumpbank/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusPaused       = "paused"
	statusResumed      = "resumed"
	statusCycleTimeSet = "cycle_time_set"
	statusIntervalSet  = "interval_set"
	statusCheckpointed = "checkpointed"
	statusReset        = "reset"

	errGetState        = "failed to load state"
	errGetProfile      = "failed to load profile"
	errSetCycleTime    = "failed to set cycle time"
	errSetInterval     = "failed to set interval"
	errCheckpoint      = "failed to checkpoint profile"
	errResetProfile    = "failed to reset profile"
	errInvalidBodyPref = "invalid body: "

	noteRestartRequired = "restart required to apply"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// Request DTO for duration-valued settings.
type durationRequest struct {
	Ms uint64 `json:"ms" binding:"required"`
}

// SetDurationRequest is an exported model for Swagger docs of the
// cycle-time and interval payloads.
type SetDurationRequest struct {
	// Duration in milliseconds. Accepted range: 40-65535.
	Ms uint64 `json:"ms" example:"1200"`
}

// bindDurationOrBadRequest binds the {"ms":N} payload and writes a 400 on failure.
func (h *Handler) bindDurationOrBadRequest(c *gin.Context) (uint64, bool) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return 0, false
	}
	return req.Ms, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusOK,
		"version": pumpbank.Version,
	})
}

// @Summary      Get bank state
// @Description  Live counters, timing, engine status and the last persisted profile
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/pumps/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "pump_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get persisted profile
// @Description  The stored record; defaults are substituted when nothing has been persisted yet
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "profile, found"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/pumps/profile [get]
// @Security     BearerAuth
func (h *Handler) getProfile(c *gin.Context) {
	ctx := c.Request.Context()
	rec, found, err := h.services.Pump.Profile(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetProfile, "pump_get_profile_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": rec, "found": found})
}

// @Summary      Set cycle time
// @Description  Installs a new cycle time, clears the counters and persists the record
// @Tags         pumps
// @Accept       json
// @Produce      json
// @Param        body  body   SetDurationRequest  true  "Duration payload"
// @Success      200   {object}  map[string]interface{}  "status, change, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/pumps/cycle-time [post]
// @Security     BearerAuth
func (h *Handler) setCycleTime(c *gin.Context) {
	ms, ok := h.bindDurationOrBadRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	chg, err := h.services.Pump.SetCycleTime(ctx, ms)
	if err != nil {
		var oor *service.OutOfRangeError
		if errors.As(err, &oor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSetCycleTime, "pump_set_cycle_time_failed", err, "ms", ms)
		return
	}
	h.respondWithStatusAndState(c, statusCycleTimeSet, gin.H{"change": chg})
}

// @Summary      Set inter-cycle interval
// @Description  Runtime only; the interval is never persisted
// @Tags         pumps
// @Accept       json
// @Produce      json
// @Param        body  body   SetDurationRequest  true  "Duration payload"
// @Success      200   {object}  map[string]interface{}  "status, change, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/pumps/interval [post]
// @Security     BearerAuth
func (h *Handler) setInterval(c *gin.Context) {
	ms, ok := h.bindDurationOrBadRequest(c)
	if !ok {
		return
	}
	chg, err := h.services.Pump.SetInterval(ms)
	if err != nil {
		var oor *service.OutOfRangeError
		if errors.As(err, &oor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSetInterval, "pump_set_interval_failed", err, "ms", ms)
		return
	}
	h.respondWithStatusAndState(c, statusIntervalSet, gin.H{"change": chg})
}

// @Summary      Checkpoint counters
// @Description  Persists the live counters and cycle time as one record
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, profile, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/pumps/checkpoint [post]
// @Security     BearerAuth
func (h *Handler) checkpoint(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.services.Pump.Checkpoint(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errCheckpoint, "pump_checkpoint_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusCheckpointed, gin.H{"profile": rec})
}

// @Summary      Reset persisted profile
// @Description  Persists variant defaults; the running bank keeps its values until restart
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, profile, note, state"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/pumps/reset [post]
// @Security     BearerAuth
func (h *Handler) resetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.services.Pump.Reset(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResetProfile, "pump_reset_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusReset, gin.H{"profile": rec, "note": noteRestartRequired})
}

// @Summary      Pause actuation
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, changed, state"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/pumps/pause [post]
// @Security     BearerAuth
func (h *Handler) pause(c *gin.Context) {
	changed := h.services.Pump.Pause(c.Request.Context())
	h.respondWithStatusAndState(c, statusPaused, gin.H{"changed": changed})
}

// @Summary      Resume actuation
// @Tags         pumps
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, changed, state"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/pumps/resume [post]
// @Security     BearerAuth
func (h *Handler) resume(c *gin.Context) {
	changed := h.services.Pump.Resume(c.Request.Context())
	h.respondWithStatusAndState(c, statusResumed, gin.H{"changed": changed})
}
