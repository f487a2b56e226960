package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/lysyi3m/obs-overlay/app/countdown"
	"github.com/lysyi3m/obs-overlay/app/overlay"
	"github.com/lysyi3m/obs-overlay/app/session"
	"github.com/lysyi3m/obs-overlay/app/settings"
)

func NewHandler(hub *session.Hub, settingsService SettingsInterface, presets PresetStoreInterface,
	clock clockwork.Clock, countdownFallback, webDir, version string) *Handler {
	return &Handler{
		hub:               hub,
		settings:          settingsService,
		presets:           presets,
		clock:             clock,
		countdownFallback: countdownFallback,
		webDir:            webDir,
		version:           version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": h.clock.Now().In(time.Local).Format(time.RFC3339),
		"sessions":  h.hub.Count(),
		"presets":   h.presets.Count(),
		"version":   h.version,
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetOverlayPage(c *gin.Context) {
	c.File(filepath.Join(h.webDir, "overlay.html"))
}

// resolveQuery applies the overlay precedence: a non-empty query wins,
// otherwise the saved settings, otherwise defaults.
func (h *Handler) resolveQuery(c *gin.Context) overlay.Config {
	return overlay.Resolve(c.Request.URL.Query(), h.settings.Saved())
}

func (h *Handler) GetOverlayConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.resolveQuery(c))
}

func (h *Handler) StreamOverlay(c *gin.Context) {
	h.stream(c, h.resolveQuery(c))
}

func (h *Handler) StreamPreset(c *gin.Context) {
	name := c.Param("name")

	p, err := h.presets.GetPreset(name)
	if err != nil {
		slog.Error("Preset not found", "preset", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
		return
	}

	h.stream(c, p.Config())
}

// stream runs an overlay session for the lifetime of the request and
// forwards its frames as server-sent events.
func (h *Handler) stream(c *gin.Context, cfg overlay.Config) {
	s := h.hub.Open(c.Request.Context(), cfg)
	defer h.hub.Close(s.ID)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("session", gin.H{"id": s.ID, "config": cfg})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-s.Done():
			return false
		case frame := <-s.Frames():
			c.SSEvent(string(frame.Type), frame.Data)
			return true
		}
	})
}

func (h *Handler) getSession(c *gin.Context) (*session.Session, bool) {
	s, ok := h.hub.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	}
	return s, ok
}

func (h *Handler) PostSoundEnded(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	if !s.SoundEnded(c.Param("play")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playback not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PostSoundFailed is called by the page when a clip cannot be played. The
// remaining repeats of that alert are cancelled.
func (h *Handler) PostSoundFailed(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	var body soundFailure
	// an empty body is fine, the reason is informational
	_ = c.ShouldBindJSON(&body)

	if !s.SoundFailed(c.Param("play"), body.Reason) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playback not found"})
		return
	}
	slog.Warn("Overlay page failed to play alert", "session", s.ID, "reason", body.Reason)
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostTicker(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	var report tickerReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticker report", "details": err.Error()})
		return
	}

	switch {
	case report.Loop:
		s.TickerLoop(report.Generation)
	case report.Width > 0:
		s.ReportTickerWidth(report.Generation, report.Width)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either width or loop is required"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostAlertPreview(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		return
	}

	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || (level != 1 && level != 2) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Level must be 1 or 2"})
		return
	}

	s.PreviewAlert(level)
	c.Status(http.StatusAccepted)
}

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settings.InitialForm())
}

// bindForm coerces the posted form over the initial values the same way a
// saved blob is read: omitted or unusable fields keep their initial state.
// Only a body that is not a JSON object is rejected.
func bindForm(c *gin.Context) (overlay.Config, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil || raw == nil {
		details := "settings form must be a JSON object"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings form", "details": details})
		return overlay.Config{}, false
	}
	return settings.InitialForm().Merge(raw), true
}

func (h *Handler) PostSettingsPreview(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.settings.Preview(form))
}

func (h *Handler) PostSettingsBuild(c *gin.Context) {
	form, ok := bindForm(c)
	if !ok {
		return
	}

	dev := c.Query("dev") == "1"
	url, err := h.settings.Build(form, dev)
	if err != nil {
		slog.Error("Failed to build overlay URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": url,
		"dev": dev,
	})
}

func (h *Handler) ListPresets(c *gin.Context) {
	names := h.presets.Names()

	presets := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		p, err := h.presets.GetPreset(name)
		if err != nil {
			continue
		}
		presets = append(presets, map[string]interface{}{
			"name":        name,
			"description": p.Description,
			"stream":      "/overlay/presets/" + name + "/stream",
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"presets": presets,
		"total":   len(presets),
	})
}

func (h *Handler) GetCountdown(c *gin.Context) {
	w, err := countdown.New(c.Query("date"), c.Query("color"), h.countdownFallback)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, countdown.ErrNoDeadline) {
			slog.Error("Invalid countdown deadline", "error", err)
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, w.At(h.clock.Now()))
}
