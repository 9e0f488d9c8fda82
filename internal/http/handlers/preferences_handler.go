// Preferences HTTP handlers.
//
//   - GET  /preferences                      (ETag support)
//   - PUT  /preferences                      (validated partial update)
//   - POST /preferences/font-size/increase   (Idempotency-Key aware)
//   - POST /preferences/font-size/decrease   (Idempotency-Key aware)
//   - POST /preferences/display-mode/toggle  (Idempotency-Key aware)
//   - POST /preferences/ui-visible/toggle    (Idempotency-Key aware)
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-mushaf-backend/internal/domain"
	"github.com/tbourn/go-mushaf-backend/internal/http/middleware"
	"github.com/tbourn/go-mushaf-backend/internal/repo"
	"github.com/tbourn/go-mushaf-backend/internal/services"
)

const defaultIdempotencyTTL = 24 * time.Hour

// UpdatePreferencesRequest is the JSON payload for PUT /preferences. Omitted
// fields are left unchanged.
type UpdatePreferencesRequest struct {
	FontSize    *int    `json:"font_size"    example:"28"`
	FontType    *string `json:"font_type"    example:"warsh"`
	DisplayMode *string `json:"display_mode" example:"separate"`
	UIVisible   *bool   `json:"ui_visible"   example:"true"`
	LastChapter *int    `json:"last_chapter" example:"2"`
}

// prefsDB returns the database behind the preferences service, if any.
func (h *Handlers) prefsDB() *gorm.DB {
	if svc, ok := h.prefs.(*services.PreferencesService); ok {
		return svc.DB
	}
	return nil
}

func (h *Handlers) idempotencyTTL() time.Duration {
	if h.IdempotencyTTL > 0 {
		return h.IdempotencyTTL
	}
	return defaultIdempotencyTTL
}

// prefsFail maps preference service errors to HTTP responses.
func prefsFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidFontSize):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPreferences,
			fmt.Sprintf("font_size must be between %d and %d", domain.FontSizeMin, domain.FontSizeMax))
	case errors.Is(err, services.ErrInvalidFontType):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPreferences, "font_type must be warsh or qaloun")
	case errors.Is(err, services.ErrInvalidDisplayMode):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPreferences, "display_mode must be continuous or separate")
	case errors.Is(err, services.ErrChapterNotFound):
		fail(c, http.StatusBadRequest, ErrCodeInvalidPreferences, "last_chapter must be between 1 and 114")
	default:
		fail(c, http.StatusInternalServerError, ErrCodePreferencesFailed, err.Error())
	}
}

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Get reader preferences
// @Description Returns the caller's preferences, or the defaults when none are stored. Supports weak ETag via If-None-Match.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} domain.Preferences
// @Header      200  {string} ETag "Weak ETag for the stored preferences"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// ETag pre-check (best effort).
	if db := h.prefsDB(); db != nil {
		if updatedAt, err := repo.PreferencesStats(ctx, db, uid); err == nil {
			var ts int64
			if updatedAt != nil {
				ts = updatedAt.UnixNano()
			}
			if notModified(c, fmt.Sprintf(`W/"prefs:%s:%d"`, uid, ts)) {
				return
			}
		}
	}

	p, err := h.prefs.Get(ctx, uid)
	if err != nil {
		prefsFail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Update reader preferences
// @Description Applies the supplied fields. Out-of-range values are rejected, not clamped.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdatePreferencesRequest  true  "Fields to change"
//
// @Success     200  {object} domain.Preferences
// @Failure     400  {object} handlers.ErrorResponse "Bad request or invalid value"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.prefs.Update(c.Request.Context(), userID(c), services.PreferencesUpdate{
		FontSize:    req.FontSize,
		FontType:    req.FontType,
		DisplayMode: req.DisplayMode,
		UIVisible:   req.UIVisible,
		LastChapter: req.LastChapter,
	})
	if err != nil {
		prefsFail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// IncreaseFontSize godoc
// @ID          increaseFontSize
// @Summary     Increase font size
// @Description Adds 2 points, stopping at 40. Repeating a request with the same Idempotency-Key replays the first response.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay key"             example(9f1c2d)
//
// @Success     200  {object} domain.Preferences
// @Header      200  {string} Idempotency-Replayed "true when served from a previous request"
// @Failure     400  {object} handlers.ErrorResponse "Invalid Idempotency-Key"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences/font-size/increase [post]
func (h *Handlers) IncreaseFontSize(c *gin.Context) {
	h.runPreferenceAction(c, h.prefs.IncreaseFontSize)
}

// DecreaseFontSize godoc
// @ID          decreaseFontSize
// @Summary     Decrease font size
// @Description Removes 2 points, stopping at 18. Idempotency-Key aware.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay key"             example(9f1c2d)
//
// @Success     200  {object} domain.Preferences
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences/font-size/decrease [post]
func (h *Handlers) DecreaseFontSize(c *gin.Context) {
	h.runPreferenceAction(c, h.prefs.DecreaseFontSize)
}

// ToggleDisplayMode godoc
// @ID          toggleDisplayMode
// @Summary     Toggle display mode
// @Description Switches between continuous and separate. Idempotency-Key aware.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay key"             example(9f1c2d)
//
// @Success     200  {object} domain.Preferences
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences/display-mode/toggle [post]
func (h *Handlers) ToggleDisplayMode(c *gin.Context) {
	h.runPreferenceAction(c, h.prefs.ToggleDisplayMode)
}

// ToggleUIVisible godoc
// @ID          toggleUIVisible
// @Summary     Toggle UI visibility
// @Description Shows or hides the reader chrome. Idempotency-Key aware.
// @Tags        Preferences
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay key"             example(9f1c2d)
//
// @Success     200  {object} domain.Preferences
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /preferences/ui-visible/toggle [post]
func (h *Handlers) ToggleUIVisible(c *gin.Context) {
	h.runPreferenceAction(c, h.prefs.ToggleUIVisible)
}

// runPreferenceAction executes a non-repeatable preference mutation. With an
// Idempotency-Key, a stored response for the same (user, route, key) is
// replayed instead of mutating again, and a fresh response is stored.
func (h *Handlers) runPreferenceAction(c *gin.Context, action func(ctx context.Context, userID string) (*domain.Preferences, error)) {
	ctx := c.Request.Context()
	uid := userID(c)
	scope := middleware.IdempotencyScope(c)
	db := h.prefsDB()

	key, _ := middleware.GetIdempotencyKey(c)
	if key == "" {
		key = strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	}

	if key != "" && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, uid, scope, key, time.Now().UTC()); err == nil && rec != nil {
			c.Header("Idempotency-Replayed", "true")
			okJSONBytes(c, rec.Status, []byte(rec.Body))
			return
		}
	}

	p, err := action(ctx, uid)
	if err != nil {
		prefsFail(c, err)
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	// A failed store only costs the next retry its replay.
	if key != "" && db != nil {
		if _, err := repo.CreateIdempotency(ctx, db, uid, scope, key, string(body), http.StatusOK, h.idempotencyTTL()); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("store idempotency record")
		}
	}

	okJSONBytes(c, http.StatusOK, body)
}
