package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workdeck/avatarproxy/internal/avatar"
)

// AvatarHandler serves GET /avatar/:userId.
type AvatarHandler struct {
	svc    *avatar.Service
	logger *slog.Logger
}

func NewAvatarHandler(svc *avatar.Service, logger *slog.Logger) (*AvatarHandler, error) {
	if svc == nil {
		return nil, fmt.Errorf("avatar service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AvatarHandler{svc: svc, logger: logger}, nil
}

func (h *AvatarHandler) Get(c *gin.Context) {
	p, err := avatar.ParseParams(c.Param("userId"), c.Query("res"), c.Query("color"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), p)
	if err != nil {
		h.writeError(c, p, err)
		return
	}

	writeEntry(c, entry)
}

// writeError maps internal failures to the smallest useful status code. An
// unavailable origin is a 404, not a 5xx, so clients see a broken image
// instead of an error page and don't retry in a storm.
func (h *AvatarHandler) writeError(c *gin.Context, p avatar.Params, err error) {
	switch {
	case errors.Is(err, avatar.ErrInvalidUserID):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, avatar.ErrOriginUnavailable):
		h.logger.Info("avatar not servable", "user_id", p.UserID, "error", err)
		c.Status(http.StatusNotFound)
	case errors.Is(err, avatar.ErrTransformFailed):
		h.logger.Warn("avatar transform failed", "user_id", p.UserID, "error", err)
		c.Status(http.StatusNotFound)
	default:
		h.logger.Error("avatar request failed", "user_id", p.UserID, "error", err)
		c.Status(http.StatusInternalServerError)
	}
}
