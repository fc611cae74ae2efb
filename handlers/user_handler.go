package handlers

import (
	"net/http"

	"github.com/upb/resource-api/middleware"
	"github.com/upb/resource-api/utils"
	"go.uber.org/zap"
)

// UserHandler serves projections of the caller's verified claims
type UserHandler struct {
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// HandleUserInfo handles GET /api/user
func (h *UserHandler) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, NewUserInfo(claims)); err != nil {
		h.logger.Error("failed to write user info response",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
	}
}

// HandleProfile handles GET /api/profile
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, NewProfile(claims)); err != nil {
		h.logger.Error("failed to write profile response",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
	}
}
