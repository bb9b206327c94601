package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ruralcare/health-api/internal/middleware"
	"github.com/ruralcare/health-api/internal/model"
	"github.com/ruralcare/health-api/internal/service"
	"github.com/ruralcare/health-api/pkg/auth"
)

type AuthHandler struct {
	auth *service.AuthService
	jwt  auth.JWTService
}

func NewAuthHandler(authService *service.AuthService, jwt auth.JWTService) *AuthHandler {
	return &AuthHandler{auth: authService, jwt: jwt}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.POST("/auth/reset-password", h.ResetPassword)

	authed := r.Group("", middleware.Auth(h.jwt))
	authed.POST("/auth/change-password", h.ChangePassword)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.auth.ChangePassword(c.Request.Context(), *claims, &req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "password changed"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "if the account exists, a reset email has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "password reset"})
}
