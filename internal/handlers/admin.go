package handlers

import (
	"net/http"
	"strconv"

	"github.com/amberglobal/identity-service/internal/middleware"
	"github.com/amberglobal/identity-service/internal/models"
	"github.com/amberglobal/identity-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles back-office HTTP requests.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AdminLoginRequest represents the admin login payload.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login authenticates an admin by email.
func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated admin's record.
func (h *AdminHandler) Me(c *gin.Context) {
	admin := middleware.AdminFromContext(c)
	if admin == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	c.JSON(http.StatusOK, admin)
}

// ChangePasswordRequest represents the change-password payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePassword rotates the authenticated admin's password.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	admin := middleware.AdminFromContext(c)
	if admin == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.adminService.ChangePassword(c.Request.Context(), admin, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// CreateAdminRequest represents the create-admin payload.
type CreateAdminRequest struct {
	Username        string               `json:"username" binding:"required,min=3,max=100"`
	Email           string               `json:"email" binding:"required,email"`
	Password        string               `json:"password" binding:"required,min=8,max=100"`
	ConfirmPassword string               `json:"confirm_password" binding:"required"`
	FullName        string               `json:"full_name" binding:"required,min=2,max=255"`
	Role            string               `json:"role"`
	IsSuperAdmin    bool                 `json:"is_super_admin"`
	Permissions     models.PermissionMap `json:"permissions"`
}

// Create registers a new admin account. Super admin only.
func (h *AdminHandler) Create(c *gin.Context) {
	actor := middleware.AdminFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), actor, service.CreateAdminRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Role:            req.Role,
		IsSuperAdmin:    req.IsSuperAdmin,
		Permissions:     req.Permissions,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// List returns a page of admin accounts. Super admin only.
func (h *AdminHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	admins, err := h.adminService.List(c.Request.Context(), offset, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// Get returns one admin by id. Super admin only.
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	admin, err := h.adminService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// Update patches an admin's mutable fields. Super admin only.
func (h *AdminHandler) Update(c *gin.Context) {
	actor := middleware.AdminFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var update models.AdminUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.adminService.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// Delete removes an admin account. Super admin only.
func (h *AdminHandler) Delete(c *gin.Context) {
	actor := middleware.AdminFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), actor, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

// DashboardStats returns entity counts and recent activity.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.adminService.DashboardStats(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns a page of user accounts. Requires manage_users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, limit := pagination(c)
	users, err := h.adminService.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UserStatusRequest represents the user verification-status payload.
type UserStatusRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// UpdateUserStatus overrides a user's verified flag. Requires manage_users.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	actor := middleware.AdminFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.SetUserVerified(c.Request.Context(), actor, id, *req.IsVerified); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User status updated successfully"})
}

// ListEnquiries returns a page of enquiry records. Requires
// manage_enquiries.
func (h *AdminHandler) ListEnquiries(c *gin.Context) {
	offset, limit := pagination(c)
	enquiries, err := h.adminService.ListEnquiries(c.Request.Context(), offset, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enquiries)
}

// EnquiryStatusRequest represents the enquiry status payload.
type EnquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateEnquiryStatus patches an enquiry's status field. Requires
// manage_enquiries.
func (h *AdminHandler) UpdateEnquiryStatus(c *gin.Context) {
	actor := middleware.AdminFromContext(c)
	if actor == nil {
		RespondError(c, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req EnquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.adminService.UpdateEnquiryStatus(c.Request.Context(), actor, id, req.Status); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Enquiry status updated successfully"})
}

// RecentActivities returns the latest audit events.
func (h *AdminHandler) RecentActivities(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	events, err := h.adminService.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return offset, limit
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
