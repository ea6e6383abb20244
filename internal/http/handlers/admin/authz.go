package admin

import (
	"strconv"

	"github.com/tadka-labs/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminRolesRequest 设置管理员角色请求
type AdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// GetAuthzRoles 角色列表
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetAdminRoles 查询管理员角色
func (h *Handler) GetAdminRoles(c *gin.Context) {
	adminID, ok := parseAdminIDParam(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}

// SetAdminRoles 覆盖管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	adminID, ok := parseAdminIDParam(c)
	if !ok {
		return
	}
	var req AdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if _, err := h.AuthService.GetAdmin(adminID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("admin_roles_updated", "operator_id", c.GetUint("admin_id"), "admin_id", adminID, "roles", req.Roles)
	response.Success(c, gin.H{"admin_id": adminID, "roles": req.Roles})
}

func parseAdminIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.admin_id_invalid", err)
		return 0, false
	}
	return uint(id), true
}
