package service

import (
	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

// RequireOwnerOrAdmin 管理员或资源所有者才放行
func RequireOwnerOrAdmin(caller *model.User, ownerID uint64) error {
	if caller == nil {
		return pkg.ErrUnauthorized
	}
	if caller.IsAdmin() {
		return nil
	}
	if caller.Role == model.RoleMember && caller.ID == ownerID {
		return nil
	}
	return pkg.ErrForbidden
}
