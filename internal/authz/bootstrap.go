package authz

import (
	"fmt"

	"github.com/amineweldmaryem/boutique/internal/constants"
)

type builtinRole struct {
	name     string
	inherits string
	rules    [][2]string // {object, action}
}

// auditor 只读后台，admin 继承 auditor 并可执行任意写操作
var builtinRoles = []builtinRole{
	{name: constants.RoleAuditor, rules: [][2]string{{"/admin/*", "GET"}}},
	{name: constants.RoleAdmin, inherits: constants.RoleAuditor, rules: [][2]string{{"/admin/*", "*"}}},
}

// BootstrapBuiltinRoles 写入内置角色，已存在的规则跳过
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	for _, role := range builtinRoles {
		subject, _ := roleSubject(role.name)
		if role.inherits != "" {
			parent, _ := roleSubject(role.inherits)
			if _, err := s.enforcer.AddGroupingPolicy(subject, parent); err != nil {
				return fmt.Errorf("authz: link %s -> %s: %w", subject, parent, err)
			}
		}
		for _, rule := range role.rules {
			if _, err := s.enforcer.AddPolicy(subject, rule[0], rule[1]); err != nil {
				return fmt.Errorf("authz: seed %s %s %s: %w", subject, rule[1], rule[0], err)
			}
		}
	}
	return nil
}
