package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

// 后台路由以 /api/v1 开头，策略里只保存去掉版本前缀后的路径
const routePrefix = "/api/v1"

const rolePrefix = "role:"

// 主体命中自身或继承的角色，路径支持 :id 与 * 通配，动作 * 表示任意方法
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// Policy 一条后台访问规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 以身份令牌里的 role 声明为主体做后台鉴权，规则落在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz: db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", "casbin_rule")
	if err != nil {
		return nil, fmt.Errorf("authz: adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// EnforceRole 判断角色能否以 method 访问 path；未知或空角色直接拒绝
func (s *Service) EnforceRole(role, path, method string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, ErrUnavailable
	}
	subject, ok := roleSubject(role)
	if !ok {
		return false, nil
	}
	return s.enforcer.Enforce(subject, NormalizeObject(path), strings.ToUpper(strings.TrimSpace(method)))
}

// RolePolicies 角色自身持有的规则，不含继承
func (s *Service) RolePolicies(role string) ([]Policy, error) {
	if s == nil || s.enforcer == nil {
		return nil, ErrUnavailable
	}
	subject, ok := roleSubject(role)
	if !ok {
		return nil, fmt.Errorf("authz: invalid role %q", role)
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, err
	}
	out := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) >= 3 {
			out = append(out, Policy{Subject: rule[0], Object: rule[1], Action: rule[2]})
		}
	}
	return out, nil
}

// roleSubject "Admin" -> "role:admin"
func roleSubject(role string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, rolePrefix)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "", false
	}
	return rolePrefix + name, true
}

// NormalizeObject 补齐前导斜杠并去掉 /api/v1 前缀
func NormalizeObject(path string) string {
	p := strings.TrimSpace(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p == routePrefix {
		return "/"
	}
	if rest, ok := strings.CutPrefix(p, routePrefix+"/"); ok {
		return "/" + rest
	}
	return p
}
