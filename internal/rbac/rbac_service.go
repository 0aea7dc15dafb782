package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Role names match employee.RoleEmployee / employee.RoleAdmin; inlined here
// because importing the employee package would form an import cycle with
// employee's route registration, which depends on rbac.Service.
const (
	roleEmployee = "employee"
	roleAdmin    = "admin"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	s := &service{enforcer: enforcer, logger: l}
	if err := s.seedPolicies(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedPolicies installs the static two-role policy set. Admins inherit
// everything employees can do.
func (s *service) seedPolicies() error {
	policies := [][]string{
		{roleEmployee, "leave", "create"},
		{roleEmployee, "leave", "read"},
		{roleEmployee, "balance", "read"},
		{roleEmployee, "holiday", "read"},
		{roleAdmin, "leave", "read_all"},
		{roleAdmin, "leave", "review"},
		{roleAdmin, "employee", "read_all"},
		{roleAdmin, "holiday", "manage"},
	}

	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	if _, err := s.enforcer.AddGroupingPolicy(roleAdmin, roleEmployee); err != nil {
		return err
	}

	s.logger.Info("rbac policies seeded", zap.Int("policies", len(policies)))
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
