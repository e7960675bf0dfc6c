package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/agrilink/support-service/internal/domain"
	"github.com/agrilink/support-service/internal/repository"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

const roleCachePrefix = "roles:"

// IdentityService resolves a principal's role set and enumerates the users
// holding a role. Role lookups are cached in Redis with a short TTL; the cache
// is optional and a nil client disables it.
type IdentityService struct {
	users repository.UserRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewIdentityService constructs the resolver.
func NewIdentityService(users repository.UserRepository, cache *redis.Client, ttl time.Duration) *IdentityService {
	return &IdentityService{users: users, cache: cache, ttl: ttl}
}

// Resolve returns the role set for a user.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (domain.RoleSet, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, roleCachePrefix+userID).Result()
		if err == nil && cached != "" {
			return domain.NewRoleSet(strings.Split(cached, ",")...), nil
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	roles := domain.NewRoleSet(user.Roles...)
	if s.cache != nil && len(roles) > 0 {
		_ = s.cache.Set(ctx, roleCachePrefix+userID, strings.Join(roles, ","), s.ttl).Err()
	}
	return roles, nil
}

// UsersInRole returns the active users currently holding a role. Role names
// are normalized before lookup.
func (s *IdentityService) UsersInRole(ctx context.Context, role string) ([]domain.User, error) {
	users, err := s.users.ListActiveByRole(ctx, domain.NormalizeRole(role))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
