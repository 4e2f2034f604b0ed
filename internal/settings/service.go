package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,63}$`)

type settingsRepository interface {
	Find(ctx context.Context, key string) (*models.AppSetting, error)
	List(ctx context.Context) ([]models.AppSetting, error)
	Upsert(ctx context.Context, setting *models.AppSetting) error
	Delete(ctx context.Context, key string) error
}

// settingsCache is the slice of the redis client the service needs.
type settingsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(name string) string
}

// SettingDTO is the transport shape for one setting.
type SettingDTO struct {
	Key       string          `json:"key"`
	Value     dbtypes.JSONMap `json:"value"`
	UpdatedBy *uuid.UUID      `json:"updated_by,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Service exposes keyed application settings with a read-through cache.
type Service interface {
	Get(ctx context.Context, key string) (*SettingDTO, error)
	List(ctx context.Context) ([]SettingDTO, error)
	Set(ctx context.Context, key string, value dbtypes.JSONMap, updatedBy *uuid.UUID) (*SettingDTO, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo  settingsRepository
	cache settingsCache
	logg  *logger.Logger
}

// NewService constructs the settings service. The cache is optional; without
// one every read hits the database.
func NewService(repo settingsRepository, cache settingsCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	if !keyPattern.MatchString(key) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid setting key %q", key))
	}

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	setting, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("setting %q not found", key))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}

	dto := fromModel(setting)
	s.toCache(ctx, dto)
	return dto, nil
}

func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list settings")
	}
	out := make([]SettingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Set(ctx context.Context, key string, value dbtypes.JSONMap, updatedBy *uuid.UUID) (*SettingDTO, error) {
	if !keyPattern.MatchString(key) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid setting key %q", key))
	}
	if value == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting value is required")
	}

	setting := &models.AppSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}

	s.invalidate(ctx, key)
	return fromModel(setting), nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if _, err := s.Get(ctx, key); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete setting")
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *service) fromCache(ctx context.Context, key string) *SettingDTO {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("settings:"+key))
	if err != nil {
		if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Error(ctx, "settings cache read failed", err)
		}
		return nil
	}
	var dto SettingDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		// Corrupt entry: drop it and fall back to the database.
		s.invalidate(ctx, key)
		return nil
	}
	return &dto
}

func (s *service) toCache(ctx context.Context, dto *SettingDTO) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey("settings:"+dto.Key), string(raw), cacheTTL); err != nil && s.logg != nil {
		s.logg.Error(ctx, "settings cache write failed", err)
	}
}

func (s *service) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.CacheKey("settings:"+key)); err != nil && s.logg != nil {
		s.logg.Error(ctx, "settings cache invalidation failed", err)
	}
}

func fromModel(setting *models.AppSetting) *SettingDTO {
	return &SettingDTO{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: setting.UpdatedAt,
	}
}
