package service

import (
	"context"
	"time"

	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/internal/app/repository"
	"github.com/adeliap/rotiku-backend/pkg/logger"
	"github.com/adeliap/rotiku-backend/pkg/redis"
)

// statusCacheTTL bounds how stale the cached closure flag may be.
const statusCacheTTL = 30 * time.Second

// StoreStatusService gates cart mutations and checkout on the shop's
// closure flag. The flag lives in the settings row and is cached in Redis
// so the hot path usually skips the database.
type StoreStatusService interface {
	IsClosed(ctx context.Context) (bool, error)
	GetSetting() (*model.StoreSetting, error)
	SetClosed(ctx context.Context, closed bool, message string) (*model.StoreSetting, error)
}

type storeStatusService struct {
	settingRepo repository.SettingRepository
}

func NewStoreStatusService(settingRepo repository.SettingRepository) StoreStatusService {
	return &storeStatusService{settingRepo: settingRepo}
}

func (s *storeStatusService) IsClosed(ctx context.Context) (bool, error) {
	if redis.GetClient() != nil {
		closed, hit, err := redis.GetCachedStoreClosed(ctx)
		if err != nil {
			// Cache trouble is not a reason to block the cart; fall
			// through to the database.
			logger.Warn("Store status cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if hit {
			return closed, nil
		}
	}

	setting, err := s.settingRepo.Get()
	if err != nil {
		return false, err
	}

	if redis.GetClient() != nil {
		if err := redis.CacheStoreClosed(ctx, setting.Closed, statusCacheTTL); err != nil {
			logger.Warn("Store status cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return setting.Closed, nil
}

func (s *storeStatusService) GetSetting() (*model.StoreSetting, error) {
	return s.settingRepo.Get()
}

func (s *storeStatusService) SetClosed(ctx context.Context, closed bool, message string) (*model.StoreSetting, error) {
	logger.Info("Updating store closure", map[string]interface{}{
		"closed": closed,
	})

	setting, err := s.settingRepo.Get()
	if err != nil {
		return nil, err
	}

	setting.Closed = closed
	setting.ClosedMessage = message
	if err := s.settingRepo.Update(setting); err != nil {
		return nil, err
	}

	if redis.GetClient() != nil {
		if err := redis.InvalidateStoreStatus(ctx); err != nil {
			logger.Warn("Failed to invalidate store status cache", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.Info("Store closure updated", map[string]interface{}{
		"closed": closed,
	})
	return setting, nil
}
