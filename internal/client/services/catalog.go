package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/unirent/unirent/internal/client/client"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/client/repositories/kv"
	"github.com/unirent/unirent/internal/common"
	"github.com/unirent/unirent/internal/dbx"
	"github.com/unirent/unirent/internal/logging"
)

// CatalogService looks up devices. Results seen online are cached locally
// so offline mode can still pick a device snapshot.
type CatalogService interface {
	Search(ctx context.Context, q client.DeviceQuery) ([]models.Device, error)
	Get(ctx context.Context, id int64) (*models.Device, error)
}

type catalogService struct {
	client client.Client
	db     *sql.DB
	log    logging.Logger
}

// NewCatalogService builds a catalog over c, which may be nil in offline
// mode; the cache alone is used then.
func NewCatalogService(c client.Client, db *sql.DB, log logging.Logger) CatalogService {
	return &catalogService{client: c, db: db, log: log}
}

func (s *catalogService) Search(ctx context.Context, q client.DeviceQuery) ([]models.Device, error) {
	if s.client != nil {
		page, err := s.client.SearchDevices(ctx, q)
		if err == nil {
			s.remember(ctx, page.Content...)
			return page.Content, nil
		}
		if !errors.Is(err, client.ErrUnavailable) {
			return nil, err
		}
		s.log.Warn(ctx, "catalog unavailable, using cached devices", "error", err)
	}

	cached, err := s.cached(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		return nil, err
	}
	result := make([]models.Device, 0, len(cached))
	for _, d := range cached {
		if matchDevice(d, q) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (s *catalogService) Get(ctx context.Context, id int64) (*models.Device, error) {
	if s.client != nil {
		d, err := s.client.GetDevice(ctx, id)
		if err == nil {
			s.remember(ctx, *d)
			return d, nil
		}
		if !errors.Is(err, client.ErrUnavailable) {
			return nil, err
		}
	}

	cached, err := s.cached(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		return nil, err
	}
	for _, d := range cached {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("device %d: %w", id, common.ErrNotFound)
}

func (s *catalogService) cached(ctx context.Context, repo kv.Repository) ([]models.Device, error) {
	raw, err := repo.Get(ctx, common.DevicesStorageKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var list []models.Device
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn(ctx, "cached devices are unreadable", "error", err)
		return nil, nil
	}
	return list, nil
}

// remember merges devices into the cache by id. Failures are logged only.
func (s *catalogService) remember(ctx context.Context, devices ...models.Device) {
	if len(devices) == 0 {
		return
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		list, err := s.cached(ctx, repo)
		if err != nil {
			return err
		}

		byID := make(map[int64]models.Device, len(list)+len(devices))
		for _, d := range list {
			byID[d.ID] = d
		}
		for _, d := range devices {
			byID[d.ID] = d
		}

		merged := make([]models.Device, 0, len(byID))
		for _, d := range byID {
			merged = append(merged, d)
		}
		sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

		raw, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return repo.Set(ctx, common.DevicesStorageKey, raw)
	})
	if err != nil {
		s.log.Warn(ctx, "failed to cache devices", "error", err)
	}
}

func matchDevice(d models.Device, q client.DeviceQuery) bool {
	if q.Q != "" {
		needle := strings.ToLower(q.Q)
		hay := strings.ToLower(d.Name + " " + d.Type + " " + d.SerialNumber + " " + d.Location)
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	if q.Type != "" && !strings.EqualFold(d.Type, q.Type) {
		return false
	}
	if q.Location != "" && !strings.EqualFold(d.Location, q.Location) {
		return false
	}
	if q.Status != "" && d.Status != models.ParseDeviceStatus(q.Status) {
		return false
	}
	return true
}
