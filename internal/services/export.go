package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biobalance/admin/internal/storage"
	"github.com/biobalance/admin/types"
	"github.com/google/uuid"
)

const (
	exportPrefix = "exports/"

	// exportEpoch is earlier than any daily stat.
	exportEpoch = "1970-01-01"
)

var (
	// ErrUnknownDataset is returned for a dataset name outside types.ExportDatasets.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrExportsDisabled is returned when no object storage is configured.
	ErrExportsDisabled = errors.New("exports are disabled")
)

// ExportService writes full table snapshots to object storage.
type ExportService struct {
	store   storage.ObjectStorage
	users   UserRepository
	meals   MealRepository
	recipes RecipeRepository
	stats   StatRepository
	chats   ChatRepository
	now     func() time.Time
}

// NewExportService accepts a nil store; every export then fails with
// ErrExportsDisabled.
func NewExportService(
	store storage.ObjectStorage,
	users UserRepository,
	meals MealRepository,
	recipes RecipeRepository,
	stats StatRepository,
	chats ChatRepository,
) *ExportService {
	return &ExportService{
		store:   store,
		users:   users,
		meals:   meals,
		recipes: recipes,
		stats:   stats,
		chats:   chats,
		now:     time.Now,
	}
}

// Enabled reports whether exports can be written.
func (s *ExportService) Enabled() bool {
	return s.store != nil
}

// Export loads dataset and stores it as
// exports/<dataset>/<timestamp>-<uuid>.json.
func (s *ExportService) Export(ctx context.Context, dataset types.ExportDataset) (types.ExportResult, error) {
	if !dataset.Valid() {
		return types.ExportResult{}, ErrUnknownDataset
	}
	if s.store == nil {
		return types.ExportResult{}, ErrExportsDisabled
	}

	rows, count, err := s.load(ctx, dataset)
	if err != nil {
		return types.ExportResult{}, fmt.Errorf("load %s: %w", dataset, err)
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%s/%s-%s.json", exportPrefix, dataset, now.Format("20060102T150405Z"), uuid.NewString())
	size, err := storage.PutJSON(ctx, s.store, key, rows)
	if err != nil {
		return types.ExportResult{}, err
	}

	return types.ExportResult{
		Dataset:   dataset,
		Bucket:    s.store.Bucket(),
		Key:       key,
		Rows:      count,
		Bytes:     size,
		CreatedAt: now,
	}, nil
}

// List returns the exports written so far.
func (s *ExportService) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil {
		return nil, ErrExportsDisabled
	}
	return s.store.List(ctx, exportPrefix)
}

func (s *ExportService) load(ctx context.Context, dataset types.ExportDataset) (any, int, error) {
	switch dataset {
	case types.ExportUsers:
		rows, err := s.users.List(ctx, 0)
		return rows, len(rows), err
	case types.ExportMeals:
		rows, err := s.meals.List(ctx, 0)
		return rows, len(rows), err
	case types.ExportRecipes:
		rows, err := s.recipes.List(ctx, 0)
		return rows, len(rows), err
	case types.ExportStats:
		rows, err := s.stats.ListSince(ctx, exportEpoch, 0)
		return rows, len(rows), err
	case types.ExportChats:
		rows, err := s.chats.List(ctx, 0)
		return rows, len(rows), err
	default:
		return nil, 0, ErrUnknownDataset
	}
}
