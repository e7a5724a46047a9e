package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/biobalance/admin/internal/mq"
	"github.com/biobalance/admin/internal/storage"
	"github.com/biobalance/admin/internal/store"
	"github.com/biobalance/admin/types"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	users []types.UserProfile
	err   error
}

func (f *fakeUsers) List(_ context.Context, limit int) ([]types.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.users) > limit {
		return f.users[:limit], nil
	}
	return f.users, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (types.UserProfile, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.UserProfile{}, store.ErrNotFound
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []string) ([]types.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]types.UserProfile, 0)
	for _, u := range f.users {
		if _, ok := want[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	return len(f.users), f.err
}

type fakeStats struct {
	stats []types.DailyStat
	err   error
}

func (f *fakeStats) ListByDate(_ context.Context, date string) ([]types.DailyStat, error) {
	out := make([]types.DailyStat, 0)
	for _, s := range f.stats {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeStats) ListSince(_ context.Context, since string, limit int) ([]types.DailyStat, error) {
	out := make([]types.DailyStat, 0)
	for _, s := range f.stats {
		if s.Date >= since {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

func (f *fakeStats) ListByUser(_ context.Context, userID string, limit int) ([]types.DailyStat, error) {
	out := make([]types.DailyStat, 0)
	for _, s := range f.stats {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

type fakeMeals struct {
	meals []types.Meal
	err   error
}

func (f *fakeMeals) List(_ context.Context, limit int) ([]types.Meal, error) {
	if limit > 0 && len(f.meals) > limit {
		return f.meals[:limit], f.err
	}
	return f.meals, f.err
}

func (f *fakeMeals) ListSince(_ context.Context, since time.Time) ([]types.Meal, error) {
	out := make([]types.Meal, 0)
	for _, m := range f.meals {
		if !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, f.err
}

func (f *fakeMeals) ListByUser(_ context.Context, userID string, limit int) ([]types.Meal, error) {
	out := make([]types.Meal, 0)
	for _, m := range f.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, f.err
}

type fakeRecipes struct {
	recipes []types.SavedRecipe
	err     error
}

func (f *fakeRecipes) List(context.Context, int) ([]types.SavedRecipe, error) {
	return f.recipes, f.err
}

type fakeChats struct {
	messages  []types.ChatMessage
	summaries []types.ChatUser
	err       error
}

func (f *fakeChats) List(context.Context, int) ([]types.ChatMessage, error) {
	return f.messages, f.err
}

func (f *fakeChats) ListByUser(_ context.Context, userID string) ([]types.ChatMessage, error) {
	out := make([]types.ChatMessage, 0)
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, f.err
}

func (f *fakeChats) ListSince(_ context.Context, since time.Time) ([]types.ChatMessage, error) {
	out := make([]types.ChatMessage, 0)
	for _, m := range f.messages {
		if !m.CreatedAt.Before(since) {
			out = append(out, m)
		}
	}
	return out, f.err
}

func (f *fakeChats) Summaries(context.Context) ([]types.ChatUser, error) {
	return f.summaries, f.err
}

type fakeObjectStore struct {
	puts map[string][]byte
}

func (f *fakeObjectStore) EnsureBucket(context.Context) error { return nil }

func (f *fakeObjectStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if f.puts == nil {
		f.puts = map[string][]byte{}
	}
	f.puts[key] = data
	return nil
}

func (f *fakeObjectStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := make([]storage.ObjectInfo, 0, len(f.puts))
	for key, data := range f.puts {
		out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	return out, nil
}

func (f *fakeObjectStore) Bucket() string { return "exports-test" }

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakeBackend struct {
	mu         sync.Mutex
	published  []published
	publishErr error
	incoming   []mq.Message
}

func (f *fakeBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = append(f.published, published{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, _ string, handler mq.Handler) error {
	for _, msg := range f.incoming {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Close() error { return nil }
