package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/andresuchdata/hypnoscale/internal/domain"
)

const defaultSnapshotPrefix = "snapshots"

// SnapshotStore writes finance views as JSON objects named by range and generation time.
type SnapshotStore struct {
	objects ObjectStorage
	prefix  string
}

func NewSnapshotStore(objects ObjectStorage, prefix string) *SnapshotStore {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultSnapshotPrefix
	}
	return &SnapshotStore{objects: objects, prefix: prefix}
}

// SnapshotKey is finance/<start>_<end>/<generated_at>.json under the prefix.
func (s *SnapshotStore) SnapshotKey(dashboard domain.FinanceDashboard) string {
	stamp := dashboard.GeneratedAt.UTC().Format("20060102T150405Z")
	return path.Join(s.prefix, "finance", dashboard.Range.Key(), stamp+".json")
}

func (s *SnapshotStore) SaveFinance(ctx context.Context, dashboard domain.FinanceDashboard) (string, error) {
	payload, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode finance snapshot: %w", err)
	}

	key := s.SnapshotKey(dashboard)
	if err := s.objects.UploadObject(ctx, key, payload); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SnapshotStore) LoadFinance(ctx context.Context, key string) (domain.FinanceDashboard, error) {
	payload, err := s.objects.GetObject(ctx, key)
	if err != nil {
		return domain.FinanceDashboard{}, err
	}

	var dashboard domain.FinanceDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return domain.FinanceDashboard{}, fmt.Errorf("decode finance snapshot %s: %w", key, err)
	}
	return dashboard, nil
}

// List returns snapshots newest first.
func (s *SnapshotStore) List(ctx context.Context) ([]ObjectInfo, error) {
	objects, err := s.objects.ListObjects(ctx, s.prefix+"/")
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool {
		if objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].Key > objects[j].Key
		}
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	return objects, nil
}
