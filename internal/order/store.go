// Package order owns the persisted user-defined ordering of task ids within
// each view group. No other component writes order records.
package order

import (
	"context"
	"log"

	"noteboard/internal/model"
	"noteboard/internal/settings"
)

const settingKeyPrefix = "groupOrder/"

// Store persists one id permutation per group identifier, keyed in the
// settings store. Records are created lazily on first reorder and writes are
// last-write-wins.
type Store struct {
	settings settings.Store
	logger   *log.Logger
}

func NewStore(st settings.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{settings: st, logger: logger}
}

func settingKey(groupID string) string {
	return settingKeyPrefix + groupID
}

// Get returns the stored order for groupID. A missing record or a failing
// read degrades to nil; the caller falls back to natural order.
func (s *Store) Get(ctx context.Context, groupID string) []model.TaskID {
	var ids []model.TaskID
	ok, err := s.settings.Get(ctx, settingKey(groupID), &ids)
	if err != nil {
		s.logger.Printf("order read failed for %q: %v", groupID, err)
		return nil
	}
	if !ok {
		return nil
	}
	return ids
}

// Set overwrites the stored order for groupID. Overwriting with the same
// sequence is harmless, so retries are safe.
func (s *Store) Set(ctx context.Context, groupID string, ids []model.TaskID) error {
	return s.settings.Set(ctx, settingKey(groupID), ids)
}

// Reconcile merges a stored order with a group's live membership: stored ids
// no longer live are dropped, live ids not yet stored are appended in their
// input order. Reconcile(Reconcile(x)) == Reconcile(x) for any input.
func Reconcile(stored, live []model.TaskID) []model.TaskID {
	liveSet := make(map[model.TaskID]bool, len(live))
	for _, id := range live {
		liveSet[id] = true
	}

	out := make([]model.TaskID, 0, len(live))
	seen := make(map[model.TaskID]bool, len(live))
	for _, id := range stored {
		if liveSet[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range live {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// Reconciled is the read path for display: stored order reconciled against
// the live membership. It must run on every read since tasks can join or
// leave a group outside of drag interactions.
func (s *Store) Reconciled(ctx context.Context, groupID string, live []model.TaskID) []model.TaskID {
	return Reconcile(s.Get(ctx, groupID), live)
}
