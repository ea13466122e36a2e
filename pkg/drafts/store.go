package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists the form's working values per workspace so an
// interrupted session can recover its unsaved edits. Persistence is an
// optional enhancement: with no Redis connection every call is a no-op.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) key(workspaceID string) string {
	return fmt.Sprintf("draft:%s", workspaceID)
}

// Save overwrites the draft for a workspace with the current form values.
func (s *Store) Save(ctx context.Context, workspaceID string, fields map[string]string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(workspaceID), data, s.ttl).Err()
}

// Load returns the saved draft, if any.
func (s *Store) Load(ctx context.Context, workspaceID string) (map[string]string, bool, error) {
	if s == nil || s.rdb == nil {
		return nil, false, nil
	}
	data, err := s.rdb.Get(ctx, s.key(workspaceID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false, err
	}
	return fields, true, nil
}

// Clear drops the draft after a successful save or an explicit discard.
func (s *Store) Clear(ctx context.Context, workspaceID string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, s.key(workspaceID)).Err()
}
