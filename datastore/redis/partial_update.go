/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/storagemodels"
)

// UpdatePartial applies the property updates of update to the stored hash.
//
// Setting a path replaces the path and everything nested below it; setting it
// to nil removes it. Updates apply in order, so a Del after a Set of the same
// path wins. The id is (re)added to the keyspace, which makes a partial update
// of a missing entity create it.
func (a *KeyValueAdapter[T]) UpdatePartial(ctx context.Context, update *storagemodels.PartialUpdate[T]) error {
	if update == nil {
		return errors.NewValidationError("update", "must not be nil")
	}
	if update.ID() == "" {
		return errors.NewValidationError("id", "must not be empty")
	}

	key := a.entityKey(update.ID())
	existing, err := a.cmd.HKeys(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("hkeys %s: %w", key, err)
	}

	toSet, toDel, err := planPartialUpdate(existing, update.PropertyUpdates())
	if err != nil {
		return err
	}
	toSet[typeField] = a.typeName

	_, err = a.cmd.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		if len(toDel) > 0 {
			pipe.HDel(ctx, key, toDel...)
		}
		pipe.HSet(ctx, key, toSet)
		if update.IsRefreshTTL() && a.settings.TimeToLive > 0 {
			pipe.Expire(ctx, key, a.settings.TimeToLive)
		}
		pipe.SAdd(ctx, a.settings.Keyspace, update.ID())
		return nil
	})
	if err != nil {
		return fmt.Errorf("partial update %s: %w", key, err)
	}

	a.log.Debug().
		Str("id", update.ID()).
		Int("set", len(toSet)-1).
		Int("del", len(toDel)).
		Msg("partial update applied")
	return nil
}

// planPartialUpdate replays updates over the existing field names and returns
// the fields to write and the fields to remove.
func planPartialUpdate(existing []string, updates []storagemodels.PropertyUpdate) (map[string]string, []string, error) {
	present := make(map[string]bool, len(existing))
	for _, f := range existing {
		present[f] = true
	}
	toSet := make(map[string]string)

	drop := func(path string) {
		for f := range present {
			if covers(path, f) {
				delete(present, f)
			}
		}
		for f := range toSet {
			if covers(path, f) {
				delete(toSet, f)
			}
		}
	}

	for _, u := range updates {
		if u.Path == "" {
			return nil, nil, errors.NewValidationError("path", "must not be empty")
		}
		switch u.Op {
		case storagemodels.OpSet:
			drop(u.Path)
			if u.Value == nil {
				continue
			}
			flat, err := flattenAt(u.Path, u.Value)
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s: %w", u.Path, err)
			}
			for f, v := range flat {
				toSet[f] = v
			}
		case storagemodels.OpDel:
			drop(u.Path)
		default:
			return nil, nil, errors.NewValidationError("op", fmt.Sprintf("unknown update op %d", u.Op))
		}
	}

	var toDel []string
	for _, f := range existing {
		if !present[f] {
			if _, rewritten := toSet[f]; !rewritten {
				toDel = append(toDel, f)
			}
		}
	}
	return toSet, toDel, nil
}
