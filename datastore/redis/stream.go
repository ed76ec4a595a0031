/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/storagemodels"
)

// Stream pages through the keyspace with SSCAN and loads each entity.
// Ids seen twice across pages are emitted once; ids whose hash has expired
// are skipped.
func (a *KeyValueAdapter[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go a.streamWorker(ctx, options, resultCh)

	return resultCh
}

func (a *KeyValueAdapter[T]) streamWorker(
	ctx context.Context,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[T],
) {
	defer close(resultCh)

	var (
		itemIndex  int64
		pageNumber int
		cursor     uint64
		errs       []error
		seen       = make(map[string]struct{})
		startTime  = time.Now()
	)

	count := options.Scan.Count
	if count <= 0 {
		count = options.PageSize
	}

	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			Cursor:         fmt.Sprint(cursor),
			Errors:         errs,
			StartTime:      startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(itemIndex) / elapsed
		}
		options.ProgressHandler(progress)
	}

	meta := func() storagemodels.StreamMeta {
		return storagemodels.StreamMeta{Index: itemIndex, PageNumber: pageNumber, Timestamp: time.Now()}
	}

	send := func(r storagemodels.StreamResult[T]) bool {
		select {
		case <-ctx.Done():
			return false
		case resultCh <- r:
			return true
		}
	}

	for {
		ids, next, err := a.scanWithRetry(ctx, cursor, options.Scan.Match, count, options)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// The cursor cannot advance past a failed page.
			send(storagemodels.StreamResult[T]{
				Error: fmt.Errorf("scan %s: %w", a.settings.Keyspace, err),
				Meta:  meta(),
			})
			return
		}
		pageNumber++

		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			entity, err := a.GetOne(ctx, id)
			if errors.IsNotFound(err) {
				continue
			}
			result := storagemodels.StreamResult[T]{ID: id, Meta: meta()}
			if err != nil {
				result.Error = err
				errs = append(errs, err)
			} else {
				result.Item = *entity
			}
			if !send(result) {
				return
			}
			itemIndex++

			if err != nil && options.ErrorHandler != nil && !options.ErrorHandler(err) {
				return
			}
		}

		cursor = next
		reportProgress()
		if cursor == 0 {
			return
		}
	}
}

func (a *KeyValueAdapter[T]) scanWithRetry(
	ctx context.Context,
	cursor uint64,
	match string,
	count int64,
	options storagemodels.StreamOptions,
) ([]string, uint64, error) {
	var (
		ids  []string
		next uint64
	)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = options.RetryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(options.MaxRetries)), ctx)

	err := backoff.Retry(func() error {
		var err error
		ids, next, err = a.cmd.SScan(ctx, a.settings.Keyspace, cursor, match, count).Result()
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		return nil, 0, err
	}
	return ids, next, nil
}

// isRetryable reports transient failures: network errors and servers that
// are loading or busy.
func isRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) || stderrors.Is(err, io.EOF) {
		return true
	}
	for _, prefix := range []string{"LOADING", "TRYAGAIN", "BUSY", "CLUSTERDOWN"} {
		if goredis.HasErrorPrefix(err, prefix) {
			return true
		}
	}
	return false
}
