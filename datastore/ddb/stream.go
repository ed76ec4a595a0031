/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"

	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/storagemodels"
)

// Stream pages through the keyspace in id order. A Match ending in "*" is
// a prefix filter on the id; other patterns are rejected.
func (d *DynamodbDataStore[T]) Stream(ctx context.Context, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult[T] {
	options := storagemodels.ApplyStreamOptions(opts...)
	resultCh := make(chan storagemodels.StreamResult[T], options.BufferSize)

	go d.streamWorker(ctx, options, resultCh)

	return resultCh
}

// matchPrefix turns a "prefix*" pattern into its prefix.
func matchPrefix(match string) (*string, error) {
	if match == "" || match == "*" {
		return nil, nil
	}
	prefix, ok := strings.CutSuffix(match, "*")
	if !ok || strings.ContainsAny(prefix, "*?[]") {
		return nil, errors.NewValidationError("match", fmt.Sprintf("only prefix patterns are supported, got %q", match))
	}
	return &prefix, nil
}

func (d *DynamodbDataStore[T]) streamWorker(
	ctx context.Context,
	options storagemodels.StreamOptions,
	resultCh chan<- storagemodels.StreamResult[T],
) {
	defer close(resultCh)

	var (
		itemIndex  int64
		pageNumber int
		errs       []error
		lastID     string
		startTime  = time.Now()
	)

	meta := func() storagemodels.StreamMeta {
		return storagemodels.StreamMeta{Index: itemIndex, PageNumber: pageNumber, Timestamp: time.Now()}
	}

	reportProgress := func() {
		if options.ProgressHandler == nil {
			return
		}
		progress := storagemodels.StreamProgress{
			ItemsProcessed: itemIndex,
			PagesProcessed: pageNumber,
			Cursor:         lastID,
			Errors:         errs,
			StartTime:      startTime,
		}
		if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
			progress.CurrentRate = float64(itemIndex) / elapsed
		}
		options.ProgressHandler(progress)
	}

	prefix, err := matchPrefix(options.Scan.Match)
	if err != nil {
		resultCh <- storagemodels.StreamResult[T]{Error: err, Meta: meta()}
		return
	}

	pageSize := options.PageSize
	if options.Scan.Count > 0 {
		pageSize = options.Scan.Count
	}
	input := d.keyspaceQuery(prefix)
	input.Limit = aws.Int32(int32(pageSize))

	for {
		out, err := d.queryWithRetry(ctx, input, options)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
			case resultCh <- storagemodels.StreamResult[T]{
				Error: fmt.Errorf("query failed: %w", err),
				Meta:  meta(),
			}:
			}
			return
		}
		pageNumber++

		for _, item := range out.Items {
			if d.expired(item) {
				continue
			}
			result := storagemodels.StreamResult[T]{Meta: meta()}
			if sk, ok := item[attrSK].(*types.AttributeValueMemberS); ok {
				result.ID = sk.Value
				lastID = sk.Value
			}
			entity, err := d.decode(item)
			if err != nil {
				result.Error = err
				errs = append(errs, err)
			} else {
				result.Item = *entity
			}

			select {
			case <-ctx.Done():
				return
			case resultCh <- result:
			}
			itemIndex++

			if err != nil && options.ErrorHandler != nil && !options.ErrorHandler(err) {
				return
			}
		}

		reportProgress()

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry executes a query, retrying throttling and server errors with
// exponential backoff.
func (d *DynamodbDataStore[T]) queryWithRetry(
	ctx context.Context,
	input *sdk.QueryInput,
	options storagemodels.StreamOptions,
) (*sdk.QueryOutput, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = options.RetryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(options.MaxRetries)), ctx)

	var out *sdk.QueryOutput
	err := backoff.Retry(func() error {
		var err error
		out, err = d.api.Query(ctx, input)
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var (
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
	)
	if stderrors.As(err, &throughput) || stderrors.As(err, &limit) || stderrors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if stderrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
