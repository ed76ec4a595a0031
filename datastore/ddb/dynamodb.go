/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/suparena/rediskv/datastore"
	"github.com/suparena/rediskv/errors"
	"github.com/suparena/rediskv/logging"
	"github.com/suparena/rediskv/registry"
)

// Reserved attributes added to every item.
const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrEntityType = "EntityType"
	attrExpiresAt  = "ExpiresAt"
)

// maxBatchWrite is the BatchWriteItem request limit.
const maxBatchWrite = 25

// API is the subset of the DynamoDB client the datastore uses.
type API interface {
	GetItem(ctx context.Context, in *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, in *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, in *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	BatchWriteItem(ctx context.Context, in *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

var _ API = (*sdk.Client)(nil)

// DynamodbDataStore implements datastore.DataStore[T] on one DynamoDB table.
// Items of a keyspace share the partition key PK = keyspace and are sorted
// by SK = id. A keyspace TTL is written to ExpiresAt as epoch seconds; items
// past it read as missing even before DynamoDB removes them.
type DynamodbDataStore[T any] struct {
	api      API
	table    string
	settings registry.EntitySettings[T]
	typeName string
	log      zerolog.Logger
	now      func() time.Time
}

var _ datastore.DataStore[struct{}] = (*DynamodbDataStore[struct{}])(nil)

// Option configures a DynamodbDataStore.
type Option func(*options)

type options struct {
	mapping *registry.MappingContext
	log     zerolog.Logger
}

// WithMappingContext looks entity settings up in mc instead of registry.Default.
func WithMappingContext(mc *registry.MappingContext) Option {
	return func(o *options) { o.mapping = mc }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// NewDynamodbDataStore constructs a DynamodbDataStore for T. T must be registered.
func NewDynamodbDataStore[T any](api API, table string, opts ...Option) (*DynamodbDataStore[T], error) {
	if table == "" {
		return nil, errors.NewValidationError("table", "must not be empty")
	}
	o := options{mapping: registry.Default, log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	settings, err := registry.Lookup[T](o.mapping)
	if err != nil {
		return nil, err
	}
	return &DynamodbDataStore[T]{
		api:      api,
		table:    table,
		settings: settings,
		typeName: reflect.TypeOf((*T)(nil)).Elem().String(),
		log: logging.WithComponent(o.log, "dynamodb").With().
			Str("table", table).
			Str("keyspace", settings.Keyspace).
			Logger(),
		now: time.Now,
	}, nil
}

func (d *DynamodbDataStore[T]) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: d.settings.Keyspace},
		attrSK: &types.AttributeValueMemberS{Value: id},
	}
}

// expired reports whether item carries an ExpiresAt in the past.
func (d *DynamodbDataStore[T]) expired(item map[string]types.AttributeValue) bool {
	n, ok := item[attrExpiresAt].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	at, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return false
	}
	return d.now().Unix() >= at
}

func (d *DynamodbDataStore[T]) decode(item map[string]types.AttributeValue) (*T, error) {
	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// GetOne retrieves the entity stored under id.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, id string) (*T, error) {
	out, err := d.api.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(d.table),
		Key:       d.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil || d.expired(out.Item) {
		return nil, errors.NewNotFoundError(d.typeName, id)
	}
	return d.decode(out.Item)
}

// Put stores entity under id, replacing any previous item.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, id string, entity T) error {
	if id == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}
	for k, v := range d.key(id) {
		av[k] = v
	}
	av[attrEntityType] = &types.AttributeValueMemberS{Value: d.typeName}
	if d.settings.TimeToLive > 0 {
		expiresAt := d.now().Add(d.settings.TimeToLive).Unix()
		av[attrExpiresAt] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)}
	}

	if _, err := d.api.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.log.Debug().Str("id", id).Msg("item stored")
	return nil
}

// Delete removes the entity stored under id.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, id string) error {
	_, err := d.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           aws.String(d.table),
		Key:                 d.key(id),
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewNotFoundError(d.typeName, id)
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// Contains reports whether a live item is stored under id.
func (d *DynamodbDataStore[T]) Contains(ctx context.Context, id string) (bool, error) {
	out, err := d.api.GetItem(ctx, &sdk.GetItemInput{
		TableName:            aws.String(d.table),
		Key:                  d.key(id),
		ProjectionExpression: aws.String("SK, ExpiresAt"),
	})
	if err != nil {
		return false, fmt.Errorf("GetItem error: %w", err)
	}
	return out.Item != nil && !d.expired(out.Item), nil
}

// Count returns the number of live items in the keyspace.
func (d *DynamodbDataStore[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := d.eachPage(ctx, d.keyspaceQuery(nil), func(out *sdk.QueryOutput) error {
		for _, item := range out.Items {
			if !d.expired(item) {
				total++
			}
		}
		return nil
	})
	return total, err
}

// GetAll loads every live entity of the keyspace in id order.
func (d *DynamodbDataStore[T]) GetAll(ctx context.Context) ([]T, error) {
	var results []T
	err := d.eachPage(ctx, d.keyspaceQuery(nil), func(out *sdk.QueryOutput) error {
		for _, item := range out.Items {
			if d.expired(item) {
				continue
			}
			entity, err := d.decode(item)
			if err != nil {
				return err
			}
			results = append(results, *entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// DeleteAll removes every item of the keyspace in batches.
func (d *DynamodbDataStore[T]) DeleteAll(ctx context.Context) error {
	var deleted int
	in := d.keyspaceQuery(nil)
	in.ProjectionExpression = aws.String("PK, SK")

	err := d.eachPage(ctx, in, func(out *sdk.QueryOutput) error {
		for start := 0; start < len(out.Items); start += maxBatchWrite {
			end := min(start+maxBatchWrite, len(out.Items))
			requests := make([]types.WriteRequest, 0, end-start)
			for _, item := range out.Items[start:end] {
				requests = append(requests, types.WriteRequest{
					DeleteRequest: &types.DeleteRequest{
						Key: map[string]types.AttributeValue{attrPK: item[attrPK], attrSK: item[attrSK]},
					},
				})
			}
			if err := d.batchWrite(ctx, requests); err != nil {
				return err
			}
			deleted += len(requests)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.Debug().Int("items", deleted).Msg("keyspace cleared")
	return nil
}

// batchWrite sends requests and resends unprocessed ones with backoff.
func (d *DynamodbDataStore[T]) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{d.table: requests}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	return backoff.Retry(func() error {
		out, err := d.api.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			if !isRetryableError(err) {
				return backoff.Permanent(fmt.Errorf("BatchWriteItem failed: %w", err))
			}
			return err
		}
		if len(out.UnprocessedItems[d.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		return fmt.Errorf("%d unprocessed delete requests", len(pending[d.table]))
	}, b)
}

// keyspaceQuery selects the items of the keyspace, optionally only those
// whose id starts with prefix.
func (d *DynamodbDataStore[T]) keyspaceQuery(prefix *string) *sdk.QueryInput {
	cond := "PK = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: d.settings.Keyspace},
	}
	if prefix != nil && *prefix != "" {
		cond += " AND begins_with(SK, :prefix)"
		values[":prefix"] = &types.AttributeValueMemberS{Value: *prefix}
	}
	return &sdk.QueryInput{
		TableName:                 aws.String(d.table),
		KeyConditionExpression:    aws.String(cond),
		ExpressionAttributeValues: values,
	}
}

func (d *DynamodbDataStore[T]) eachPage(ctx context.Context, in *sdk.QueryInput, fn func(*sdk.QueryOutput) error) error {
	for {
		out, err := d.api.Query(ctx, in)
		if err != nil {
			return fmt.Errorf("Query error: %w", err)
		}
		if err := fn(out); err != nil {
			return err
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
