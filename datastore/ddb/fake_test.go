/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory table keyed by PK and SK.
type fakeAPI struct {
	mu         sync.Mutex
	items      map[string]map[string]map[string]types.AttributeValue
	queryErrs  []error
	queryCalls int
	unprocess  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeAPI) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.items[str(in.Key[attrPK])][str(in.Key[attrSK])]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk := str(in.Item[attrPK])
	if f.items[pk] == nil {
		f.items[pk] = make(map[string]map[string]types.AttributeValue)
	}
	f.items[pk][str(in.Item[attrSK])] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pk, sk := str(in.Key[attrPK]), str(in.Key[attrSK])
	if _, ok := f.items[pk][sk]; !ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(f.items[pk], sk)
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeAPI) Query(_ context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		return nil, err
	}

	partition := f.items[str(in.ExpressionAttributeValues[":pk"])]
	prefix := str(in.ExpressionAttributeValues[":prefix"])
	after := str(in.ExclusiveStartKey[attrSK])

	sks := make([]string, 0, len(partition))
	for sk := range partition {
		if strings.HasPrefix(sk, prefix) && (after == "" || sk > after) {
			sks = append(sks, sk)
		}
	}
	sort.Strings(sks)

	out := &sdk.QueryOutput{}
	for _, sk := range sks {
		if in.Limit != nil && len(out.Items) == int(*in.Limit) {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				attrPK: in.ExpressionAttributeValues[":pk"],
				attrSK: out.Items[len(out.Items)-1][attrSK],
			}
			break
		}
		out.Items = append(out.Items, partition[sk])
	}
	return out, nil
}

func (f *fakeAPI) BatchWriteItem(_ context.Context, in *sdk.BatchWriteItemInput, _ ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &sdk.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for table, requests := range in.RequestItems {
		for _, r := range requests {
			if f.unprocess > 0 {
				f.unprocess--
				out.UnprocessedItems[table] = append(out.UnprocessedItems[table], r)
				continue
			}
			delete(f.items[str(r.DeleteRequest.Key[attrPK])], str(r.DeleteRequest.Key[attrSK]))
		}
	}
	return out, nil
}

func (f *fakeAPI) size(pk string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items[pk])
}
