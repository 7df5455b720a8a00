// Package storage is a thin client over the single shared DynamoDB table that
// backs every record category (sessions, orders, inventory, counters). Items
// are keyed by (tipo, id); everything else is schemaless and marshaled with
// attributevalue.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/luislem95/api-gestor-pedidos/internal/awsx"
)

const (
	attrCategory = "tipo"
	attrID       = "id"
	attrOwner    = "user_id"
	attrDate     = "fecha"
)

// Table wraps the shared table and its owner GSI.
type Table struct {
	client     awsx.DynamoDBAPI
	name       string
	ownerIndex string
}

func NewTable(client awsx.DynamoDBAPI, name, ownerIndex string) *Table {
	return &Table{
		client:     client,
		name:       name,
		ownerIndex: ownerIndex,
	}
}

func (t *Table) key(category, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrCategory: &types.AttributeValueMemberS{Value: category},
		attrID:       &types.AttributeValueMemberS{Value: id},
	}
}

// Get fetches the record at (category, id) into out. Returns ErrNotFound if
// the key is absent.
func (t *Table) Get(ctx context.Context, category, id string, out interface{}) error {
	res, err := t.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &t.name,
		Key:       t.key(category, id),
	})
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if len(res.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	return nil
}

// Put writes the record at (category, id) unconditionally, overwriting any
// existing item.
func (t *Table) Put(ctx context.Context, category, id string, item interface{}) error {
	return t.put(ctx, category, id, item, false)
}

// Insert writes the record only if no item exists at (category, id). Returns
// ErrConditionFailed when the key is already taken.
func (t *Table) Insert(ctx context.Context, category, id string, item interface{}) error {
	return t.put(ctx, category, id, item, true)
}

func (t *Table) put(ctx context.Context, category, id string, item interface{}, ifAbsent bool) error {
	m, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	m[attrCategory] = &types.AttributeValueMemberS{Value: category}
	m[attrID] = &types.AttributeValueMemberS{Value: id}

	input := &dyn.PutItemInput{
		TableName: &t.name,
		Item:      m,
	}
	if ifAbsent {
		input.ConditionExpression = awsString("attribute_not_exists(tipo) AND attribute_not_exists(id)")
	}

	if _, err := t.client.PutItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Update applies a partial SET of the given attributes, leaving everything
// else untouched, and returns the full updated item. With mustExist the write
// is guarded by attribute_exists(tipo) and an absent key surfaces as
// ErrNotFound instead of minting a new record.
func (t *Table) Update(ctx context.Context, category, id string, sets map[string]interface{}, mustExist bool) (map[string]interface{}, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("update: no attributes to set")
	}

	// deterministic placeholder order
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	expr := "SET "
	for i, k := range keys {
		av, err := attributevalue.Marshal(sets[k])
		if err != nil {
			return nil, fmt.Errorf("marshal attribute %s: %w", k, err)
		}
		n := fmt.Sprintf("#n%d", i)
		v := fmt.Sprintf(":v%d", i)
		if i > 0 {
			expr += ", "
		}
		expr += n + " = " + v
		names[n] = k
		values[v] = av
	}

	input := &dyn.UpdateItemInput{
		TableName:                 &t.name,
		Key:                       t.key(category, id),
		UpdateExpression:          &expr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if mustExist {
		input.ConditionExpression = awsString("attribute_exists(tipo)")
	}

	res, err := t.client.UpdateItem(ctx, input)
	if err != nil {
		if mustExist && isConditionalCheckFailed(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	var updated map[string]interface{}
	if err := attributevalue.UnmarshalMap(res.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("unmarshal updated attributes: %w", err)
	}
	return updated, nil
}

// Increment atomically adds delta to a numeric attribute and returns the new
// value. The item (and the attribute) are created on first use, so a fresh
// counter starts at delta.
func (t *Table) Increment(ctx context.Context, category, id, attribute string, delta int64) (int64, error) {
	res, err := t.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                &t.name,
		Key:                      t.key(category, id),
		UpdateExpression:         awsString("ADD #n :delta"),
		ExpressionAttributeNames: map[string]string{"#n": attribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", attribute, err)
	}

	n, ok := res.Attributes[attribute].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("increment %s: counter attribute missing from response", attribute)
	}
	value, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("increment %s: parse counter value: %w", attribute, err)
	}
	return value, nil
}

// Delete removes the record at (category, id). Deleting an absent key is not
// an error, matching DynamoDB semantics.
func (t *Table) Delete(ctx context.Context, category, id string) error {
	if _, err := t.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &t.name,
		Key:       t.key(category, id),
	}); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// Query returns every record in a category. An empty category unmarshals to
// an empty slice, never an error.
func (t *Table) Query(ctx context.Context, category string, out interface{}) error {
	res, err := t.client.Query(ctx, &dyn.QueryInput{
		TableName:                &t.name,
		KeyConditionExpression:   awsString("#t = :tipo"),
		ExpressionAttributeNames: map[string]string{"#t": attrCategory},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tipo": &types.AttributeValueMemberS{Value: category},
		},
	})
	if err != nil {
		return fmt.Errorf("query category %s: %w", category, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(res.Items, out); err != nil {
		return fmt.Errorf("unmarshal query result: %w", err)
	}
	return nil
}

// QueryOwner returns the records of a category tagged with the given owner,
// restricted to fecha between from and to (inclusive). Uses the owner GSI.
func (t *Table) QueryOwner(ctx context.Context, owner, category, from, to string, out interface{}) error {
	res, err := t.client.Query(ctx, &dyn.QueryInput{
		TableName:              &t.name,
		IndexName:              &t.ownerIndex,
		KeyConditionExpression: awsString("#u = :owner AND #t = :tipo"),
		FilterExpression:       awsString("#f BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#u": attrOwner,
			"#t": attrCategory,
			"#f": attrDate,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
			":tipo":  &types.AttributeValueMemberS{Value: category},
			":from":  &types.AttributeValueMemberS{Value: from},
			":to":    &types.AttributeValueMemberS{Value: to},
		},
	})
	if err != nil {
		return fmt.Errorf("query owner %s: %w", owner, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(res.Items, out); err != nil {
		return fmt.Errorf("unmarshal query result: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
