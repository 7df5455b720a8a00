package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryDynamo is an in-memory DynamoDB stand-in implementing awsx.DynamoDBAPI.
// It understands exactly the expression shapes Table emits: conditional puts,
// partial SET updates, ADD counters and category/owner queries. Used by unit
// tests and by the local development backend.
type MemoryDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func NewMemoryDynamo() *MemoryDynamo {
	return &MemoryDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
}

func (m *MemoryDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[name]; !ok {
		m.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[name]
}

func itemKey(attrs map[string]types.AttributeValue) (string, error) {
	tipo, ok := attrs[attrCategory].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing tipo attribute")
	}
	id, ok := attrs[attrID].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing id attribute")
	}
	return tipo.Value + "|" + id.Value, nil
}

// Seed inserts an item directly, bypassing expression handling.
func (m *MemoryDynamo) Seed(tableName string, item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := itemKey(item)
	if err != nil {
		panic(err)
	}
	m.table(tableName)[k] = item
}

// Item returns the raw stored item, or nil.
func (m *MemoryDynamo) Item(tableName, category, id string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table(tableName)[category+"|"+id]
}

func (m *MemoryDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(*params.TableName)[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *MemoryDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := itemKey(params.Item)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*params.TableName)
	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := tbl[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *MemoryDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*params.TableName)
	item, exists := tbl[k]

	if params.ConditionExpression != nil && strings.Contains(*params.ConditionExpression, "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		// DynamoDB upserts on update: start from the key attributes
		item = map[string]types.AttributeValue{}
		for ka, va := range params.Key {
			item[ka] = va
		}
	}

	expr := strings.TrimSpace(*params.UpdateExpression)
	switch {
	case strings.HasPrefix(expr, "ADD "):
		// "ADD #n :delta"
		parts := strings.Fields(strings.TrimPrefix(expr, "ADD "))
		if len(parts) != 2 {
			return nil, errors.New("unsupported ADD expression: " + expr)
		}
		attr := params.ExpressionAttributeNames[parts[0]]
		delta, err := numericValue(params.ExpressionAttributeValues[parts[1]])
		if err != nil {
			return nil, err
		}
		current := int64(0)
		if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
			current, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		item[attr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
	case strings.HasPrefix(expr, "SET "):
		// "SET #n0 = :v0, #n1 = :v1"
		for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
			sides := strings.SplitN(clause, "=", 2)
			if len(sides) != 2 {
				return nil, errors.New("unsupported SET clause: " + clause)
			}
			name := strings.TrimSpace(sides[0])
			value := strings.TrimSpace(sides[1])
			attr, ok := params.ExpressionAttributeNames[name]
			if !ok {
				attr = name
			}
			av, ok := params.ExpressionAttributeValues[value]
			if !ok {
				return nil, errors.New("missing expression value: " + value)
			}
			item[attr] = av
		}
	default:
		return nil, errors.New("unsupported update expression: " + expr)
	}

	tbl[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *MemoryDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := itemKey(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table(*params.TableName), k)
	return &dyn.DeleteItemOutput{}, nil
}

func (m *MemoryDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.table(*params.TableName)

	wantCategory := stringValue(params.ExpressionAttributeValues[":tipo"])
	var items []map[string]types.AttributeValue

	for _, item := range tbl {
		if stringValue(item[attrCategory]) != wantCategory {
			continue
		}
		if params.IndexName != nil {
			if stringValue(item[attrOwner]) != stringValue(params.ExpressionAttributeValues[":owner"]) {
				continue
			}
		}
		if params.FilterExpression != nil {
			fecha := stringValue(item[attrDate])
			from := stringValue(params.ExpressionAttributeValues[":from"])
			to := stringValue(params.ExpressionAttributeValues[":to"])
			if fecha < from || fecha > to {
				continue
			}
		}
		items = append(items, item)
	}

	return &dyn.QueryOutput{Items: items}, nil
}

func stringValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func numericValue(av types.AttributeValue) (int64, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("expected numeric attribute value")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}
