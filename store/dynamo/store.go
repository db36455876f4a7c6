// Package dynamo looks up domain objects stored in DynamoDB tables.
//
// Items are decoded with attributevalue.UnmarshalMap, so struct fields use
// `dynamodbav` tags. Items carrying an expired TTL attribute are soft
// deleted and reported as store.ErrNotFound.
package dynamo

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gorm.io/gorm/schema"

	"github.com/jacentio/hydrator/store"
)

// Client is the subset of the DynamoDB API the Store uses.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Tabler is implemented by domain types that name their own table.
type Tabler interface {
	TableName() string
}

// Key represents a DynamoDB primary key.
type Key map[string]types.AttributeValue

// QueryInput selects items of one type. Placeholders in the expressions
// are bound through the two attribute maps; #ttl and :now are reserved.
type QueryInput struct {
	IndexName              string
	KeyConditionExpression string

	// FilterExpression is combined with TTLFilterExpr, so soft deleted
	// items never reach the caller.
	FilterExpression string

	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]types.AttributeValue

	// Limit is the page size; 0 leaves it to the service.
	Limit int32
}

// Store implements store.Finder on DynamoDB.
type Store struct {
	client Client
	config Config
	namer  schema.NamingStrategy
	now    func() time.Time
}

var _ store.Finder = (*Store)(nil)

// New creates a new Store instance.
func New(client Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
		now:    time.Now,
	}
}

// NewFromConfig creates a Store with a client built from the default AWS
// configuration chain (environment, shared config, instance role).
func NewFromConfig(ctx context.Context, cfg Config, optFns ...func(*config.LoadOptions) error) (*Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(dynamodb.NewFromConfig(awsCfg), cfg), nil
}

// TableName returns the table holding objects of type t.
func (s *Store) TableName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if tabler, ok := reflect.New(t).Interface().(Tabler); ok {
		return tabler.TableName()
	}
	if name, ok := s.config.Tables[t.Name()]; ok {
		return name
	}
	return s.config.TablePrefix + s.namer.TableName(t.Name())
}

// Find implements store.Finder. Identifier keys are used as attribute names.
func (s *Store) Find(ctx context.Context, t reflect.Type, id store.Identifier) (any, error) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a pointer to struct", store.ErrInvalidIdentifier, t)
	}
	if len(id) == 0 {
		return nil, store.ErrNotFound
	}
	key, err := attributevalue.MarshalMap(map[string]any(id))
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	item, err := s.Get(ctx, s.TableName(t), key)
	if err != nil {
		return nil, err
	}
	obj := reflect.New(t.Elem()).Interface()
	if err := attributevalue.UnmarshalMap(item, obj); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", t.Elem().Name(), err)
	}
	return obj, nil
}

// Get reads the raw item at key. Missing and soft deleted items are
// store.ErrNotFound.
func (s *Store) Get(ctx context.Context, table string, key Key) (map[string]types.AttributeValue, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key,
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, store.ErrNotFound
	}

	if isDeletedAt(result.Item, s.config.TTLAttribute, s.now()) {
		return nil, store.ErrNotFound
	}
	return result.Item, nil
}

// Query reads every page matching input from the table of t and decodes
// each item into a new instance of t. Expired items are filtered out.
func (s *Store) Query(ctx context.Context, t reflect.Type, input QueryInput) ([]any, error) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a pointer to struct", store.ErrInvalidIdentifier, t)
	}

	var out []any
	pages := dynamodb.NewQueryPaginator(s.client, s.queryRequest(t, input))
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", s.TableName(t), err)
		}
		for _, item := range page.Items {
			obj := reflect.New(t.Elem()).Interface()
			if err := attributevalue.UnmarshalMap(item, obj); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", t.Elem().Name(), err)
			}
			out = append(out, obj)
		}
	}
	return out, nil
}

func (s *Store) queryRequest(t reflect.Type, input QueryInput) *dynamodb.QueryInput {
	filter := TTLFilterExpr()
	if input.FilterExpression != "" {
		filter = "(" + input.FilterExpression + ") AND (" + filter + ")"
	}

	names := map[string]string{"#ttl": s.config.TTLAttribute}
	maps.Copy(names, input.ExpressionAttributeNames)
	values := map[string]types.AttributeValue{
		":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(s.now().Unix(), 10)},
	}
	maps.Copy(values, input.ExpressionAttributeValues)

	req := &dynamodb.QueryInput{
		TableName:                 aws.String(s.TableName(t)),
		KeyConditionExpression:    aws.String(input.KeyConditionExpression),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	// Global secondary indexes reject consistent reads.
	if input.IndexName != "" {
		req.IndexName = aws.String(input.IndexName)
	} else {
		req.ConsistentRead = aws.Bool(s.config.ConsistentRead)
	}
	if input.Limit > 0 {
		req.Limit = aws.Int32(input.Limit)
	}
	return req
}
