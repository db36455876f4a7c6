package dynamo_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/hydrator/store"
	"github.com/jacentio/hydrator/store/dynamo"
)

// --- Test Entity Types ---

// Person derives its table name ("people").
type Person struct {
	ID   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
	Age  int    `dynamodbav:"age"`
}

// Studio names its own table.
type Studio struct {
	ID string `dynamodbav:"id"`
}

func (Studio) TableName() string { return "studios_v2" }

// Title is mapped explicitly through Config.Tables.
type Title struct {
	ID string `dynamodbav:"id"`
}

// --- Fake client ---

type fakeClient struct {
	items   map[string]map[string]types.AttributeValue // table#id -> item
	pages   [][]map[string]types.AttributeValue
	gets    []*dynamodb.GetItemInput
	queries []*dynamodb.QueryInput
	err     error
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.gets = append(f.gets, in)
	if f.err != nil {
		return nil, f.err
	}
	id, _ := in.Key["id"].(*types.AttributeValueMemberS)
	if id == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: f.items[aws.ToString(in.TableName)+"#"+id.Value]}, nil
}

func (f *fakeClient) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	page := len(f.queries) - 1
	out := &dynamodb.QueryOutput{Items: f.pages[page]}
	if page+1 < len(f.pages) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: fmt.Sprintf("page-%d", page)},
		}
	}
	return out, nil
}

func personItem(id, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: id},
		"name": &types.AttributeValueMemberS{Value: name},
		"age":  &types.AttributeValueMemberN{Value: "36"},
	}
}

var personType = reflect.TypeOf(&Person{})

// --- Unit Tests ---

func TestDefaultConfig(t *testing.T) {
	cfg := dynamo.DefaultConfig()

	if cfg.TTLAttribute != "ttl" {
		t.Errorf("expected TTLAttribute 'ttl', got %q", cfg.TTLAttribute)
	}
	if cfg.ConsistentRead {
		t.Error("expected eventually consistent reads by default")
	}
}

func TestIsDeleted(t *testing.T) {
	tests := []struct {
		name     string
		item     map[string]types.AttributeValue
		expected bool
	}{
		{
			name:     "no TTL attribute",
			item:     map[string]types.AttributeValue{},
			expected: false,
		},
		{
			name: "TTL in past",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: "1000000000"}, // 2001
			},
			expected: true,
		},
		{
			name: "TTL in future",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", time.Now().Unix()+3600)},
			},
			expected: false,
		},
		{
			name: "TTL not a number",
			item: map[string]types.AttributeValue{
				"ttl": &types.AttributeValueMemberS{Value: "1000000000"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dynamo.IsDeleted(tt.item)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	s := dynamo.New(&fakeClient{}, dynamo.Config{
		TablePrefix: "prod_",
		Tables:      map[string]string{"Title": "catalog_titles"},
	})

	tests := []struct {
		typ      reflect.Type
		expected string
	}{
		{reflect.TypeOf(&Person{}), "prod_people"},
		{reflect.TypeOf(Studio{}), "studios_v2"},
		{reflect.TypeOf(&Title{}), "catalog_titles"},
	}
	for _, tt := range tests {
		if got := s.TableName(tt.typ); got != tt.expected {
			t.Errorf("TableName(%v): expected %q, got %q", tt.typ, tt.expected, got)
		}
	}
}

func TestFind(t *testing.T) {
	client := &fakeClient{items: map[string]map[string]types.AttributeValue{
		"people#p1": personItem("p1", "Ada"),
	}}
	s := dynamo.New(client, dynamo.Config{ConsistentRead: true})

	got, err := s.Find(context.Background(), personType, store.Identifier{"id": "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := got.(*Person)
	if !ok {
		t.Fatalf("expected *Person, got %T", got)
	}
	if p.ID != "p1" || p.Name != "Ada" || p.Age != 36 {
		t.Errorf("unexpected person: %+v", p)
	}

	if len(client.gets) != 1 {
		t.Fatalf("expected 1 GetItem call, got %d", len(client.gets))
	}
	in := client.gets[0]
	if aws.ToString(in.TableName) != "people" {
		t.Errorf("expected table 'people', got %q", aws.ToString(in.TableName))
	}
	if !aws.ToBool(in.ConsistentRead) {
		t.Error("expected consistent read")
	}
}

func TestFind_NotFound(t *testing.T) {
	s := dynamo.New(&fakeClient{}, dynamo.DefaultConfig())

	_, err := s.Find(context.Background(), personType, store.Identifier{"id": "missing"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFind_SoftDeleted(t *testing.T) {
	item := personItem("p1", "Ada")
	item["expires"] = &types.AttributeValueMemberN{Value: "1000000000"}
	client := &fakeClient{items: map[string]map[string]types.AttributeValue{"people#p1": item}}
	s := dynamo.New(client, dynamo.Config{TTLAttribute: "expires"})

	_, err := s.Find(context.Background(), personType, store.Identifier{"id": "p1"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired item, got %v", err)
	}
}

func TestFind_EmptyIdentifier(t *testing.T) {
	client := &fakeClient{}
	s := dynamo.New(client, dynamo.DefaultConfig())

	_, err := s.Find(context.Background(), personType, store.Identifier{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(client.gets) != 0 {
		t.Errorf("expected no GetItem call, got %d", len(client.gets))
	}
}

func TestFind_InvalidType(t *testing.T) {
	s := dynamo.New(&fakeClient{}, dynamo.DefaultConfig())

	_, err := s.Find(context.Background(), reflect.TypeOf(Person{}), store.Identifier{"id": "p1"})
	if !errors.Is(err, store.ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestFind_ClientError(t *testing.T) {
	boom := errors.New("throttled")
	s := dynamo.New(&fakeClient{err: boom}, dynamo.DefaultConfig())

	_, err := s.Find(context.Background(), personType, store.Identifier{"id": "p1"})
	if !errors.Is(err, boom) {
		t.Errorf("expected client error, got %v", err)
	}
}

func TestQuery_ConsistentReadOnlyOnTable(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.ConsistentRead = true

	tests := []struct {
		name  string
		index string
		want  *bool
	}{
		{"table", "", aws.Bool(true)},
		{"index", "by-name", nil},
	}
	for _, tt := range tests {
		client := &fakeClient{pages: [][]map[string]types.AttributeValue{{personItem("p1", "Ada")}}}
		s := dynamo.New(client, cfg)

		_, err := s.Query(context.Background(), personType, dynamo.QueryInput{
			IndexName:              tt.index,
			KeyConditionExpression: "name = :name",
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		in := client.queries[0]
		if aws.ToString(in.IndexName) != tt.index {
			t.Errorf("%s: IndexName = %q, want %q", tt.name, aws.ToString(in.IndexName), tt.index)
		}
		if (in.ConsistentRead == nil) != (tt.want == nil) || (tt.want != nil && *in.ConsistentRead != *tt.want) {
			t.Errorf("%s: ConsistentRead = %v, want %v", tt.name, in.ConsistentRead, tt.want)
		}
	}
}

func TestQuery_PaginatesAndFiltersTTL(t *testing.T) {
	client := &fakeClient{pages: [][]map[string]types.AttributeValue{
		{personItem("p1", "Ada")},
		{personItem("p2", "Grace")},
	}}
	s := dynamo.New(client, dynamo.DefaultConfig())

	got, err := s.Query(context.Background(), personType, dynamo.QueryInput{
		KeyConditionExpression: "id = :id",
		FilterExpression:       "age > :age",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":  &types.AttributeValueMemberS{Value: "p1"},
			":age": &types.AttributeValueMemberN{Value: "18"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[1].(*Person).Name != "Grace" {
		t.Errorf("expected second result Grace, got %+v", got[1])
	}

	if len(client.queries) != 2 {
		t.Fatalf("expected 2 Query calls, got %d", len(client.queries))
	}
	in := client.queries[0]
	filter := aws.ToString(in.FilterExpression)
	if !strings.Contains(filter, "age > :age") || !strings.Contains(filter, dynamo.TTLFilterExpr()) {
		t.Errorf("expected merged filter, got %q", filter)
	}
	if in.ExpressionAttributeNames["#ttl"] != "ttl" {
		t.Errorf("expected #ttl placeholder, got %v", in.ExpressionAttributeNames)
	}
	if _, ok := in.ExpressionAttributeValues[":now"]; !ok {
		t.Error("expected :now placeholder")
	}
	if _, ok := in.ExpressionAttributeValues[":age"]; !ok {
		t.Error("expected caller placeholders to be kept")
	}
}
