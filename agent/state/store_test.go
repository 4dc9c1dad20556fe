package state

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	items   map[string]map[string]types.AttributeValue
	getErr  error
	putErr  error
	lastPut *dynamodb.PutItemInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) key(table string, in map[string]types.AttributeValue) string {
	id := ""
	if v, ok := in["id"].(*types.AttributeValueMemberS); ok {
		id = v.Value
	}
	return table + "/" + id
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	item := f.items[f.key(*in.TableName, in.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.lastPut = in
	f.items[f.key(*in.TableName, in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func testTables() Tables {
	return Tables{User: "user-table", Chat: "chat-table", Wishlist: "wishlist-table"}
}

func TestNewDynamoStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewDynamoStore(nil, testTables()); !errors.Is(err, ErrNilStore) {
		t.Fatalf("NewDynamoStore(nil) error = %v, want ErrNilStore", err)
	}
	if _, err := NewDynamoStore(newFakeDynamo(), Tables{}); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("NewDynamoStore(empty tables) error = %v, want ErrEmptyTable", err)
	}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	api := newFakeDynamo()
	store, err := NewDynamoStore(api, testTables())
	if err != nil {
		t.Fatalf("NewDynamoStore() error = %v", err)
	}

	history := []Turn{
		{Speaker: "user", Text: "hi", Time: 100},
		{Speaker: "bot", Text: "hello", Time: 100},
	}
	if err := store.PutChatHistory(context.Background(), "1", history); err != nil {
		t.Fatalf("PutChatHistory() error = %v", err)
	}

	got, err := store.ChatHistory(context.Background(), "1")
	if err != nil {
		t.Fatalf("ChatHistory() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != "hi" || got[1].Speaker != "bot" {
		t.Fatalf("ChatHistory() = %v, want stored turns", got)
	}
}

func TestChatHistoryNotFound(t *testing.T) {
	t.Parallel()

	store, err := NewDynamoStore(newFakeDynamo(), testTables())
	if err != nil {
		t.Fatalf("NewDynamoStore() error = %v", err)
	}

	if _, err := store.ChatHistory(context.Background(), "1"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("ChatHistory() error = %v, want ErrItemNotFound", err)
	}
}

func TestWishlistRecordShape(t *testing.T) {
	t.Parallel()

	api := newFakeDynamo()
	store, err := NewDynamoStore(api, testTables())
	if err != nil {
		t.Fatalf("NewDynamoStore() error = %v", err)
	}

	items := []WishlistItem{{ASIN: "B07Y2FY2C6", Qty: 1, Title: "Chocolate truffles", Price: "10.99"}}
	if err := store.PutWishlist(context.Background(), "user-1", items); err != nil {
		t.Fatalf("PutWishlist() error = %v", err)
	}

	var rec wishlistRecord
	if err := attributevalue.UnmarshalMap(api.lastPut.Item, &rec); err != nil {
		t.Fatalf("UnmarshalMap() error = %v", err)
	}
	if rec.ID != "user-1" || rec.CreatedAt != sentinelBucket {
		t.Fatalf("record key = (%s, %s), want (user-1, %s)", rec.ID, rec.CreatedAt, sentinelBucket)
	}
	if rec.LatestTimestamp == "" {
		t.Fatalf("latest_timestamp is empty")
	}

	got, err := store.Wishlist(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Wishlist() error = %v", err)
	}
	if len(got) != 1 || got[0].ASIN != "B07Y2FY2C6" {
		t.Fatalf("Wishlist() = %v, want stored items", got)
	}
}

func TestPutWishlistEmptyKey(t *testing.T) {
	t.Parallel()

	store, err := NewDynamoStore(newFakeDynamo(), testTables())
	if err != nil {
		t.Fatalf("NewDynamoStore() error = %v", err)
	}
	if err := store.PutWishlist(context.Background(), "  ", nil); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("PutWishlist() error = %v, want ErrEmptyKey", err)
	}
}
