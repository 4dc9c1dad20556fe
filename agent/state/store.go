package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	ErrNilStore     = errors.New("state store is nil")
	ErrEmptyKey     = errors.New("record key is empty")
	ErrEmptyTable   = errors.New("table name is empty")
	ErrItemNotFound = errors.New("item not found")
)

// sentinelBucket is the fixed createdAt value the current wiring uses:
// effectively one live profile/history/cart slot per user.
const sentinelBucket = "now"

// Store is the persistence contract the orchestrator and skills consume.
// All three record kinds follow load-full, mutate in memory, write-full-back;
// the later writer wins.
type Store interface {
	UserProfile(ctx context.Context, userID string) (map[string]any, error)
	ChatHistory(ctx context.Context, chatID string) ([]Turn, error)
	PutChatHistory(ctx context.Context, chatID string, history []Turn) error
	Wishlist(ctx context.Context, userID string) ([]WishlistItem, error)
	PutWishlist(ctx context.Context, userID string, items []WishlistItem) error
}

// dynamoAPI is the minimal DynamoDB surface required by DynamoStore.
// *dynamodb.Client satisfies it; tests supply fakes.
type dynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Tables names the three backing tables.
type Tables struct {
	User     string `envconfig:"USER_TABLE" split_words:"true" required:"true"`
	Chat     string `envconfig:"CHAT_TABLE" split_words:"true" required:"true"`
	Wishlist string `envconfig:"WISHLIST_TABLE" split_words:"true" required:"true"`
}

func (t Tables) Validate() error {
	if strings.TrimSpace(t.User) == "" || strings.TrimSpace(t.Chat) == "" || strings.TrimSpace(t.Wishlist) == "" {
		return ErrEmptyTable
	}
	return nil
}

// DynamoStore persists profile, chat history, and wishlist records in
// DynamoDB, each keyed (id, createdAt) with the sentinel bucket.
type DynamoStore struct {
	api    dynamoAPI
	tables Tables
	now    func() time.Time
}

func NewDynamoStore(api dynamoAPI, tables Tables) (*DynamoStore, error) {
	if api == nil {
		return nil, ErrNilStore
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &DynamoStore{api: api, tables: tables, now: time.Now}, nil
}

type chatRecord struct {
	ID              string `dynamodbav:"id"`
	CreatedAt       string `dynamodbav:"createdAt"`
	History         []Turn `dynamodbav:"history"`
	LatestTimestamp string `dynamodbav:"latest_timestamp"`
}

type wishlistRecord struct {
	ID              string         `dynamodbav:"id"`
	CreatedAt       string         `dynamodbav:"createdAt"`
	Wishlist        []WishlistItem `dynamodbav:"wishlist"`
	LatestTimestamp string         `dynamodbav:"latest_timestamp"`
}

func (s *DynamoStore) UserProfile(ctx context.Context, userID string) (map[string]any, error) {
	item, err := s.getItem(ctx, s.tables.User, userID)
	if err != nil {
		return nil, err
	}
	var profile map[string]any
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("state: unmarshal user profile: %w", err)
	}
	return profile, nil
}

func (s *DynamoStore) ChatHistory(ctx context.Context, chatID string) ([]Turn, error) {
	item, err := s.getItem(ctx, s.tables.Chat, chatID)
	if err != nil {
		return nil, err
	}
	var rec chatRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("state: unmarshal chat history: %w", err)
	}
	return rec.History, nil
}

func (s *DynamoStore) PutChatHistory(ctx context.Context, chatID string, history []Turn) error {
	if strings.TrimSpace(chatID) == "" {
		return ErrEmptyKey
	}
	rec := chatRecord{
		ID:              chatID,
		CreatedAt:       sentinelBucket,
		History:         history,
		LatestTimestamp: fmt.Sprintf("%d", s.now().Unix()),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("state: marshal chat history: %w", err)
	}
	return s.putItem(ctx, s.tables.Chat, item)
}

func (s *DynamoStore) Wishlist(ctx context.Context, userID string) ([]WishlistItem, error) {
	item, err := s.getItem(ctx, s.tables.Wishlist, userID)
	if err != nil {
		return nil, err
	}
	var rec wishlistRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("state: unmarshal wishlist: %w", err)
	}
	return rec.Wishlist, nil
}

func (s *DynamoStore) PutWishlist(ctx context.Context, userID string, items []WishlistItem) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyKey
	}
	rec := wishlistRecord{
		ID:              userID,
		CreatedAt:       sentinelBucket,
		Wishlist:        items,
		LatestTimestamp: fmt.Sprintf("%d", s.now().Unix()),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("state: marshal wishlist: %w", err)
	}
	return s.putItem(ctx, s.tables.Wishlist, item)
}

func (s *DynamoStore) getItem(ctx context.Context, table, id string) (map[string]types.AttributeValue, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyKey
	}
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id":        &types.AttributeValueMemberS{Value: id},
			"createdAt": &types.AttributeValueMemberS{Value: sentinelBucket},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("state: get item table=%s: %w", table, err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, ErrItemNotFound
	}
	return out.Item, nil
}

func (s *DynamoStore) putItem(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("state: put item table=%s: %w", table, err)
	}
	return nil
}
