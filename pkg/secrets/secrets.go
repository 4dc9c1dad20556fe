// Package secrets resolves API credentials from AWS Secrets Manager at
// process start. Secret payloads are JSON objects keyed by credential name.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretsAPI is the minimal Secrets Manager surface required by Client.
// *secretsmanager.Client satisfies it.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Client wraps Secrets Manager for secret retrieval.
type Client struct {
	api secretsAPI
}

func New(api secretsAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("secrets: api must not be nil")
	}
	return &Client{api: api}, nil
}

// GetString returns the raw string payload of a secret.
func (c *Client) GetString(ctx context.Context, secretID string) (string, error) {
	secretID = strings.TrimSpace(secretID)
	if secretID == "" {
		return "", errors.New("secrets: secret id is required")
	}

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("secrets: get secret %q: %w", secretID, err)
	}
	if out == nil || out.SecretString == nil {
		return "", fmt.Errorf("secrets: secret %q has no string payload", secretID)
	}
	return *out.SecretString, nil
}

// GetJSON decodes a JSON secret payload into a string map.
func (c *Client) GetJSON(ctx context.Context, secretID string) (map[string]string, error) {
	raw, err := c.GetString(ctx, secretID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("secrets: decode secret %q: %w", secretID, err)
	}
	return values, nil
}
