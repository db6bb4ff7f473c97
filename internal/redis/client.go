package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCacheMiss       = errors.New("cache miss")
)

type Client struct {
	rdb *redis.Client
}

// SessionData is what the API keeps per signed-in token.
type SessionData struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Session management
func (c *Client) SetSession(sessionID string, data *SessionData, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+sessionID, jsonData, ttl).Err()
}

func (c *Client) GetSession(sessionID string) (*SessionData, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(sessionID string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+sessionID).Err()
}

// OCR text cache, keyed by the image hash
func (c *Client) SetOCRText(imageHash, text string, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "ocr:"+imageHash, text, ttl).Err()
}

func (c *Client) GetOCRText(imageHash string) (string, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "ocr:"+imageHash).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get ocr text: %w", err)
	}
	return val, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
