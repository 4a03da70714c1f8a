package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/response"
	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader is the header name for the idempotency key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotencyKeyPrefix is the Redis key prefix
	IdempotencyKeyPrefix = "idempotency:"
	// DefaultIdempotencyTTL covers completed records
	DefaultIdempotencyTTL = 24 * time.Hour
	// DefaultProcessingTTL covers in-flight records so a crashed request
	// does not block retries forever
	DefaultProcessingTTL = 60 * time.Second
)

// IdempotencyStatus represents the state of an idempotency record
type IdempotencyStatus string

const (
	StatusProcessing IdempotencyStatus = "processing"
	StatusCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord stores the state of an idempotent request
type IdempotencyRecord struct {
	Key          string            `json:"key"`
	Status       IdempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code"`
	ResponseBody string            `json:"response_body"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// RedisClient is the subset of redis operations the middleware needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Redis         RedisClient
	TTL           time.Duration
	ProcessingTTL time.Duration
}

// Idempotency deduplicates retried requests by the X-Idempotency-Key
// header. The key is OPTIONAL: the enrollment commit already dedupes on
// the selection id inside the database, so clients without the header
// still get exactly-once semantics there. Redis unavailability fails
// open; the request proceeds without caching.
func Idempotency(config *IdempotencyConfig) gin.HandlerFunc {
	if config.TTL == 0 {
		config.TTL = DefaultIdempotencyTTL
	}
	if config.ProcessingTTL == 0 {
		config.ProcessingTTL = DefaultProcessingTTL
	}

	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		requestHash := hashRequest(c, bodyBytes)
		redisKey := IdempotencyKeyPrefix + idempotencyKey
		ctx := c.Request.Context()

		existing, err := getIdempotencyRecord(ctx, config.Redis, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		if existing != nil {
			if existing.RequestHash != requestHash {
				response.AbortError(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED", "idempotency key already used with a different request")
				return
			}
			if existing.Status == StatusProcessing {
				response.AbortError(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "a request with this idempotency key is already being processed")
				return
			}
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		record := &IdempotencyRecord{
			Key:         idempotencyKey,
			Status:      StatusProcessing,
			RequestHash: requestHash,
			CreatedAt:   time.Now(),
		}

		if !trySetIdempotencyRecord(ctx, config.Redis, redisKey, record, config.ProcessingTTL) {
			existing, _ = getIdempotencyRecord(ctx, config.Redis, redisKey)
			if existing != nil {
				if existing.Status == StatusProcessing {
					response.AbortError(c, http.StatusConflict, "REQUEST_IN_PROGRESS", "a request with this idempotency key is already being processed")
					return
				}
				c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
		}

		rw := &idempotencyResponseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = rw

		c.Next()

		// Only successful outcomes are cached. A failed response (gateway
		// down, validation error) must stay retryable under the same key;
		// the database dedupe still guards any commit that did land.
		if rw.status < http.StatusOK || rw.status >= http.StatusMultipleChoices {
			config.Redis.Del(ctx, redisKey)
			return
		}

		now := time.Now()
		record.Status = StatusCompleted
		record.ResponseCode = rw.status
		record.ResponseBody = rw.body.String()
		record.CompletedAt = &now

		saveIdempotencyRecord(ctx, config.Redis, redisKey, record, config.TTL)
	}
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *idempotencyResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func hashRequest(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	if email, ok := GetEmail(c); ok {
		h.Write([]byte(email))
	}
	if len(body) > 0 {
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func getIdempotencyRecord(ctx context.Context, rdb RedisClient, key string) (*IdempotencyRecord, error) {
	result, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var record IdempotencyRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func trySetIdempotencyRecord(ctx context.Context, rdb RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) bool {
	data, err := json.Marshal(record)
	if err != nil {
		return false
	}
	ok, err := rdb.SetNX(ctx, key, string(data), ttl).Result()
	if err != nil {
		return false
	}
	return ok
}

func saveIdempotencyRecord(ctx context.Context, rdb RedisClient, key string, record *IdempotencyRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, string(data), ttl).Err()
}
