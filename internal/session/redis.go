package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// RedisStore keeps carts server-side keyed by a session id; only the id
// travels in the cookie. This lifts the ~4KB cookie bound on cart size.
type RedisStore struct {
	client *redis.Client
	secure bool
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, secure bool) *RedisStore {
	return &RedisStore{
		client: client,
		secure: secure,
		ttl:    time.Duration(cartCookieMaxAge) * time.Second,
	}
}

func (s *RedisStore) Load(r *http.Request) (domain.Cart, error) {
	sid := sessionID(r)
	if sid == "" {
		return domain.Cart{}, nil
	}

	data, err := s.client.Get(r.Context(), cartKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

func (s *RedisStore) Save(w http.ResponseWriter, r *http.Request, cart domain.Cart) error {
	sid := sessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		http.SetCookie(w, newCookie(sessionCookieName, sid, sessionCookieMaxAge, s.secure))
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(r.Context(), cartKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(_ http.ResponseWriter, r *http.Request) error {
	sid := sessionID(r)
	if sid == "" {
		return nil
	}
	if err := s.client.Del(r.Context(), cartKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func cartKey(sid string) string {
	return fmt.Sprintf("cart:%s", sid)
}
