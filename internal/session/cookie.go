package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// CookieStore keeps the whole cart inside a signed cookie, so the server
// holds no session state at all. The value is base64(json) + "." +
// base64(hmac-sha256). A cookie that fails verification is treated as an
// empty cart rather than an error; a tampered cart is not worth a 500.
type CookieStore struct {
	secret []byte
	secure bool
}

func NewCookieStore(secret string, secure bool) *CookieStore {
	return &CookieStore{secret: []byte(secret), secure: secure}
}

func (s *CookieStore) Load(r *http.Request) (domain.Cart, error) {
	c, err := r.Cookie(cartCookieName)
	if err != nil {
		return domain.Cart{}, nil // no cookie, empty cart
	}

	cart, decodeErr := s.decode(c.Value)
	if decodeErr != nil {
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, _ *http.Request, cart domain.Cart) error {
	value, err := s.encode(cart)
	if err != nil {
		return err
	}
	http.SetCookie(w, newCookie(cartCookieName, value, cartCookieMaxAge, s.secure))
	return nil
}

func (s *CookieStore) Clear(w http.ResponseWriter, _ *http.Request) error {
	http.SetCookie(w, newCookie(cartCookieName, "", -1, s.secure))
	return nil
}

func (s *CookieStore) encode(cart domain.Cart) (string, error) {
	payload, err := json.Marshal(cart)
	if err != nil {
		return "", fmt.Errorf("marshal cart: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	value := encoded + "." + s.sign(encoded)
	if len(value) > maxCookieValueLen {
		return "", ErrCartTooLarge
	}
	return value, nil
}

func (s *CookieStore) decode(value string) (domain.Cart, error) {
	encoded, sig, found := strings.Cut(value, ".")
	if !found {
		return domain.Cart{}, errBadSignature
	}
	if !hmac.Equal([]byte(s.sign(encoded)), []byte(sig)) {
		return domain.Cart{}, errBadSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart payload: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

func (s *CookieStore) sign(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
