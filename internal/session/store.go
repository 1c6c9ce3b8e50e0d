// Package session persists the per-browser cart across requests. The cart
// travels either inside a signed cookie (CookieStore, no server state) or in
// Redis keyed by a session id that itself rides in a signed cookie
// (RedisStore). Handlers only see the Store interface.
package session

import (
	"errors"
	"net/http"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// Store loads and saves the cart attached to a request's session.
// Load returns an empty cart when the session has none; it never fails the
// request for a missing or corrupt cookie, only for backend errors.
type Store interface {
	Load(r *http.Request) (domain.Cart, error)
	Save(w http.ResponseWriter, r *http.Request, cart domain.Cart) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

var (
	// ErrCartTooLarge is returned by CookieStore when the encoded cart
	// exceeds what fits in a cookie. Callers should move the session to a
	// server-side store instead of silently truncating.
	ErrCartTooLarge = errors.New("encoded cart exceeds cookie size limit")

	errBadSignature = errors.New("cookie signature mismatch")
)

const (
	cartCookieName    = "__kaak_cart"
	sessionCookieName = "__kaak_session"

	cartCookieMaxAge    = 7 * 24 * 60 * 60  // 7 days
	sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

	// Browsers cap cookies around 4KB; leave headroom for name and attributes.
	maxCookieValueLen = 4000
)

func newCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
