// Package flash carries one-shot user messages across a redirect in a signed
// cookie.
package flash

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the flash cookie
const CookieName = "flash"

const ttl = 5 * time.Minute

type claims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// Flasher signs and verifies flash cookies with HS256
type Flasher struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// New returns a Flasher signing with secret
func New(secret string, secure bool) *Flasher {
	return &Flasher{secret: []byte(secret), secure: secure, now: time.Now}
}

// Set stores messages to be shown on the next page
func (f *Flasher) Set(w http.ResponseWriter, messages ...string) error {
	now := f.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, f.cookie(signed, int(ttl.Seconds())))
	return nil
}

// Pop returns pending messages and clears the cookie. Tampered or expired
// cookies yield no messages.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []string {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, f.cookie("", -1))

	var cl claims
	_, err = jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (any, error) {
		return f.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		return nil
	}
	return cl.Messages
}

func (f *Flasher) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
