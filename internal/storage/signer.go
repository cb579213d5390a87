package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"tea-registry/internal/domain"
)

var (
	// ErrBadSignature covers a signature that does not verify.
	ErrBadSignature = errors.New("invalid signature")
	// ErrExpired covers a URL past its validity window.
	ErrExpired = errors.New("signed url expired")
)

// URLSigner mints and verifies time-limited URLs for private objects. An
// expired or tampered URL must fail the fetch; it never serves stale content.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *URLSigner) mac(bucket domain.DocumentKind, path string, expires int64) string {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s\n%s\n%d", bucket, path, expires)
	return hex.EncodeToString(h.Sum(nil))
}

// SignedURL returns a relative URL for the object, valid for the configured
// window.
func (s *URLSigner) SignedURL(bucket domain.DocumentKind, path string) string {
	expires := s.now().Add(s.ttl).Unix()
	return fmt.Sprintf("/storage/%s/%s?expires=%d&sig=%s",
		url.PathEscape(string(bucket)),
		escapePath(path),
		expires,
		s.mac(bucket, path, expires))
}

// Verify checks signature and expiry for a fetch request.
func (s *URLSigner) Verify(bucket domain.DocumentKind, path, expiresStr, sig string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	expected := s.mac(bucket, path, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > expires {
		return ErrExpired
	}
	return nil
}

// escapePath escapes each segment but keeps the separators.
func escapePath(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}
