package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// minSecretLength is the minimum secret length.
	minSecretLength = 32

	signInfo    = "highnoon/cookie/sign"
	encryptInfo = "highnoon/cookie/encrypt"
)

// HeaderWriter receives Set-Cookie headers. http.ResponseWriter and
// *handler.Response both implement it.
type HeaderWriter interface {
	Header() http.Header
}

// Source provides request cookies. *http.Request and *handler.Request both
// implement it.
type Source interface {
	Cookie(name string) (*http.Cookie, error)
}

type keySet struct {
	sign    []byte
	encrypt []byte
}

// Manager reads and writes plain, signed and encrypted cookies.
//
// Secrets are ordered: the first one signs and encrypts, all of them are
// tried when verifying or decrypting, so old secrets can be kept around while
// rotating. Signing and encryption keys are derived from each secret with HKDF.
type Manager struct {
	keys     []keySet
	defaults Options
	maxSize  int
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// New creates a new cookie manager with the specified secrets and default
// cookie options.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([]keySet, 0, len(secrets))
	for i, secret := range secrets {
		if len(secret) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(secret), minSecretLength)
		}
		ks, err := deriveKeys(secret)
		if err != nil {
			return nil, err
		}
		keys = append(keys, ks)
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{keys: keys, defaults: defaults, maxSize: MaxCookieSize}, nil
}

// NewWithOptions creates a new cookie manager with additional manager options.
func NewWithOptions(secrets []string, cookieOpts []Option, managerOpts ...ManagerOption) (*Manager, error) {
	m, err := New(secrets, cookieOpts...)
	if err != nil {
		return nil, err
	}
	for _, opt := range managerOpts {
		opt(m)
	}
	return m, nil
}

func deriveKeys(secret string) (keySet, error) {
	var ks keySet
	for _, k := range []struct {
		info string
		dst  *[]byte
	}{
		{signInfo, &ks.sign},
		{encryptInfo, &ks.encrypt},
	} {
		key := make([]byte, 32)
		if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(k.info)), key); err != nil {
			return keySet{}, fmt.Errorf("derive cookie key: %w", err)
		}
		*k.dst = key
	}
	return ks, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w HeaderWriter, name, value string, opts ...Option) error {
	o := applyOptions(m.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}

	header := c.String()
	if header == "" {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(header) > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: len(header), Max: m.maxSize}
	}

	w.Header().Add("Set-Cookie", header)
	return nil
}

// Get returns the raw value of a cookie.
func (m *Manager) Get(r Source, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie on the client.
func (m *Manager) Delete(w HeaderWriter, name string) {
	c := &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	}
	if v := c.String(); v != "" {
		w.Header().Add("Set-Cookie", v)
	}
}

// SetSigned writes a cookie whose value can be read by the client but not
// altered. The signature covers the cookie name, so a signed value cannot be
// replayed under another name.
func (m *Manager) SetSigned(w HeaderWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(name, value), opts...)
}

// GetSigned reads and verifies a signed cookie.
func (m *Manager) GetSigned(r Source, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(name, signed)
}

// SetEncrypted writes a cookie whose value is hidden from the client (AES-256-GCM).
func (m *Manager) SetEncrypted(w HeaderWriter, name, value string, opts ...Option) error {
	encrypted, err := m.encrypt(name, value)
	if err != nil {
		return err
	}
	return m.Set(w, name, encrypted, opts...)
}

// GetEncrypted reads and decrypts an encrypted cookie.
func (m *Manager) GetEncrypted(r Source, name string) (string, error) {
	encrypted, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decrypt(name, encrypted)
}

func mac(key []byte, name, value string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return h.Sum(nil)
}

func (m *Manager) sign(name, value string) string {
	sig := mac(m.keys[0].sign, name, value)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "|" + base64.RawURLEncoding.EncodeToString(sig)
}

func (m *Manager) verify(name, signed string) (string, error) {
	encodedValue, encodedSig, found := strings.Cut(signed, "|")
	if !found {
		return "", ErrInvalidFormat
	}

	value, err := base64.RawURLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, ks := range m.keys {
		if hmac.Equal(sig, mac(ks.sign, name, string(value))) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) encrypt(name, value string) (string, error) {
	gcm, err := newGCM(m.keys[0].encrypt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// the name is authenticated as additional data
	ciphertext := gcm.Seal(nonce, nonce, []byte(value), []byte(name))
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (m *Manager) decrypt(name, encrypted string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, ks := range m.keys {
		gcm, err := newGCM(ks.encrypt)
		if err != nil {
			return "", err
		}
		if len(data) < gcm.NonceSize() {
			return "", ErrInvalidFormat
		}
		nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(name)); err == nil {
			return string(plaintext), nil
		}
	}
	return "", ErrDecryptionFailed
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
