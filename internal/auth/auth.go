package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	issuer            = "storefront-delivery-service"
	minPasswordLength = 8
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAdminDisabled      = errors.New("admin login is not configured")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidEmail       = errors.New("invalid email address")
)

type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret      []byte
	adminTTL    time.Duration
	customerTTL time.Duration
	now         func() time.Time
}

func NewIssuer(secret string, adminTTL, customerTTL time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret is empty")
	}
	return &Issuer{
		secret:      []byte(secret),
		adminTTL:    adminTTL,
		customerTTL: customerTTL,
		now:         time.Now,
	}, nil
}

func (i *Issuer) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := i.now()
	claims.Issuer = issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

func (i *Issuer) IssueAdmin(username string) (string, error) {
	return i.sign(&Claims{Role: RoleAdmin, Username: username, RegisteredClaims: jwt.RegisteredClaims{Subject: username}}, i.adminTTL)
}

// IssueCustomer returns a token for a customer identified by email.
func (i *Issuer) IssueCustomer(email, name string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	email = strings.ToLower(addr.Address)
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return i.sign(&Claims{Role: RoleCustomer, Email: email, Name: name, RegisteredClaims: jwt.RegisteredClaims{Subject: email}}, i.customerTTL)
}

// Parse validates the token signature and expiry and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin && claims.Role != RoleCustomer {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return claims, nil
}

// AdminAccount is the single storefront administrator.
type AdminAccount struct {
	mu       sync.RWMutex
	username string
	hash     []byte
}

// NewAdminAccount hashes password with bcrypt. An empty password leaves the
// account disabled.
func NewAdminAccount(username, password string) (*AdminAccount, error) {
	a := &AdminAccount{username: username}
	if password == "" {
		return a, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash admin password: %w", err)
	}
	a.hash = hash
	return a, nil
}

func (a *AdminAccount) Username() string { return a.username }

func (a *AdminAccount) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.hash) > 0
}

func (a *AdminAccount) Authenticate(username, password string) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.checkLocked(username, password)
}

// checkLocked compares credentials; the caller holds a.mu.
func (a *AdminAccount) checkLocked(username, password string) error {
	if len(a.hash) == 0 {
		return ErrAdminDisabled
	}
	if username != a.username {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ChangePassword swaps the hash only if current still matches. The check
// and the swap happen under one write lock.
func (a *AdminAccount) ChangePassword(current, next string) error {
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash admin password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkLocked(a.username, current); err != nil {
		return err
	}
	a.hash = hash
	return nil
}
