// Package jwt issues and verifies the signed invite links used by
// create-and-connect. An invite names the inviting user as its subject.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer        = "connect3"
	invitePurpose = "invite"
)

var (
	// ErrInvitesDisabled is returned when no signing secret is configured.
	ErrInvitesDisabled = errors.New("invites are disabled")
	// ErrInvalidInvite covers malformed, forged, and expired invite tokens.
	ErrInvalidInvite = errors.New("invalid invite token")
)

// InviteClaims are the claims carried by an invite token.
type InviteClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs invite tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. An empty secret disables invites.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled reports whether a signing secret is configured.
func (i *Issuer) Enabled() bool {
	return i != nil && len(i.secret) > 0
}

// GenerateInviteToken creates a new invite for inviterID.
func (i *Issuer) GenerateInviteToken(inviterID string) (string, time.Time, error) {
	if !i.Enabled() {
		return "", time.Time{}, ErrInvitesDisabled
	}

	now := i.now()
	expiresAt := now.Add(i.ttl).Truncate(time.Second)
	claims := InviteClaims{
		Purpose: invitePurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   inviterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing invite: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseInviteToken verifies token and returns the inviter's user ID.
func (i *Issuer) ParseInviteToken(token string) (string, error) {
	if !i.Enabled() {
		return "", ErrInvitesDisabled
	}

	var claims InviteClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInvite, err)
	}
	if claims.Purpose != invitePurpose || claims.Subject == "" {
		return "", ErrInvalidInvite
	}
	return claims.Subject, nil
}
