package azauth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TenantMismatchError is returned when a token was issued by a tenant other
// than the configured one.
type TenantMismatchError struct {
	ConfigTenant   string
	JWTTenantClaim string
}

func (e *TenantMismatchError) Error() string {
	return fmt.Sprintf(
		"token 'tid' claim (%s) does not match the configured tenant (%s); the credential belongs to a different Azure AD tenant",
		e.JWTTenantClaim, e.ConfigTenant,
	)
}

func isTenantMismatch(err error) bool {
	var mismatch *TenantMismatchError
	return errors.As(err, &mismatch)
}

// VerifyTenant checks the tid claim of rawToken against tenantID and returns
// the tenant the token belongs to. An empty tenantID accepts any tenant.
// Tokens that cannot be decoded are accepted with tenantID unchanged; ARM
// still validates them.
func VerifyTenant(rawToken, tenantID string) (string, error) {
	claims, err := decodeJWTClaims(rawToken)
	if err != nil {
		return tenantID, nil
	}
	tid, _ := claims["tid"].(string)
	if tid == "" {
		return tenantID, nil
	}
	if tenantID != "" && !strings.EqualFold(tid, tenantID) {
		return "", &TenantMismatchError{ConfigTenant: tenantID, JWTTenantClaim: tid}
	}
	return tid, nil
}

// jwtClaims is a minimal set of claims from an Azure AD access token.
type jwtClaims map[string]any

// decodeJWTClaims decodes the payload of a JWT without verifying the signature.
func decodeJWTClaims(rawToken string) (jwtClaims, error) {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 parts, got %d", len(parts))
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decoding JWT payload: %w", err)
	}

	var claims jwtClaims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, fmt.Errorf("parsing JWT claims: %w", err)
	}
	return claims, nil
}
