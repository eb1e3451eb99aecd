package azauth

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCLI(t *testing.T, out string, err error) *[]string {
	t.Helper()
	var got []string
	restore := SetCLIRunner(func(_ context.Context, args ...string) ([]byte, error) {
		got = args
		return []byte(out), err
	})
	t.Cleanup(restore)
	return &got
}

func fakeToken(payload string) string {
	return "e30." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

type tokenCredential struct {
	token string
	err   error
	calls int
}

func (c *tokenCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	c.calls++
	if c.err != nil {
		return azcore.AccessToken{}, c.err
	}
	return azcore.AccessToken{Token: c.token, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// withStrategies replaces the credential chain with one strategy per cred.
func withStrategies(t *testing.T, creds ...*tokenCredential) {
	t.Helper()
	orig := strategies
	strategies = nil
	for i, c := range creds {
		c := c
		strategies = append(strategies, strategy{
			method: fmt.Sprintf("m%d", i),
			label:  fmt.Sprintf("method %d", i),
			usable: func(Options) bool { return true },
			build:  func(Options) (azcore.TokenCredential, error) { return c, nil },
		})
	}
	ResetCache()
	t.Cleanup(func() {
		strategies = orig
		ResetCache()
	})
}

func TestLogin(t *testing.T) {
	tok := fakeToken(`{"tid":"tenant-a"}`)

	t.Run("first working credential wins and is cached", func(t *testing.T) {
		broken := &tokenCredential{err: errors.New("no session")}
		good := &tokenCredential{token: tok}
		withStrategies(t, broken, good)

		var out bytes.Buffer
		c, err := Login(context.Background(), Options{Out: &out})
		require.NoError(t, err)
		assert.Equal(t, "m1", c.Method)
		assert.Equal(t, "tenant-a", c.TenantID)
		assert.Contains(t, out.String(), "Authenticated via method 1")

		_, err = Login(context.Background(), Options{TenantID: "TENANT-A", Out: &out})
		require.NoError(t, err)
		assert.Equal(t, 1, good.calls, "second login is served from the cache")
	})

	t.Run("tenant mismatch stops the chain", func(t *testing.T) {
		other := &tokenCredential{token: fakeToken(`{"tid":"tenant-b"}`)}
		next := &tokenCredential{token: tok}
		withStrategies(t, other, next)

		_, err := Login(context.Background(), Options{TenantID: "tenant-a", Out: io.Discard})
		var mismatch *TenantMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Zero(t, next.calls)
	})

	t.Run("all failures are reported", func(t *testing.T) {
		withStrategies(t, &tokenCredential{err: errors.New("expired")}, &tokenCredential{err: errors.New("no browser")})

		_, err := Login(context.Background(), Options{Out: io.Discard})
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Len(t, authErr.Failures, 2)
		assert.Contains(t, err.Error(), "method 0: expired")
		assert.Contains(t, err.Error(), "method 1: no browser")
	})
}

func TestAuthError_Format(t *testing.T) {
	s := (&AuthError{TenantID: "test-tenant-id"}).Error()
	assert.Contains(t, s, "az login --tenant test-tenant-id")
	assert.Contains(t, s, "AZURE_CLIENT_SECRET")

	assert.Contains(t, (&AuthError{}).Error(), "<tenant-id>")
}

func TestCLIAccount(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		err     error
		want    *Account
		wantErr bool
	}{
		{
			name: "session",
			out:  `{"id":"sub-1","name":"Dev","tenantId":"tenant-a","state":"Enabled"}`,
			want: &Account{SubscriptionID: "sub-1", Name: "Dev", TenantID: "tenant-a", State: "Enabled"},
		},
		{name: "cli missing", err: errors.New("exec: az not found"), wantErr: true},
		{name: "not json", out: "Please run 'az login'", wantErr: true},
		{name: "no id", out: `{"name":"Dev"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := withCLI(t, tt.out, tt.err)
			got, err := CLIAccount(context.Background())
			assert.Equal(t, []string{"account", "show", "--output", "json"}, *args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoCLISession)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyTenant(t *testing.T) {
	tok := fakeToken(`{"tid":"tenant-a","appid":"app"}`)

	got, err := VerifyTenant(tok, "")
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", got)

	got, err = VerifyTenant(tok, "TENANT-A")
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", got)

	_, err = VerifyTenant(tok, "tenant-b")
	var mismatch *TenantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "tenant-a", mismatch.JWTTenantClaim)
	assert.True(t, isTenantMismatch(fmt.Errorf("wrapped: %w", err)))

	got, err = VerifyTenant("opaque-token", "tenant-b")
	require.NoError(t, err, "undecodable tokens are left to ARM")
	assert.Equal(t, "tenant-b", got)
}

func TestDecodeJWTClaims_Invalid(t *testing.T) {
	_, err := decodeJWTClaims("a.b")
	assert.Error(t, err)
	_, err = decodeJWTClaims("a.!!!.c")
	assert.Error(t, err)
}

type stubLister struct {
	subs []Subscription
	err  error
}

func (s stubLister) List(context.Context) ([]Subscription, error) { return s.subs, s.err }

type stubChooser struct {
	idx     int
	err     error
	options []string
}

func (s *stubChooser) Choose(_, _ string, options []string) (int, error) {
	s.options = options
	return s.idx, s.err
}

func noCLI(t *testing.T) {
	withCLI(t, "", errors.New("az not found"))
}

func TestResolveSubscription_ExplicitAndCLI(t *testing.T) {
	withCLI(t, `{"id":"cli-sub","state":"Enabled"}`, nil)

	got, err := ResolveSubscription(context.Background(), "flag-sub", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "flag-sub", got)

	got, err = ResolveSubscription(context.Background(), "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "cli-sub", got)
}

func TestResolveSubscription_DisabledCLIDefaultFallsThrough(t *testing.T) {
	withCLI(t, `{"id":"cli-sub","state":"Disabled"}`, nil)

	got, err := ResolveSubscription(context.Background(), "", stubLister{subs: []Subscription{{ID: "s1", State: "Enabled"}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", got)
}

func TestResolveSubscription_FromLister(t *testing.T) {
	noCLI(t)
	subs := []Subscription{
		{ID: "s1", Name: "Dev", State: "Enabled"},
		{ID: "s2", Name: "Old", State: "Disabled"},
		{ID: "s3", Name: "Prod", State: "Enabled"},
	}

	tests := []struct {
		name    string
		lister  SubscriptionLister
		chooser *stubChooser
		want    string
		wantErr bool
	}{
		{"single enabled", stubLister{subs: subs[:2]}, nil, "s1", false},
		{"choose second", stubLister{subs: subs}, &stubChooser{idx: 1}, "s3", false},
		{"several without chooser", stubLister{subs: subs}, nil, "", true},
		{"none enabled", stubLister{subs: subs[1:2]}, nil, "", true},
		{"lister error", stubLister{err: errors.New("forbidden")}, nil, "", true},
		{"choice out of range", stubLister{subs: subs}, &stubChooser{idx: 5}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chooser Chooser
			if tt.chooser != nil {
				chooser = tt.chooser
			}
			got, err := ResolveSubscription(context.Background(), "", tt.lister, chooser)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.chooser != nil {
				assert.Equal(t, []string{"Dev (s1)", "Prod (s3)"}, tt.chooser.options)
			}
		})
	}

	_, err := ResolveSubscription(context.Background(), "", nil, nil)
	assert.ErrorIs(t, err, ErrNoSubscription)
}
