package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/repos"
	"storeadmin/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := services.NewAuthService(nil, "secret", "storeadmin", time.Hour)

	tok, err := svc.Issue("u-alice")
	require.NoError(t, err)

	uid, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", uid)
}

func TestVerifyRejects(t *testing.T) {
	svc := services.NewAuthService(nil, "secret", "storeadmin", time.Hour)
	tok, err := svc.Issue("u-alice")
	require.NoError(t, err)

	other := services.NewAuthService(nil, "other-secret", "storeadmin", time.Hour)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	wrongIssuer := services.NewAuthService(nil, "secret", "someone-else", time.Hour)
	_, err = wrongIssuer.Verify(tok)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.Verify(tok + "x")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := services.NewAuthService(nil, "secret", "storeadmin", time.Minute)
	svc.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.Issue("u-alice")
	require.NoError(t, err)

	svc.Now = time.Now
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	svc := services.NewAuthService(nil, "secret", "storeadmin", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "u-alice",
		Issuer:    "storeadmin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	_, err := repos.SeedUsers(ctx, db)
	require.NoError(t, err)

	svc := services.NewAuthService(repos.NewUserRepo(db), "secret", "storeadmin", time.Hour)

	tok, u, err := svc.Login(ctx, "ALICE@storeadmin.test", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", u.ID)
	uid, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", uid)

	_, _, err = svc.Login(ctx, "alice@storeadmin.test", "wrong")
	assert.True(t, errors.Is(err, services.ErrBadCreds))

	_, _, err = svc.Login(ctx, "nobody@storeadmin.test", "Passw0rd!")
	assert.True(t, errors.Is(err, services.ErrBadCreds))
}

func TestStoreAuthorize(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewStoreService(repos.NewStoreRepo(db))

	st, err := svc.Create(ctx, "u-alice", "Loja da Alice")
	require.NoError(t, err)

	got, err := svc.Authorize(ctx, st.ID, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)

	_, err = svc.Authorize(ctx, st.ID, "u-bob")
	assert.ErrorIs(t, err, services.ErrNotOwner)

	_, err = svc.Authorize(ctx, "missing", "u-alice")
	assert.ErrorIs(t, err, services.ErrNotOwner)

	_, err = svc.Create(ctx, "u-alice", "")
	assert.ErrorIs(t, err, services.ErrNameEmpty)
}

func TestStoreLanding(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	svc := services.NewStoreService(repos.NewStoreRepo(db))

	st, err := svc.Landing(ctx, "u-alice")
	require.NoError(t, err)
	assert.Nil(t, st)

	created, err := svc.Create(ctx, "u-alice", "Primeira")
	require.NoError(t, err)
	st, err = svc.Landing(ctx, "u-alice")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, created.ID, st.ID)
}
