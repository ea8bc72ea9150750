package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_WithStubs(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	userStore := mocks.NewMockUserStore()
	verifier := &mocks.MockPasswordVerifier{
		CompareFn: func(hashed, password string) error {
			if hashed != "hashed:"+password {
				return mocks.ErrPasswordMismatch
			}
			return nil
		},
	}
	svc, err := service.NewUserService(userStore, &mocks.MockPasswordHasher{}, verifier, db, nil)
	require.NoError(t, err)

	ctx := context.Background()

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	created, err := svc.Signup(ctx, "a@x.com", "pw123", "")
	require.NoError(t, err)
	assert.Equal(t, "hashed:pw123", created.HashedPassword)

	user, err := svc.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Equal(t, 2, verifier.CompareCallCount)

	profile, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", profile.Email)

	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUserService_HashFailureStopsSignup(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	hashErr := errors.New("entropy source unavailable")
	userStore := mocks.NewMockUserStore()
	svc, err := service.NewUserService(
		userStore, &mocks.MockPasswordHasher{Err: hashErr}, &mocks.MockPasswordVerifier{}, db, nil)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "a@x.com", "pw123", "")
	assert.ErrorIs(t, err, hashErr)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	_, err = userStore.GetByEmail(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
