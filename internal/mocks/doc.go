// Package mocks provides centralized mock implementations for testing.
//
// The store mocks are in-memory and enforce the same ownership rules as the
// PostgreSQL stores, so services can be exercised end to end without a
// database. The service and token mocks use function fields:
//
//	jwtService := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
