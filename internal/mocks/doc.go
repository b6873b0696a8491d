// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory and behave like the Postgres
// stores: the same sentinel errors, the same ordering, and normalized-name
// uniqueness for topics. Each method can be overridden through its Fn field,
// and WithTx returns the receiver so transactional code paths can run against
// a sqlmock database while the data lives here.
//
// Usage:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
package mocks
