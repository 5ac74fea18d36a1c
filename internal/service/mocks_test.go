package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/growthyari/growthyari-server/internal/database"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/repository"
)

// Mock repositories

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) FindDetailByID(ctx context.Context, id string) (*model.SessionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionDetail), args.Error(1)
}

func (m *mockSessionRepo) List(ctx context.Context, filter model.SessionFilter) ([]model.SessionDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionDetail), args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, model.CreateSessionParams) *model.Session); ok {
		return fn(ctx, params), args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) CompareAndSetStatus(ctx context.Context, id string, expected, next model.SessionStatus) (*model.Session, error) {
	args := m.Called(ctx, id, expected, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) UpdateNotes(ctx context.Context, id, partyID, notes string) (bool, error) {
	args := m.Called(ctx, id, partyID, notes)
	return args.Bool(0), args.Error(1)
}

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) FindPendingBetween(ctx context.Context, userA, userB string) (*model.ConnectionRequest, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) Create(ctx context.Context, params model.CreateConnectionRequestParams) (*model.ConnectionRequest, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) Resolve(ctx context.Context, id string, status model.ConnectionRequestStatus, respondedAt time.Time) (*model.ConnectionRequest, error) {
	args := m.Called(ctx, id, status, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) ListByUser(ctx context.Context, userID string, direction model.RequestDirection, limit, offset int) ([]model.ConnectionRequestDetail, error) {
	args := m.Called(ctx, userID, direction, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConnectionRequestDetail), args.Error(1)
}

func (m *mockRequestRepo) DeleteDeclinedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRequestRepo) WithTx(tx *sqlx.Tx) repository.ConnectionRequestRepository {
	return m
}

type mockConnectionRepo struct {
	mock.Mock
}

func (m *mockConnectionRepo) Create(ctx context.Context, params model.CreateConnectionParams) (*model.Connection, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *mockConnectionRepo) FindBetween(ctx context.Context, userA, userB string) (*model.Connection, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *mockConnectionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ConnectionDetail, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConnectionDetail), args.Error(1)
}

func (m *mockConnectionRepo) WithTx(tx *sqlx.Tx) repository.ConnectionRepository {
	return m
}

// mockTransactor runs fn without a real transaction and counts calls.
type mockTransactor struct {
	calls int
	err   error
}

func (m *mockTransactor) WithTx(ctx context.Context, fn database.TxFunc) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}
