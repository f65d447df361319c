//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	domain "github.com/iho/gobudget/internal/domain"
	gomock "go.uber.org/mock/gomock"
)

// MockGomockTransactionRepository is a mock of TransactionRepository interface.
type MockGomockTransactionRepository struct {
	ctrl     *gomock.Controller
	recorder *MockGomockTransactionRepositoryMockRecorder
	isgomock struct{}
}

// MockGomockTransactionRepositoryMockRecorder is the mock recorder for MockGomockTransactionRepository.
type MockGomockTransactionRepositoryMockRecorder struct {
	mock *MockGomockTransactionRepository
}

// NewMockGomockTransactionRepository creates a new mock instance.
func NewMockGomockTransactionRepository(ctrl *gomock.Controller) *MockGomockTransactionRepository {
	mock := &MockGomockTransactionRepository{ctrl: ctrl}
	mock.recorder = &MockGomockTransactionRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGomockTransactionRepository) EXPECT() *MockGomockTransactionRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockGomockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, transaction)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockGomockTransactionRepositoryMockRecorder) Create(ctx, transaction any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockGomockTransactionRepository)(nil).Create), ctx, transaction)
}

// GetByID mocks base method.
func (m *MockGomockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockGomockTransactionRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockGomockTransactionRepository)(nil).GetByID), ctx, id)
}

// ListByUser mocks base method.
func (m *MockGomockTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID, limit, offset)
	ret0, _ := ret[0].([]*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByUser indicates an expected call of ListByUser.
func (mr *MockGomockTransactionRepositoryMockRecorder) ListByUser(ctx, userID, limit, offset any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockGomockTransactionRepository)(nil).ListByUser), ctx, userID, limit, offset)
}

// ListRecurringDue mocks base method.
func (m *MockGomockTransactionRepository) ListRecurringDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecurringDue", ctx, asOf, limit)
	ret0, _ := ret[0].([]*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecurringDue indicates an expected call of ListRecurringDue.
func (mr *MockGomockTransactionRepositoryMockRecorder) ListRecurringDue(ctx, asOf, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecurringDue", reflect.TypeOf((*MockGomockTransactionRepository)(nil).ListRecurringDue), ctx, asOf, limit)
}

// Update mocks base method.
func (m *MockGomockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, transaction)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockGomockTransactionRepositoryMockRecorder) Update(ctx, transaction any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockGomockTransactionRepository)(nil).Update), ctx, transaction)
}

// Delete mocks base method.
func (m *MockGomockTransactionRepository) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockGomockTransactionRepositoryMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockGomockTransactionRepository)(nil).Delete), ctx, id)
}

// MockGomockIDGenerator is a mock of IDGenerator interface.
type MockGomockIDGenerator struct {
	ctrl     *gomock.Controller
	recorder *MockGomockIDGeneratorMockRecorder
	isgomock struct{}
}

// MockGomockIDGeneratorMockRecorder is the mock recorder for MockGomockIDGenerator.
type MockGomockIDGeneratorMockRecorder struct {
	mock *MockGomockIDGenerator
}

// NewMockGomockIDGenerator creates a new mock instance.
func NewMockGomockIDGenerator(ctrl *gomock.Controller) *MockGomockIDGenerator {
	mock := &MockGomockIDGenerator{ctrl: ctrl}
	mock.recorder = &MockGomockIDGeneratorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGomockIDGenerator) EXPECT() *MockGomockIDGeneratorMockRecorder {
	return m.recorder
}

// Generate mocks base method.
func (m *MockGomockIDGenerator) Generate() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate")
	ret0, _ := ret[0].(string)
	return ret0
}

// Generate indicates an expected call of Generate.
func (mr *MockGomockIDGeneratorMockRecorder) Generate() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockGomockIDGenerator)(nil).Generate))
}

// MockGomockClock is a mock of Clock interface.
type MockGomockClock struct {
	ctrl     *gomock.Controller
	recorder *MockGomockClockMockRecorder
	isgomock struct{}
}

// MockGomockClockMockRecorder is the mock recorder for MockGomockClock.
type MockGomockClockMockRecorder struct {
	mock *MockGomockClock
}

// NewMockGomockClock creates a new mock instance.
func NewMockGomockClock(ctrl *gomock.Controller) *MockGomockClock {
	mock := &MockGomockClock{ctrl: ctrl}
	mock.recorder = &MockGomockClockMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGomockClock) EXPECT() *MockGomockClockMockRecorder {
	return m.recorder
}

// Now mocks base method.
func (m *MockGomockClock) Now() time.Time {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Now")
	ret0, _ := ret[0].(time.Time)
	return ret0
}

// Now indicates an expected call of Now.
func (mr *MockGomockClockMockRecorder) Now() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Now", reflect.TypeOf((*MockGomockClock)(nil).Now))
}
