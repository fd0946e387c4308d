package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) (int64, error) {
	args := m.Called(ctx, tx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Get(ctx context.Context, userID int64) (model.CartItems, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.CartItems), args.Error(1)
}

func (m *MockCartRepository) Set(ctx context.Context, userID int64, items model.CartItems) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) Update(ctx context.Context, userID int64, fn func(model.CartItems) model.CartItems) (model.CartItems, error) {
	args := m.Called(ctx, userID, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.CartItems), args.Error(1)
}

func (m *MockCartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (model.CartItems, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.CartItems), args.Error(1)
}

func (m *MockCartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// stubGenerator hands out a fixed sequence of order numbers.
type stubGenerator struct {
	numbers []string
	calls   int
}

func (g *stubGenerator) Generate() (string, error) {
	n := g.numbers[g.calls%len(g.numbers)]
	g.calls++
	return n, nil
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-AB12CD"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42
	info := model.CustomerInfo{Name: "Alice", Phone: "555", Address: "1 Main St"}
	items := model.CartItems{10: 2, 20: 1}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	cartRepo.On("GetForUpdate", ctx, tx, userID).Return(items, nil)
	catalogRepo.On("GetProducts", ctx, mock.MatchedBy(containsIDs(10, 20))).
		Return([]model.Product{
			{ID: 10, Name: "Espresso", Price: 12.5},
			{ID: 20, Name: "Sencha", Price: 9.0},
		}, nil)
	orderRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*model.Order).ID = 7
		}).
		Return(int64(7), nil)
	cartRepo.On("ClearTx", ctx, tx, userID).Return(nil)

	order, err := svc.PlaceOrder(ctx, userID, info)
	require.NoError(t, err)

	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, "ORD-AB12CD", order.OrderNumber)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, "Alice", order.CustomerName)
	assert.Equal(t, model.DefaultDeliveryMethod, order.DeliveryMethod)
	assert.Equal(t, model.DefaultOrderStatus, order.Status)
	assert.Equal(t, model.CartItems{10: 2, 20: 1}, order.Items)
	assert.InDelta(t, 34.0, order.Total, 1e-9)
	assert.True(t, tx.committed)

	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	catalogRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-AB12CD"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42

	tx := new(MockTx)
	tx.On("Rollback", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	cartRepo.On("GetForUpdate", ctx, tx, userID).Return(model.CartItems{}, nil)

	order, err := svc.PlaceOrder(ctx, userID, model.CustomerInfo{Name: "Alice"})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
	assert.True(t, tx.rolledBack)

	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "ClearTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_StorageFailureLeavesCart(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-AB12CD"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42

	tx := new(MockTx)
	tx.On("Rollback", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	cartRepo.On("GetForUpdate", ctx, tx, userID).Return(model.CartItems{10: 1}, nil)
	catalogRepo.On("GetProducts", ctx, mock.Anything).
		Return([]model.Product{{ID: 10, Price: 12.5}}, nil)
	orderRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Order")).
		Return(int64(0), errors.New("connection lost"))

	order, err := svc.PlaceOrder(ctx, userID, model.CustomerInfo{Name: "Alice"})
	assert.Nil(t, order)
	require.Error(t, err)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)

	// The cart is only cleared inside a committed transaction.
	cartRepo.AssertNotCalled(t, "ClearTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_RetriesOnDuplicateOrderNumber(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-FIRST1", "ORD-SECOND"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42
	items := model.CartItems{10: 1}

	tx1 := new(MockTx)
	tx1.On("Rollback", ctx).Return(nil)
	tx2 := new(MockTx)
	tx2.On("Commit", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx1, nil).Once()
	orderRepo.On("BeginTx", ctx).Return(tx2, nil).Once()

	cartRepo.On("GetForUpdate", ctx, mock.Anything, userID).Return(items, nil)
	catalogRepo.On("GetProducts", ctx, mock.Anything).
		Return([]model.Product{{ID: 10, Price: 12.5}}, nil)

	orderRepo.On("Create", ctx, tx1, mock.AnythingOfType("*model.Order")).
		Return(int64(0), model.ErrDuplicateOrderNumber).Once()
	orderRepo.On("Create", ctx, tx2, mock.AnythingOfType("*model.Order")).
		Return(int64(9), nil).Once()
	cartRepo.On("ClearTx", ctx, tx2, userID).Return(nil)

	order, err := svc.PlaceOrder(ctx, userID, model.CustomerInfo{Name: "Alice"})
	require.NoError(t, err)

	// The second attempt carries a freshly generated number.
	assert.Equal(t, "ORD-SECOND", order.OrderNumber)
	assert.True(t, tx1.rolledBack)
	assert.True(t, tx2.committed)
	assert.Equal(t, 2, gen.calls)

	orderRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-AB12CD"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42

	tx := new(MockTx)
	tx.On("Rollback", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	cartRepo.On("GetForUpdate", ctx, tx, userID).Return(model.CartItems{10: 1}, nil)
	catalogRepo.On("GetProducts", ctx, mock.Anything).
		Return([]model.Product{{ID: 10, Price: 12.5}}, nil)
	orderRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Order")).
		Return(int64(0), model.ErrDuplicateOrderNumber)

	order, err := svc.PlaceOrder(ctx, userID, model.CustomerInfo{Name: "Alice"})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrDuplicateOrderNumber)

	orderRepo.AssertNumberOfCalls(t, "Create", maxOrderNumberAttempts)
}

func TestOrderService_PlaceOrder_MissingProductsContributeZero(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	catalogRepo := new(MockCatalogRepository)
	gen := &stubGenerator{numbers: []string{"ORD-AB12CD"}}

	svc := NewOrderService(orderRepo, cartRepo, catalogRepo, gen, zerolog.Nop())

	const userID int64 = 42

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)

	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	cartRepo.On("GetForUpdate", ctx, tx, userID).Return(model.CartItems{10: 2, 99: 4}, nil)
	catalogRepo.On("GetProducts", ctx, mock.MatchedBy(containsIDs(10, 99))).
		Return([]model.Product{{ID: 10, Price: 12.5}}, nil)
	orderRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Order")).
		Return(int64(1), nil)
	cartRepo.On("ClearTx", ctx, tx, userID).Return(nil)

	order, err := svc.PlaceOrder(ctx, userID, model.CustomerInfo{Name: "Alice"})
	require.NoError(t, err)

	// Product 99 no longer exists; only product 10 counts toward the total,
	// while the item snapshot still records the full cart.
	assert.InDelta(t, 25.0, order.Total, 1e-9)
	assert.Equal(t, model.CartItems{10: 2, 99: 4}, order.Items)
}

func TestOrderService_Get_NotFound(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), &stubGenerator{numbers: []string{"ORD-AB12CD"}}, zerolog.Nop())

	orderRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	_, err := svc.Get(ctx, 99)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_EmptyStatusRejected(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), &stubGenerator{numbers: []string{"ORD-AB12CD"}}, zerolog.Nop())

	err := svc.UpdateStatus(ctx, 1, model.StatusInput{Status: ""})

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)

	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_FreeTextAccepted(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), &stubGenerator{numbers: []string{"ORD-AB12CD"}}, zerolog.Nop())

	orderRepo.On("UpdateStatus", ctx, int64(1), "out for delivery").Return(nil)

	require.NoError(t, svc.UpdateStatus(ctx, 1, model.StatusInput{Status: "out for delivery"}))

	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_MissingOrder(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, new(MockCartRepository), new(MockCatalogRepository), &stubGenerator{numbers: []string{"ORD-AB12CD"}}, zerolog.Nop())

	orderRepo.On("UpdateStatus", ctx, int64(99), "shipped").Return(model.ErrOrderNotFound)

	err := svc.UpdateStatus(ctx, 99, model.StatusInput{Status: "shipped"})
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
