package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/grouporder"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the PostgreSQL store against a real database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	now       time.Time
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(dsn, nil)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest starts every test from the seeded demo data set.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE users, restaurants, menu_items, orders, order_items, payments, " +
		"deliveries, courier_locations, coupons, group_orders").Error
	suite.Require().NoError(err)

	suite.now = time.Now().UTC().Truncate(time.Microsecond)
	loaded, err := seed.Load(context.Background(), suite.factory, suite.now)
	suite.Require().NoError(err)
	suite.Require().True(loaded)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(createdAt time.Time) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), seed.ShrimpDumplingsID, 2, decimal.RequireFromString("48.5"),
		map[string]any{"note": "no chili"})
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), seed.AliceID, seed.DimSumExpressID, seed.AliceHome,
		[]*order.Item{item}, nil, createdAt)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSeed_IsLoadedOnce() {
	loaded, err := seed.Load(context.Background(), suite.factory, suite.now)
	suite.Require().NoError(err)
	suite.False(loaded)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsChanges() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Orders().Add(ctx, o))
	_, err := uow.Orders().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().Orders().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_RoundTrip() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)
	suite.Require().NoError(o.ApplyDiscount("WELCOME10", decimal.RequireFromString("9.7"), suite.now))
	suite.Require().NoError(o.TransitionTo(order.Confirmed, suite.now))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Orders().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	got, err := suite.factory.Create().Orders().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, got.Status())
	suite.Equal(payment.Pending, got.PayStatus())
	suite.True(got.Total().Equal(decimal.RequireFromString("87.3")), got.Total().String())
	suite.Equal("WELCOME10", got.CouponCode())
	suite.Require().Len(got.Items(), 1)
	suite.Equal(2, got.Items()[0].Qty())
	suite.Equal("no chili", got.Items()[0].Options()["note"])
	suite.True(got.CreatedAt().Equal(suite.now))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_UpdateOfMissingOrderIsNotFound() {
	err := suite.factory.Create().Orders().Update(context.Background(), suite.newOrder(suite.now))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderRepository_ListConfirmedWithoutDelivery() {
	ctx := context.Background()
	older := suite.newOrder(suite.now.Add(-time.Minute))
	newer := suite.newOrder(suite.now)
	dispatched := suite.newOrder(suite.now.Add(-2 * time.Minute))
	created := suite.newOrder(suite.now.Add(-3 * time.Minute))
	for _, o := range []*order.Order{older, newer, dispatched} {
		suite.Require().NoError(o.TransitionTo(order.Confirmed, suite.now))
	}
	d, err := delivery.NewDelivery(kernel.NewUUID(), dispatched.ID(), seed.BobID, suite.now, suite.now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	for _, o := range []*order.Order{older, newer, dispatched, created} {
		suite.Require().NoError(uow.Orders().Add(ctx, o))
	}
	suite.Require().NoError(uow.Deliveries().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	pending, err := suite.factory.Create().Orders().ListConfirmedWithoutDelivery(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.Equal(older.ID(), pending[0].ID())
	suite.Equal(newer.ID(), pending[1].ID())

	all, err := suite.factory.Create().Orders().List(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(all, 4)
	suite.Equal(newer.ID(), all[0].ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryRepository_SecondDeliveryIsConflict() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)
	first, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), seed.BobID, suite.now, suite.now)
	suite.Require().NoError(err)
	second, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), seed.CarolID, suite.now, suite.now)
	suite.Require().NoError(err)

	repo := suite.factory.Create().Deliveries()
	suite.Require().NoError(repo.Add(ctx, first))
	suite.Require().ErrorIs(repo.Add(ctx, second), errs.ErrConflict)

	counts, err := repo.CountActiveByCourier(ctx)
	suite.Require().NoError(err)
	suite.Equal(map[kernel.UUID]int{seed.BobID: 1}, counts)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryRepository_RouteRoundTrip() {
	ctx := context.Background()
	o := suite.newOrder(suite.now)
	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), seed.BobID, suite.now, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Start(suite.now))
	suite.Require().NoError(d.PlanRoute([]kernel.GeoPoint{seed.BobLastSeen, seed.DimSumExpressLocation, seed.AliceOffice}))
	_, err = d.Advance()
	suite.Require().NoError(err)

	repo := suite.factory.Create().Deliveries()
	suite.Require().NoError(repo.Add(ctx, d))

	got, err := repo.GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Delivering, got.Status())
	suite.Equal(1, got.Progress())
	suite.Equal(d.RoutePolyline(), got.RoutePolyline())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCourierLocationRepository_SaveOverwrites() {
	ctx := context.Background()
	repo := suite.factory.Create().CourierLocations()
	moved, err := delivery.NewCourierLocation(seed.BobID, seed.AliceOffice, suite.now.Add(time.Minute))
	suite.Require().NoError(err)

	suite.Require().NoError(repo.Save(ctx, moved))

	got, err := repo.Get(ctx, seed.BobID)
	suite.Require().NoError(err)
	equal, err := got.Point().IsEqual(seed.AliceOffice)
	suite.Require().NoError(err)
	suite.True(equal)

	_, err = repo.Get(ctx, seed.CarolID)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCouponRepository_LookupIsCaseInsensitive() {
	ctx := context.Background()
	repo := suite.factory.Create().Coupons()

	c, err := repo.GetByCode(ctx, " welcome10 ")
	suite.Require().NoError(err)
	suite.Equal(coupon.Percent, c.Type())
	suite.Equal(1000, c.Terms().UsageLimit)

	suite.Require().NoError(c.Redeem())
	suite.Require().NoError(repo.Update(ctx, c))
	c, err = repo.GetByCode(ctx, "WELCOME10")
	suite.Require().NoError(err)
	suite.Equal(1, c.UsedCount())

	dup, err := coupon.NewCoupon(kernel.NewUUID(), "save20", coupon.Amount, decimal.NewFromInt(5), coupon.Terms{}, suite.now)
	suite.Require().NoError(err)
	suite.Require().ErrorIs(repo.Add(ctx, dup), errs.ErrConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestGroupOrderRepository_RoundTrip() {
	ctx := context.Background()
	g, err := grouporder.NewGroupOrder(kernel.NewUUID(), seed.DimSumExpressID, seed.AliceID, nil, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(g.AddLines(seed.AliceID, []grouporder.Line{
		{MenuItemID: seed.SiuMaiID, Qty: 3, Options: map[string]any{"sauce": "soy"}},
	}, suite.now))

	repo := suite.factory.Create().GroupOrders()
	suite.Require().NoError(repo.Add(ctx, g))
	suite.Require().NoError(g.CheckOut(suite.now))
	suite.Require().NoError(repo.Update(ctx, g))

	got, err := repo.Get(ctx, g.ID())
	suite.Require().NoError(err)
	suite.Equal(grouporder.CheckedOut, got.Status())
	suite.Require().Len(got.AllLines(), 1)
	suite.Equal(seed.SiuMaiID, got.AllLines()[0].MenuItemID)
	suite.Equal("soy", got.AllLines()[0].Options["sauce"])
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCatalog_ReadsSeededMenu() {
	ctx := context.Background()
	uow := suite.factory.Create()

	restaurants, err := uow.Restaurants().List(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(restaurants, 2)
	suite.Equal("Dim Sum Express", restaurants[0].Name())

	menu, err := uow.MenuItems().ListByRestaurant(ctx, seed.NoodleHouseID)
	suite.Require().NoError(err)
	suite.Require().Len(menu, 2)
	suite.Equal("Beef Brisket Noodles", menu[0].Name())
	suite.NotNil(menu[0].Options()["spiceLevels"])

	couriers, err := uow.Users().ListByRole(ctx, "courier")
	suite.Require().NoError(err)
	suite.Len(couriers, 3)
}

// TestMenuItem_ConcurrentReservationsDoNotOversell relies on the row lock taken by
// MenuItems().Get.
func (suite *UnitOfWorkIntegrationTestSuite) TestMenuItem_ConcurrentReservationsDoNotOversell() {
	ctx := context.Background()
	item, err := catalog.NewMenuItem(kernel.NewUUID(), seed.DimSumExpressID, "Egg Tart", decimal.NewFromInt(12), nil, 5)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().MenuItems().Add(ctx, item))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reserveOne(ctx, suite.factory, item.ID()) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := suite.factory.Create().MenuItems().Get(ctx, item.ID())
	suite.Require().NoError(err)
	suite.Equal(5, succeeded)
	suite.Equal(0, got.Stock())
}

// TestOrderLifecycle_OnPostgres drives checkout, payment and dispatch through the
// command handlers with the PostgreSQL store underneath.
func (suite *UnitOfWorkIntegrationTestSuite) TestOrderLifecycle_OnPostgres() {
	ctx := context.Background()
	effects := commands.NewEffects(nil, nil, nil, nil)
	create := commands.NewCreateOrderCommandHandler(suite.factory, memory.NewIdempotencyStore(), effects, nil)
	pay := commands.NewTransitionPaymentCommandHandler(suite.factory, payment.RandomTxnID, effects, nil)

	createCmd, err := commands.NewCreateOrderCommand(seed.AliceID, seed.DimSumExpressID,
		[]commands.OrderLine{{MenuItemID: seed.ShrimpDumplingsID, Qty: 2}}, payment.CreditCard, "WELCOME10")
	suite.Require().NoError(err)
	orderID, err := create.Handle(ctx, createCmd)
	suite.Require().NoError(err)

	payCmd, err := commands.NewTransitionPaymentCommand(orderID, payment.Paid)
	suite.Require().NoError(err)
	suite.Require().NoError(pay.Handle(ctx, payCmd))

	uow := suite.factory.Create()
	o, err := uow.Orders().Get(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, o.Status())
	suite.Equal(payment.Paid, o.PayStatus())
	suite.True(o.Total().Equal(decimal.RequireFromString("87.3")), o.Total().String())

	d, err := uow.Deliveries().GetByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(seed.BobID, d.CourierID())

	dumplings, err := uow.MenuItems().Get(ctx, seed.ShrimpDumplingsID)
	suite.Require().NoError(err)
	suite.Equal(98, dumplings.Stock())
}

func reserveOne(ctx context.Context, factory ports.UnitOfWorkFactory, id kernel.UUID) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	m, err := uow.MenuItems().Get(ctx, id)
	if err != nil {
		return err
	}
	if err = m.Reserve(1); err != nil {
		return err
	}
	if err = uow.MenuItems().Update(ctx, m); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
