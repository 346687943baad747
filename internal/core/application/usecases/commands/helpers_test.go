package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/metrics"
	"fooddelivery/internal/seed"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	mu      sync.Mutex
	running map[kernel.UUID]bool
	starts  int
	stops   int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{running: make(map[kernel.UUID]bool)}
}

func (s *fakeScheduler) Start(orderID kernel.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[orderID] {
		return false, nil
	}
	s.running[orderID] = true
	s.starts++
	return true, nil
}

func (s *fakeScheduler) Stop(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running[orderID] {
		return false
	}
	delete(s.running, orderID)
	s.stops++
	return true
}

func (s *fakeScheduler) IsRunning(orderID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[orderID]
}

type recordingTracker struct {
	mu      sync.Mutex
	updates []delivery.TrackingUpdate
}

func (r *recordingTracker) Publish(_ context.Context, u delivery.TrackingUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recordingTracker) etas() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.updates))
	for _, u := range r.updates {
		out = append(out, u.EtaMinutes)
	}
	return out
}

func (r *recordingTracker) last() delivery.TrackingUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

type recordingEvents struct {
	mu     sync.Mutex
	events []ports.OrderEvent
}

func (r *recordingEvents) Publish(_ context.Context, events ...ports.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingEvents) types() []ports.OrderEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OrderEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	uow       *memory.UnitOfWorkFactory
	scheduler *fakeScheduler
	tracker   *recordingTracker
	events    *recordingEvents
	metrics   *metrics.Registry
	effects   *commands.Effects

	create   commands.CreateOrderCommandHandler
	order    commands.TransitionOrderCommandHandler
	payment  commands.TransitionPaymentCommandHandler
	start    commands.StartDeliveryCommandHandler
	advance  commands.AdvanceDeliveryCommandHandler
	location commands.RecordCourierLocationCommandHandler
	dispatch commands.DispatchPendingOrdersCommandHandler
	group    commands.GroupOrderCommandHandler
	coupon   commands.CreateCouponCommandHandler
}

// newHarness wires every handler over a memory store loaded with the demo data set.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := newEmptyHarness(t)
	loaded, err := seed.Load(context.Background(), h.uow, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, loaded)
	return h
}

func newEmptyHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		uow:       memory.NewUnitOfWorkFactory(memory.NewStore()),
		scheduler: newFakeScheduler(),
		tracker:   &recordingTracker{},
		events:    &recordingEvents{},
		metrics:   metrics.NewRegistry(),
	}
	h.effects = commands.NewEffects(h.events, h.tracker, h.metrics, nil)

	planner := services.RoutePlanner{}
	h.create = commands.NewCreateOrderCommandHandler(h.uow, memory.NewIdempotencyStore(), h.effects, nil)
	h.order = commands.NewTransitionOrderCommandHandler(h.uow, h.scheduler, planner, h.effects)
	h.payment = commands.NewTransitionPaymentCommandHandler(h.uow, func() string { return "TXN-123456" }, h.effects, nil)
	h.start = commands.NewStartDeliveryCommandHandler(h.uow, h.scheduler, planner, h.effects)
	h.advance = commands.NewAdvanceDeliveryCommandHandler(h.uow, h.effects)
	h.location = commands.NewRecordCourierLocationCommandHandler(h.uow)
	h.dispatch = commands.NewDispatchPendingOrdersCommandHandler(h.uow, h.effects)
	h.group = commands.NewGroupOrderCommandHandler(h.uow, h.effects)
	h.coupon = commands.NewCreateCouponCommandHandler(h.uow)
	return h
}

// placeDimSum orders 2 shrimp dumplings and 1 BBQ pork bun for Alice.
func (h *harness) placeDimSum(t *testing.T, coupon string) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(seed.AliceID, seed.DimSumExpressID, []commands.OrderLine{
		{MenuItemID: seed.ShrimpDumplingsID, Qty: 2},
		{MenuItemID: seed.BBQPorkBunID, Qty: 1},
	}, payment.CreditCard, coupon)
	require.NoError(t, err)

	id, err := h.create.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return id
}

func (h *harness) transition(orderID kernel.UUID, next order.Status) error {
	cmd, err := commands.NewTransitionOrderCommand(orderID, next)
	if err != nil {
		return err
	}
	return h.order.Handle(context.Background(), cmd)
}

func (h *harness) pay(t *testing.T, orderID kernel.UUID, next payment.Status) error {
	t.Helper()
	cmd, err := commands.NewTransitionPaymentCommand(orderID, next)
	require.NoError(t, err)
	return h.payment.Handle(context.Background(), cmd)
}

func (h *harness) tick(t *testing.T, orderID kernel.UUID) (bool, error) {
	t.Helper()
	cmd, err := commands.NewAdvanceDeliveryCommand(orderID)
	require.NoError(t, err)
	return h.advance.Handle(context.Background(), cmd)
}

// toDelivering pays the order and walks it up to DELIVERING.
func (h *harness) toDelivering(t *testing.T, orderID kernel.UUID) {
	t.Helper()
	require.NoError(t, h.pay(t, orderID, payment.Paid))
	for _, next := range []order.Status{order.Preparing, order.PickedUp, order.Delivering} {
		require.NoError(t, h.transition(orderID, next))
	}
}

func (h *harness) getOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := h.uow.Create().Orders().Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (h *harness) getPayment(t *testing.T, orderID kernel.UUID) *payment.Payment {
	t.Helper()
	p, err := h.uow.Create().Payments().GetByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return p
}

func (h *harness) getDelivery(t *testing.T, orderID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d, err := h.uow.Create().Deliveries().GetByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return d
}

func (h *harness) stock(t *testing.T, menuItemID kernel.UUID) int {
	t.Helper()
	m, err := h.uow.Create().MenuItems().Get(context.Background(), menuItemID)
	require.NoError(t, err)
	return m.Stock()
}

func (h *harness) addUser(t *testing.T, u *user.User) {
	t.Helper()
	require.NoError(t, h.uow.Create().Users().Add(context.Background(), u))
}

func (h *harness) addRestaurant(t *testing.T, r *catalog.Restaurant, items ...*catalog.MenuItem) {
	t.Helper()
	require.NoError(t, h.uow.Create().Restaurants().Add(context.Background(), r))
	for _, m := range items {
		require.NoError(t, h.uow.Create().MenuItems().Add(context.Background(), m))
	}
}

// newBareHarness has a customer, Dim Sum Express and its bun, but no courier.
func newBareHarness(t *testing.T) *harness {
	t.Helper()
	h := newEmptyHarness(t)

	alice, err := user.NewUser(seed.AliceID, user.RoleCustomer, "Alice", "", "", "HKG",
		[]user.Address{{Label: "Home", Location: seed.AliceOffice}})
	require.NoError(t, err)
	h.addUser(t, alice)

	r, err := catalog.NewRestaurant(seed.DimSumExpressID, "Dim Sum Express", seed.DimSumExpressLocation, 4.5, "", true, "HKG")
	require.NoError(t, err)
	bun, err := catalog.NewMenuItem(seed.BBQPorkBunID, seed.DimSumExpressID, "BBQ Pork Bun", decimal.RequireFromString("32.0"), nil, 10)
	require.NoError(t, err)
	h.addRestaurant(t, r, bun)
	return h
}

func (h *harness) placeBare(t *testing.T) kernel.UUID {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(seed.AliceID, seed.DimSumExpressID, []commands.OrderLine{
		{MenuItemID: seed.BBQPorkBunID, Qty: 1},
	}, payment.CashOnDelivery, "")
	require.NoError(t, err)

	id, err := h.create.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return id
}

func courier(t *testing.T, id kernel.UUID, name string, home kernel.GeoPoint) *user.User {
	t.Helper()
	u, err := user.NewUser(id, user.RoleCourier, name, "", "", "HKG", []user.Address{{Label: "Home", Location: home}})
	require.NoError(t, err)
	return u
}
