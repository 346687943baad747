// Package seed loads the demo data set: a Hong Kong and a Shanghai restaurant with
// their menus, a customer, three couriers, an administrator, restaurant staff and the
// WELCOME10 and SAVE20 coupons.
//
// Identifiers are fixed so that demo requests and tests can refer to them.
package seed

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/catalog"
	"fooddelivery/internal/core/domain/model/coupon"
	"fooddelivery/internal/core/domain/model/delivery"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/user"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	AliceID = kernel.MustUUIDFromString("a1111111-1111-4111-8111-111111111111")
	BobID   = kernel.MustUUIDFromString("b2222222-2222-4222-8222-222222222222")
	CarolID = kernel.MustUUIDFromString("c3333333-3333-4333-8333-333333333333")
	DaveID  = kernel.MustUUIDFromString("d4444444-4444-4444-8444-444444444444")
	AdminID = kernel.MustUUIDFromString("e5555555-5555-4555-8555-555555555555")

	StaffHKGID = kernel.MustUUIDFromString("f6666666-6666-4666-8666-666666666666")
	StaffSHAID = kernel.MustUUIDFromString("f7777777-7777-4777-8777-777777777777")

	DimSumExpressID = kernel.MustUUIDFromString("10000000-0000-4000-8000-000000000001")
	NoodleHouseID   = kernel.MustUUIDFromString("10000000-0000-4000-8000-000000000002")

	ShrimpDumplingsID    = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000001")
	BBQPorkBunID         = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000002")
	SiuMaiID             = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000003")
	SpringRollsID        = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000004")
	BeefBrisketNoodlesID = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000005")
	WontonNoodlesID      = kernel.MustUUIDFromString("20000000-0000-4000-8000-000000000006")

	Welcome10ID = kernel.MustUUIDFromString("30000000-0000-4000-8000-000000000001")
	Save20ID    = kernel.MustUUIDFromString("30000000-0000-4000-8000-000000000002")
)

// Coordinates of the demo data set.
var (
	DimSumExpressLocation = kernel.MustGeoPoint(22.282, 114.158)
	NoodleHouseLocation   = kernel.MustGeoPoint(31.2304, 121.4737)
	AliceHome             = kernel.MustGeoPoint(22.282, 114.158)
	AliceOffice           = kernel.MustGeoPoint(22.335, 114.175)
	BobLastSeen           = kernel.MustGeoPoint(22.29, 114.16)
	CarolHome             = kernel.MustGeoPoint(22.335, 114.175)
	DaveHome              = kernel.MustGeoPoint(31.2304, 121.4737)
)

// Load writes the demo data set unless it is already there. It runs in one unit of
// work, so a failure leaves the store empty.
func Load(ctx context.Context, uowFactory ports.UnitOfWorkFactory, now time.Time) (bool, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	_, err := uow.Users().Get(ctx, AliceID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return false, err
	}

	if err = loadUsers(ctx, uow, now); err != nil {
		return false, err
	}
	if err = loadCatalog(ctx, uow); err != nil {
		return false, err
	}
	if err = loadCoupons(ctx, uow, now); err != nil {
		return false, err
	}

	return true, uow.Commit(ctx)
}

func loadUsers(ctx context.Context, uow ports.UnitOfWork, now time.Time) error {
	type row struct {
		id        kernel.UUID
		role      user.Role
		name      string
		phone     string
		email     string
		city      string
		addresses []user.Address
	}

	rows := []row{
		{AliceID, user.RoleCustomer, "Alice Customer", "+85212340000", "alice@example.com", "HKG", []user.Address{
			{Label: "Home", Location: AliceHome},
			{Label: "Office", Location: AliceOffice},
		}},
		{BobID, user.RoleCourier, "Bob Courier", "+85212340001", "bob@example.com", "HKG", nil},
		{CarolID, user.RoleCourier, "Carol Courier", "+85212340003", "carol@example.com", "HKG", []user.Address{
			{Label: "Home", Location: CarolHome},
		}},
		{DaveID, user.RoleCourier, "Dave Courier", "+862112340001", "dave@example.com", "SHA", []user.Address{
			{Label: "Home", Location: DaveHome},
		}},
		{AdminID, user.RoleAdmin, "Admin One", "+85212340002", "admin@example.com", "HKG", nil},
		{StaffHKGID, user.RoleRestaurant, "Staff HK DimSum", "+85212340010", "staff.hkg@example.com", "HKG", nil},
		{StaffSHAID, user.RoleRestaurant, "Staff SH Noodle", "+862112340010", "staff.sha@example.com", "SHA", nil},
	}

	for _, s := range rows {
		u, err := user.NewUser(s.id, s.role, s.name, s.phone, s.email, s.city, s.addresses)
		if err != nil {
			return err
		}
		if err = uow.Users().Add(ctx, u); err != nil {
			return err
		}
	}

	bob, err := delivery.NewCourierLocation(BobID, BobLastSeen, now)
	if err != nil {
		return err
	}
	return uow.CourierLocations().Save(ctx, bob)
}

func loadCatalog(ctx context.Context, uow ports.UnitOfWork) error {
	dimSum, err := catalog.NewRestaurant(DimSumExpressID, "Dim Sum Express", DimSumExpressLocation, 4.5, "09:00-21:00", true, "HKG")
	if err != nil {
		return err
	}
	noodles, err := catalog.NewRestaurant(NoodleHouseID, "Noodle House", NoodleHouseLocation, 4.5, "09:00-21:00", true, "SHA")
	if err != nil {
		return err
	}
	for _, r := range []*catalog.Restaurant{dimSum, noodles} {
		if err = uow.Restaurants().Add(ctx, r); err != nil {
			return err
		}
	}

	type row struct {
		id         kernel.UUID
		restaurant kernel.UUID
		name       string
		price      string
		stock      int
		options    map[string]any
	}

	rows := []row{
		{ShrimpDumplingsID, DimSumExpressID, "Shrimp Dumplings", "48.5", 100, nil},
		{BBQPorkBunID, DimSumExpressID, "BBQ Pork Bun", "32.0", 100, nil},
		{SiuMaiID, DimSumExpressID, "Siu Mai", "42.0", 120, nil},
		{SpringRollsID, DimSumExpressID, "Spring Rolls", "28.0", 150, nil},
		{BeefBrisketNoodlesID, NoodleHouseID, "Beef Brisket Noodles", "56.0", 80, map[string]any{
			"spiceLevels": []any{"mild", "medium", "hot"},
		}},
		{WontonNoodlesID, NoodleHouseID, "Wonton Noodles", "52.0", 90, nil},
	}

	for _, s := range rows {
		m, err := catalog.NewMenuItem(s.id, s.restaurant, s.name, decimal.RequireFromString(s.price), s.options, s.stock)
		if err != nil {
			return err
		}
		if err = uow.MenuItems().Add(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func loadCoupons(ctx context.Context, uow ports.UnitOfWork, now time.Time) error {
	welcome, err := coupon.NewCoupon(Welcome10ID, "WELCOME10", coupon.Percent, decimal.NewFromInt(10),
		coupon.Terms{UsageLimit: 1000}, now)
	if err != nil {
		return err
	}
	save, err := coupon.NewCoupon(Save20ID, "SAVE20", coupon.Amount, decimal.NewFromInt(20),
		coupon.Terms{MinOrderAmount: decimal.NewFromInt(60)}, now)
	if err != nil {
		return err
	}

	for _, c := range []*coupon.Coupon{welcome, save} {
		if err = uow.Coupons().Add(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
