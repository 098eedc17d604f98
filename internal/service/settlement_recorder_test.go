package service

import (
	"errors"
	"testing"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"gorm.io/gorm"
)

func TestRecordIsIdempotent(t *testing.T) {
	db := setupServiceTestDB(t, "recorder_idempotent")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("total", money("27.50")).Error; err != nil {
		t.Fatalf("set total failed: %v", err)
	}

	first, err := svc.recorder.Record(nil, reloadOrder(t, db, order.ID), "Mobile_Money", 5)
	if err != nil || first == nil {
		t.Fatalf("first record failed: %+v %v", first, err)
	}
	second, err := svc.recorder.Record(nil, reloadOrder(t, db, order.ID), "Mobile_Money", 5)
	if err != nil || second != nil {
		t.Fatalf("second record must be a no-op: %+v %v", second, err)
	}
	if count := countTransactions(t, db, order.ID); count != 1 {
		t.Fatalf("want 1 transaction got %d", count)
	}

	// 过期的订单快照不带 transaction_id，回写失败时流水也必须回滚
	stale := reloadOrder(t, db, order.ID)
	stale.TransactionID = nil
	if _, err := svc.recorder.Record(nil, stale, "Mobile_Money", 5); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("stale record want ErrAlreadyPaid got %v", err)
	}
	if count := countTransactions(t, db, order.ID); count != 1 {
		t.Fatalf("stale record must not leave a row, got %d", count)
	}

	if first.MerchantID != testRestaurantID || first.CustomerID != 42 {
		t.Fatalf("unexpected parties: %+v", first)
	}
	if !first.TransactionAmount.Equal(dec("27.50")) || !first.MerchantReceives.Equal(dec("27.50")) || !first.ProviderFee.IsZero() {
		t.Fatalf("unexpected amounts: %+v", first)
	}
	if first.TransactionStatus != constants.TransactionStatusSuccess || first.SettlementStatus != constants.SettlementStatusNotSettled {
		t.Fatalf("unexpected statuses: %+v", first)
	}
	if first.PaymentProvider != constants.TransactionProviderInHouse || first.MerchantReference == "" || first.Currency != constants.DefaultCurrency {
		t.Fatalf("unexpected provider fields: %+v", first)
	}
	if stored := reloadOrder(t, db, order.ID); stored.TransactionID == nil || *stored.TransactionID != first.ID {
		t.Fatalf("transaction id not stored on order")
	}
}

func TestRecordSkipsOrderWithoutCustomer(t *testing.T) {
	db := setupServiceTestDB(t, "recorder_no_customer")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, nil)

	txn, err := svc.recorder.Record(nil, order, "Cash", 1)
	if err != nil || txn != nil {
		t.Fatalf("want nil,nil got %+v,%v", txn, err)
	}
	if count := countTransactions(t, db, order.ID); count != 0 {
		t.Fatalf("want no transaction got %d", count)
	}
}

func TestRecordRollsBackWhenAttachLoses(t *testing.T) {
	db := setupServiceTestDB(t, "recorder_attach_race")
	seedCatalog(t, db)
	svc := newTestServices(db)
	order := seedOrder(t, db, constants.OrderStatusServed, uintPtr(42))
	stale := reloadOrder(t, db, order.ID)

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("transaction_id", 777).Error; err != nil {
		t.Fatalf("simulate concurrent attach failed: %v", err)
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.recorder.Record(tx, stale, "Cash", 1)
		return err
	})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("want ErrAlreadyPaid got %v", err)
	}
	if count := countTransactions(t, db, order.ID); count != 0 {
		t.Fatalf("losing record must roll back, got %d rows", count)
	}
	rows, total, err := repository.NewTransactionRepository(db).ListByMerchant(repository.TransactionListFilter{MerchantID: testRestaurantID})
	if err != nil || total != 0 || len(rows) != 0 {
		t.Fatalf("expected empty ledger, got %d %v", total, err)
	}
}

func TestCanonicalTransactionMethod(t *testing.T) {
	cases := map[string]string{
		"Cash":         constants.TransactionMethodCash,
		"Card":         constants.TransactionMethodBankCard,
		"Mobile_Money": constants.TransactionMethodMobileMoney,
		"Voucher":      constants.TransactionMethodCash,
		"":             constants.TransactionMethodCash,
	}
	for in, want := range cases {
		if got := CanonicalTransactionMethod(in); got != want {
			t.Fatalf("%q: want %s got %s", in, want, got)
		}
	}
}
