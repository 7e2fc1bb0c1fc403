package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/testdb"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/zpay"
	"github.com/LavaJover/shvark-credit-service/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPID = "1001"
	testKey = "secret"
)

type fixture struct {
	uc      *DefaultPaymentUsecase
	store   *repository.GormStore
	ledger  *usecase.DefaultCreditUsecase
	metrics *metrics.CreditMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewGormStore(testdb.New(t), 0, 3, nil)
	m := metrics.NewCreditMetrics(prometheus.NewRegistry())
	ledger := usecase.NewDefaultCreditUsecase(store, m, nil)
	gateway := zpay.NewGateway(zpay.Config{PID: testPID, Key: testKey, AppBaseURL: "https://app.example.com"})

	uc := NewDefaultPaymentUsecase(store, ledger, gateway, nil, m, nil, decimal.Decimal{})
	return &fixture{uc: uc, store: store, ledger: ledger, metrics: m}
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return b.Credits
}

func (f *fixture) status(t *testing.T, outTradeNo string) domain.PaymentStatus {
	t.Helper()
	order, err := f.store.Payments().GetByOutTradeNo(context.Background(), outTradeNo)
	require.NoError(t, err)
	return order.Status
}

func (f *fixture) open(t *testing.T, amount string, credits int64) string {
	t.Helper()
	out, err := f.uc.OpenOrder(context.Background(), domain.OpenOrderInput{
		UserID:      "user-1",
		Amount:      decimal.RequireFromString(amount),
		Credits:     credits,
		PaymentType: domain.PaymentTypeAlipay,
	})
	require.NoError(t, err)
	return out.OutTradeNo
}

func notification(outTradeNo, money string) map[string]string {
	params := map[string]string{
		"pid":          testPID,
		"trade_no":     "2025010122001400000001",
		"out_trade_no": outTradeNo,
		"type":         "alipay",
		"name":         "AI绘图点数充值 5点",
		"money":        money,
		"trade_status": TradeStatusSuccess,
	}
	return resign(params)
}

func resign(params map[string]string) map[string]string {
	params["sign"] = zpay.Sign(params, testKey)
	params["sign_type"] = zpay.SignTypeMD5
	return params
}

func TestOpenOrder(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.OpenOrder(context.Background(), domain.OpenOrderInput{
		UserID:      "user-1",
		Amount:      decimal.RequireFromString("5"),
		Credits:     5,
		PaymentType: domain.PaymentTypeWxpay,
	})
	require.NoError(t, err)

	assert.Len(t, out.OutTradeNo, 20)
	assert.True(t, strings.HasPrefix(out.PaymentURL, zpay.DefaultSubmitURL+"?"))
	assert.Contains(t, out.PaymentURL, "out_trade_no="+out.OutTradeNo)
	assert.Contains(t, out.PaymentURL, "money=5.00")

	order, err := f.uc.CheckOrder(context.Background(), "user-1", out.OutTradeNo)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, order.Status)
	assert.Equal(t, int64(5), order.Credits)
	assert.Equal(t, domain.PaymentTypeWxpay, order.PaymentType)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PaymentOrdersOpenedTotal.WithLabelValues("wxpay")))
}

func TestOpenOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input domain.OpenOrderInput
		want  error
	}{
		{"no user", domain.OpenOrderInput{Amount: decimal.NewFromInt(5), Credits: 5, PaymentType: domain.PaymentTypeAlipay}, domain.ErrUnauthorized},
		{"bad type", domain.OpenOrderInput{UserID: "u", Amount: decimal.NewFromInt(5), Credits: 5, PaymentType: "paypal"}, domain.ErrInvalidPaymentType},
		{"zero amount", domain.OpenOrderInput{UserID: "u", Amount: decimal.Zero, Credits: 5, PaymentType: domain.PaymentTypeAlipay}, domain.ErrInvalidAmount},
		{"sub-cent amount", domain.OpenOrderInput{UserID: "u", Amount: decimal.RequireFromString("0.001"), Credits: 5, PaymentType: domain.PaymentTypeAlipay}, domain.ErrInvalidAmount},
		{"zero credits", domain.OpenOrderInput{UserID: "u", Amount: decimal.NewFromInt(5), PaymentType: domain.PaymentTypeAlipay}, domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.OpenOrder(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOpenOrder_RegeneratesCollidingNumber(t *testing.T) {
	f := newFixture(t)
	existing := f.open(t, "5", 5)

	numbers := []string{existing, existing, "20990101000000000001"}
	calls := 0
	f.uc.NewOrderNo = func(time.Time) (string, error) {
		no := numbers[calls]
		calls++
		return no, nil
	}

	out, err := f.uc.OpenOrder(context.Background(), domain.OpenOrderInput{
		UserID: "user-1", Amount: decimal.NewFromInt(1), Credits: 1, PaymentType: domain.PaymentTypeAlipay,
	})
	require.NoError(t, err)
	assert.Equal(t, "20990101000000000001", out.OutTradeNo)
	assert.Equal(t, 3, calls)
}

func TestOpenOrder_CollisionsExhausted(t *testing.T) {
	f := newFixture(t)
	existing := f.open(t, "5", 5)
	f.uc.NewOrderNo = func(time.Time) (string, error) { return existing, nil }

	_, err := f.uc.OpenOrder(context.Background(), domain.OpenOrderInput{
		UserID: "user-1", Amount: decimal.NewFromInt(1), Credits: 1, PaymentType: domain.PaymentTypeAlipay,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOrderNo)
}

func TestSettle_AppliesOnceAcrossReplays(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)
	ctx := context.Background()

	result, err := f.uc.Settle(ctx, notification(no, "5.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleApplied, result)
	assert.Equal(t, int64(5), f.balance(t, "user-1"))

	order, err := f.uc.CheckOrder(ctx, "user-1", no)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, order.Status)
	assert.Equal(t, "2025010122001400000001", order.TradeNo)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, "5.00", order.NotifyData["money"])

	result, err = f.uc.Settle(ctx, notification(no, "5.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleAlreadyPaid, result)
	assert.Equal(t, int64(5), f.balance(t, "user-1"))
	assert.Equal(t, domain.PaymentSuccess, f.status(t, no))
}

func TestSettle_ConcurrentDuplicatesCreditOnce(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.uc.Settle(context.Background(), notification(no, "5.00"))
			if assert.NoError(t, err) {
				assert.Contains(t, []domain.SettleResult{domain.SettleApplied, domain.SettleAlreadyPaid}, result)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), f.balance(t, "user-1"))
}

func TestSettle_TamperedNotification(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	params := notification(no, "5.00")
	params["money"] = "0.01"

	_, err := f.uc.Settle(context.Background(), params)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Equal(t, domain.PaymentPending, f.status(t, no))
	assert.Equal(t, int64(0), f.balance(t, "user-1"))
}

func TestSettle_MissingSign(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	params := notification(no, "5.00")
	delete(params, "sign")

	_, err := f.uc.Settle(context.Background(), params)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestSettle_MalformedNotification(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	for _, field := range []string{"out_trade_no", "trade_no", "money", "trade_status"} {
		t.Run(field, func(t *testing.T) {
			params := notification(no, "5.00")
			delete(params, field)
			_, err := f.uc.Settle(context.Background(), resign(params))
			assert.ErrorIs(t, err, domain.ErrMalformedNotification)
		})
	}

	t.Run("foreign merchant", func(t *testing.T) {
		params := notification(no, "5.00")
		params["pid"] = "9999"
		_, err := f.uc.Settle(context.Background(), resign(params))
		assert.ErrorIs(t, err, domain.ErrMalformedNotification)
	})

	t.Run("bad money", func(t *testing.T) {
		_, err := f.uc.Settle(context.Background(), notification(no, "five"))
		assert.ErrorIs(t, err, domain.ErrMalformedNotification)
	})

	assert.Equal(t, domain.PaymentPending, f.status(t, no))
}

func TestSettle_NonSuccessStatusIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	params := notification(no, "5.00")
	params["trade_status"] = "TRADE_CLOSED"

	result, err := f.uc.Settle(context.Background(), resign(params))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleIgnored, result)
	assert.Equal(t, domain.PaymentPending, f.status(t, no))
	assert.Equal(t, int64(0), f.balance(t, "user-1"))
}

func TestSettle_NonSuccessStatusWithUnparsableMoneyIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	params := notification(no, "￥5.00")
	params["trade_status"] = "WAIT_BUYER_PAY"

	result, err := f.uc.Settle(context.Background(), resign(params))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleIgnored, result)
	assert.Equal(t, domain.PaymentPending, f.status(t, no))
}

func TestSettle_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Settle(context.Background(), notification("20990101000000000001", "5.00"))
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestSettle_AmountMismatch(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	_, err := f.uc.Settle(context.Background(), notification(no, "4.98"))
	assert.ErrorIs(t, err, domain.ErrAmountMismatch)

	order, err := f.store.Payments().GetByOutTradeNo(context.Background(), no)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, order.Status)
	assert.Equal(t, "4.98", order.NotifyData["money"])
	assert.Equal(t, int64(0), f.balance(t, "user-1"))

	// a later correct notification cannot revive a failed order
	result, err := f.uc.Settle(context.Background(), notification(no, "5.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleOrderInactive, result)
	assert.Equal(t, int64(0), f.balance(t, "user-1"))
}

func TestSettle_WithinTolerance(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)

	result, err := f.uc.Settle(context.Background(), notification(no, "5.01"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleApplied, result)
	assert.Equal(t, int64(5), f.balance(t, "user-1"))
}

func TestSettle_CancelledOrderIsNotCredited(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)
	require.NoError(t, f.uc.CancelOrder(context.Background(), "user-1", no))

	result, err := f.uc.Settle(context.Background(), notification(no, "5.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleOrderInactive, result)
	assert.Equal(t, domain.PaymentCancelled, f.status(t, no))
	assert.Equal(t, int64(0), f.balance(t, "user-1"))
}

func TestSettle_DeletedOrderStillSettles(t *testing.T) {
	f := newFixture(t)
	no := f.open(t, "5", 5)
	require.NoError(t, f.uc.DeleteOrder(context.Background(), "user-1", no))

	result, err := f.uc.Settle(context.Background(), notification(no, "5.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.SettleApplied, result)
	assert.Equal(t, int64(5), f.balance(t, "user-1"))
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.open(t, "5", 5)
	require.NoError(t, f.uc.CancelOrder(ctx, "user-1", pending))
	assert.Equal(t, domain.PaymentCancelled, f.status(t, pending))
	assert.ErrorIs(t, f.uc.CancelOrder(ctx, "user-1", pending), domain.ErrInvalidTransition)

	paid := f.open(t, "5", 5)
	_, err := f.uc.Settle(ctx, notification(paid, "5.00"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.CancelOrder(ctx, "user-1", paid), domain.ErrInvalidTransition)
	assert.Equal(t, domain.PaymentSuccess, f.status(t, paid))

	other := f.open(t, "5", 5)
	assert.ErrorIs(t, f.uc.CancelOrder(ctx, "user-2", other), domain.ErrOrderNotFound)
	assert.Equal(t, domain.PaymentPending, f.status(t, other))
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	paid := f.open(t, "5", 5)
	_, err := f.uc.Settle(ctx, notification(paid, "5.00"))
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteOrder(ctx, "user-1", paid))
	assert.ErrorIs(t, f.uc.DeleteOrder(ctx, "user-1", paid), domain.ErrOrderNotFound)

	_, err = f.uc.CheckOrder(ctx, "user-1", paid)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, int64(5), f.balance(t, "user-1"))
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seq := 0
	f.uc.NewOrderNo = func(time.Time) (string, error) {
		seq++
		return fmt.Sprintf("2025010100000%07d", seq), nil
	}
	for i := 0; i < 12; i++ {
		f.open(t, "1", 1)
	}

	orders, err := f.uc.ListOrders(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, orders, DefaultOrdersLimit)

	orders, err = f.uc.ListOrders(ctx, "user-2", 0)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = f.uc.ListOrders(ctx, "", 0)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
