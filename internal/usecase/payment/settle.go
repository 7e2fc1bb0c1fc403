package payment

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Settle applies an inbound gateway notification. Each step is a
// precondition for the next and nothing is read from params before the
// signature is verified.
func (uc *DefaultPaymentUsecase) Settle(ctx context.Context, params map[string]string) (domain.SettleResult, error) {
	if !uc.Gateway.VerifyNotification(params) {
		uc.recordSettlement("invalid_signature")
		uc.Logger.Warn("payment notification rejected: bad signature",
			zap.String("out_trade_no", params["out_trade_no"]),
		)
		return "", domain.ErrInvalidSignature
	}

	outTradeNo := params["out_trade_no"]
	tradeNo := params["trade_no"]
	money := params["money"]
	tradeStatus := params["trade_status"]
	if outTradeNo == "" || tradeNo == "" || money == "" || tradeStatus == "" {
		uc.recordSettlement("malformed")
		return "", fmt.Errorf("%w: missing required field", domain.ErrMalformedNotification)
	}
	if pid := params["pid"]; pid != "" && pid != uc.Gateway.MerchantID() {
		uc.recordSettlement("malformed")
		return "", fmt.Errorf("%w: unexpected merchant %s", domain.ErrMalformedNotification, pid)
	}

	log := uc.Logger.With(
		zap.String("out_trade_no", outTradeNo),
		zap.String("trade_no", tradeNo),
		zap.String("trade_status", tradeStatus),
	)

	if tradeStatus != TradeStatusSuccess {
		uc.recordSettlement("ignored")
		log.Info("payment notification acknowledged without settlement")
		return domain.SettleIgnored, nil
	}

	paid, err := decimal.NewFromString(money)
	if err != nil {
		uc.recordSettlement("malformed")
		log.Warn("payment notification carries unparsable money", zap.String("money", money))
		return "", fmt.Errorf("%w: bad money %q", domain.ErrMalformedNotification, money)
	}

	order, err := uc.Store.Payments().GetByOutTradeNo(ctx, outTradeNo)
	if err != nil {
		uc.recordSettlement("lookup_failed")
		log.Warn("payment notification for unknown order", zap.Error(err))
		return "", err
	}
	log = log.With(zap.String("user_id", order.UserID))

	if paid.Sub(order.Amount).Abs().GreaterThan(uc.AmountTolerance) {
		return "", uc.rejectAmount(ctx, log, order, paid, params)
	}

	switch order.Status {
	case domain.PaymentSuccess:
		uc.recordSettlement("duplicate")
		log.Info("payment notification already applied")
		return domain.SettleAlreadyPaid, nil
	case domain.PaymentCancelled, domain.PaymentFailed:
		uc.recordSettlement("inactive")
		log.Error("paid notification for inactive order, credits not applied",
			zap.String("status", string(order.Status)),
			zap.String("money", money),
		)
		return domain.SettleOrderInactive, nil
	}

	applied := false
	paidAt := uc.now()
	err = uc.Store.InTx(ctx, func(tx domain.Store) error {
		applied = false
		moved, err := tx.Payments().Transition(ctx, outTradeNo, domain.PaymentPending, domain.PaymentSuccess, domain.PaymentUpdate{
			TradeNo:    tradeNo,
			NotifyData: params,
			PaidAt:     &paidAt,
		})
		if err != nil || !moved {
			return err
		}
		if err := uc.Ledger.Credit(ctx, tx, order.UserID, order.Credits, domain.ReasonPurchase); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		uc.recordSettlement("error")
		log.Error("payment settlement failed", zap.Error(err))
		return "", err
	}

	if !applied {
		return uc.resolveLostRace(ctx, log, outTradeNo)
	}

	order.Status = domain.PaymentSuccess
	order.TradeNo = tradeNo
	order.PaidAt = &paidAt
	uc.recordSettled(order)
	uc.publish(order, "settled")
	log.Info("payment settled", zap.Int64("credits", order.Credits))
	return domain.SettleApplied, nil
}

// rejectAmount fails a pending order whose reported amount is off and keeps
// the notification for audit.
func (uc *DefaultPaymentUsecase) rejectAmount(ctx context.Context, log *zap.Logger, order *domain.PaymentOrder, paid decimal.Decimal, params map[string]string) error {
	uc.recordSettlement("amount_mismatch")
	log.Error("payment amount mismatch",
		zap.String("expected", order.Amount.StringFixed(2)),
		zap.String("paid", paid.String()),
	)

	moved := false
	err := uc.Store.InTx(ctx, func(tx domain.Store) error {
		var err error
		moved, err = tx.Payments().Transition(ctx, order.OutTradeNo, domain.PaymentPending, domain.PaymentFailed, domain.PaymentUpdate{
			TradeNo:    params["trade_no"],
			NotifyData: params,
		})
		return err
	})
	if err != nil {
		log.Error("failed to mark order failed after amount mismatch", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrAmountMismatch, err)
	}
	if moved {
		order.Status = domain.PaymentFailed
		uc.publish(order, "failed")
	}
	return domain.ErrAmountMismatch
}

// resolveLostRace handles a guard that matched no row: another delivery
// settled the order first or the order left pending meanwhile.
func (uc *DefaultPaymentUsecase) resolveLostRace(ctx context.Context, log *zap.Logger, outTradeNo string) (domain.SettleResult, error) {
	current, err := uc.Store.Payments().GetByOutTradeNo(ctx, outTradeNo)
	if err != nil {
		return "", err
	}

	switch current.Status {
	case domain.PaymentSuccess:
		uc.recordSettlement("duplicate")
		log.Info("concurrent delivery already settled the order")
		return domain.SettleAlreadyPaid, nil
	case domain.PaymentPending:
		return "", fmt.Errorf("order %s still pending after settlement: %w", outTradeNo, domain.ErrStoreConflict)
	default:
		uc.recordSettlement("inactive")
		log.Error("order left pending before settlement, credits not applied",
			zap.String("status", string(current.Status)),
		)
		return domain.SettleOrderInactive, nil
	}
}
