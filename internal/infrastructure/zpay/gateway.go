package zpay

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
)

const DefaultSubmitURL = "https://zpayz.cn/submit.php"

type Config struct {
	PID        string
	Key        string
	SubmitURL  string
	AppBaseURL string
}

type Gateway struct {
	cfg Config
}

func NewGateway(cfg Config) *Gateway {
	if cfg.SubmitURL == "" {
		cfg.SubmitURL = DefaultSubmitURL
	}
	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")
	return &Gateway{cfg: cfg}
}

func (g *Gateway) MerchantID() string {
	return g.cfg.PID
}

// BuildRedirect encodes the purchase intent as signed submit form fields.
func (g *Gateway) BuildRedirect(order *domain.PaymentOrder) (*domain.RedirectDescriptor, error) {
	if order == nil || order.OutTradeNo == "" {
		return nil, errors.New("order number is required")
	}

	fields := map[string]string{
		"name":         fmt.Sprintf("AI绘图点数充值 %d点", order.Credits),
		"money":        order.Amount.StringFixed(2),
		"type":         string(order.PaymentType),
		"out_trade_no": order.OutTradeNo,
		"notify_url":   g.cfg.AppBaseURL + "/api/payment/webhook",
		"pid":          g.cfg.PID,
		"return_url":   fmt.Sprintf("%s/protected?order=%s", g.cfg.AppBaseURL, order.OutTradeNo),
		FieldSignType:  SignTypeMD5,
	}
	fields[FieldSign] = Sign(fields, g.cfg.Key)

	query := url.Values{}
	for k, v := range fields {
		query.Set(k, v)
	}

	return &domain.RedirectDescriptor{
		URL:        g.cfg.SubmitURL + "?" + query.Encode(),
		OutTradeNo: order.OutTradeNo,
		Fields:     fields,
	}, nil
}

func (g *Gateway) VerifyNotification(params map[string]string) bool {
	return Verify(params, g.cfg.Key)
}
