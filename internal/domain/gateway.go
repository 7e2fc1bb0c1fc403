package domain

type RedirectDescriptor struct {
	URL        string
	OutTradeNo string
	Fields     map[string]string
}

// PaymentGateway builds signed redirects and authenticates inbound notifications.
type PaymentGateway interface {
	BuildRedirect(order *PaymentOrder) (*RedirectDescriptor, error)
	VerifyNotification(params map[string]string) bool
	MerchantID() string
}
