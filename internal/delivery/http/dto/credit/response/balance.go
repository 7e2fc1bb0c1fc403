package response

type BalanceResponse struct {
	Credits int64 `json:"credits"`
}
