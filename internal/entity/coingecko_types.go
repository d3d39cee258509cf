package entity

// SimplePriceResponse is the body of CoinGecko's /simple/price endpoint:
// price-feed id -> vs currency -> price. Ids CoinGecko does not know are absent.
type SimplePriceResponse map[string]map[string]float64

// APIError is the error envelope CoinGecko returns on rate limiting and bad requests.
type APIError struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Error string `json:"error"`
}

// Message returns whichever error text the envelope carries.
func (e APIError) Message() string {
	if e.Status.ErrorMessage != "" {
		return e.Status.ErrorMessage
	}
	return e.Error
}
