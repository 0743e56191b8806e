package paymentprovider

// CreateProductRequest запрос на создание продукта в шлюзе.
type CreateProductRequest struct {
	Name string `json:"name"`
}

// CreateProductResponse ответ шлюза с идентификатором продукта.
type CreateProductResponse struct {
	ID string `json:"id"`
}

// CreatePriceRequest запрос на создание цены. Сумма передаётся в минорных
// единицах валюты (копейках).
type CreatePriceRequest struct {
	Product    string `json:"product"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
}

// CreatePriceResponse ответ шлюза с идентификатором цены.
type CreatePriceResponse struct {
	ID string `json:"id"`
}

// CreateSessionRequest запрос на создание сессии оплаты.
type CreateSessionRequest struct {
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	Mode       string `json:"mode"`
	SuccessURL string `json:"success_url"`
}

// CreateSessionResponse ответ шлюза с идентификатором сессии и ссылкой на оплату.
type CreateSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatusResponse ответ шлюза о текущем статусе сессии оплаты.
type SessionStatusResponse struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
}
