// Package paymentprovider реализует клиент внешнего платёжного шлюза:
// создание продукта, цены, сессии оплаты и запрос статуса сессии.
// Клиент не делает повторных попыток, каждый вызов ограничен таймаутом.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrGatewayUnavailable возвращается при любой ошибке обращения к шлюзу.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client клиент платёжного шлюза.
type Client struct {
	secretKey  string
	apiURL     string
	successURL string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного шлюза.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		successURL: "http://127.0.0.1:8080/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		// Шлюз дедуплицирует повторно отправленные запросы по этому ключу.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: unexpected status %s", ErrGatewayUnavailable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	return nil
}

// CreateProduct создаёт в шлюзе продукт с заданным названием и возвращает его ID.
func (c *Client) CreateProduct(ctx context.Context, name string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/products", CreateProductRequest{Name: name})
	if err != nil {
		return "", err
	}
	var resp CreateProductResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreatePrice создаёт цену для продукта. Сумма — в минорных единицах валюты.
func (c *Client) CreatePrice(ctx context.Context, productID string, amountMinor int64) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/prices", CreatePriceRequest{
		Product:    productID,
		Currency:   "rub",
		UnitAmount: amountMinor,
	})
	if err != nil {
		return "", err
	}
	var resp CreatePriceResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateSession создаёт сессию оплаты и возвращает её ID и ссылку для оплаты.
func (c *Client) CreateSession(ctx context.Context, priceID string) (string, string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", CreateSessionRequest{
		Price:      priceID,
		Quantity:   1,
		Mode:       "payment",
		SuccessURL: c.successURL,
	})
	if err != nil {
		return "", "", err
	}
	var resp CreateSessionResponse
	if err := c.do(req, &resp); err != nil {
		return "", "", err
	}
	return resp.ID, resp.URL, nil
}

// GetStatus возвращает статус сессии оплаты без преобразований.
func (c *Client) GetStatus(ctx context.Context, sessionID string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return "", err
	}
	var resp SessionStatusResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.PaymentStatus, nil
}
