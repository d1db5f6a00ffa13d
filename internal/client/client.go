// Package client отправляет результаты забега на сервер. Если сервер
// недоступен по сети, тот же запрос выполняется на локальной базе SQLite.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
)

// defaultTimeout — таймаут одного запроса к серверу.
const defaultTimeout = 5 * time.Second

// APIError — сервер ответил, но не 2xx. Офлайн-режим для неё не включается.
type APIError struct {
	Status int    // HTTP-статус
	Code   string // Код из тела {"error": "..."}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("сервер ответил %d: %s", e.Status, e.Code)
}

// NetworkError — до сервера не достучались.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("сервер недоступен: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client — HTTP-клиент API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиент для сервера baseURL (например, http://localhost:3000).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Submit отправляет POST /api/scores.
func (c *Client) Submit(ctx context.Context, req submissions.Request) (*submissions.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка кодирования запроса: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var e common.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, &APIError{Status: resp.StatusCode, Code: e.Error}
	}

	var out submissions.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	return &out, nil
}
