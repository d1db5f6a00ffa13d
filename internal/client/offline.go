package client

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/features/submissions"
)

// Submitter — то, что умеет принять результат (submissions.Service).
type Submitter interface {
	Submit(ctx context.Context, req submissions.Request) (*submissions.Result, error)
}

// OpenOffline открывает локальное хранилище по требованию.
// Возвращённую функцию закрытия надо вызвать после отправки.
type OpenOffline func(ctx context.Context) (Submitter, func(), error)

// SubmitWithFallback отправляет результат на сервер, а при сетевой ошибке
// записывает его в локальную базу. Ответ сервера с ошибкой (4xx/5xx)
// возвращается как есть.
func SubmitWithFallback(ctx context.Context, c *Client, req submissions.Request, open OpenOffline) (*submissions.Response, error) {
	resp, err := c.Submit(ctx, req)
	if err == nil {
		return resp, nil
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) || open == nil {
		return nil, err
	}
	log.WithError(err).Warn("Сервер недоступен, записываем результат локально")

	local, closeFn, openErr := open(ctx)
	if openErr != nil {
		return nil, fmt.Errorf("%v; офлайн-база: %w", err, openErr)
	}
	defer closeFn()

	result, err := local.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	out := result.Response()
	return &out, nil
}
