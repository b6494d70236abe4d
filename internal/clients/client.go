// Package clients содержит тонкие HTTP-обёртки над удалёнными справочниками.
// Никакой защитной логики здесь нет: retry, breaker и rate limiter живут
// уровнем выше, в resilience-фасадах.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrNotFound — зависимость ответила, что сущности с таким id нет.
	ErrNotFound = errors.New("remote entity not found")
	// ErrConnection — транспортный сбой: до зависимости не удалось достучаться.
	ErrConnection = errors.New("remote connection failure")
)

const defaultTimeout = 5 * time.Second

// defaultHTTPClient возвращает клиент с разумным таймаутом на один вызов.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// do выполняет запрос и нормализует транспортные ошибки и статусы.
// Тело успешного ответа декодируется в out (если out != nil).
func do(ctx context.Context, hc *http.Client, method, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		// Дедлайн вызова оставляем как есть — выше он классифицируется как timeout.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("call %s: %w", url, err)
		}
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
