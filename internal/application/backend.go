package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"nomadpi-assistant/internal/domain"
)

// Backend is the device-control API. Paths are relative to its base URL,
// e.g. "relays" or "relays/7/state".
type Backend interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// fetch GETs path and decodes it into out. The backend reports failures as a
// 2xx {"error": ...} object, which is turned into an IntegrationError.
func fetch(ctx context.Context, backend Backend, path string, out any) error {
	raw, err := backend.Get(ctx, path)
	if err != nil {
		return err
	}
	if msg, ok := errorPayload(raw); ok {
		return &domain.IntegrationError{Path: path, Err: fmt.Errorf("error payload: %s", msg)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.IntegrationError{Path: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func errorPayload(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return "", false
	}
	switch string(payload.Error) {
	case "", "null", "false", `""`:
		return "", false
	}
	return string(payload.Error), true
}
