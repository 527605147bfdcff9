package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"nomadpi-assistant/internal/domain"
)

// Args are the arguments of one function call, as decoded from JSON.
type Args map[string]any

// String returns the argument as text. Missing and null arguments are "";
// numbers and booleans keep their JSON spelling.
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Function is one dispatch table entry. Required arguments are checked
// before Handler runs.
type Function struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required"`

	Handler HandlerFunc `json:"-"`
}

type Dispatcher struct {
	functions map[string]Function
	order     []string
	logger    *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		functions: make(map[string]Function),
		logger:    logger,
	}
}

// Register adds fn, replacing any function with the same name.
func (d *Dispatcher) Register(fn Function) {
	if _, exists := d.functions[fn.Name]; !exists {
		d.order = append(d.order, fn.Name)
	}
	d.functions[fn.Name] = fn
}

// Functions lists the registered functions in registration order.
func (d *Dispatcher) Functions() []Function {
	result := make([]Function, 0, len(d.order))
	for _, name := range d.order {
		result = append(result, d.functions[name])
	}
	return result
}

func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args) (any, error) {
	fn, ok := d.functions[name]
	if !ok {
		return nil, &domain.UnsupportedFunctionError{Name: name}
	}

	for _, field := range fn.Required {
		if args.String(field) == "" {
			return nil, &domain.ValidationError{Field: field}
		}
	}

	start := time.Now()
	result, err := fn.Handler(ctx, args)
	if err != nil {
		d.logger.Warn("function failed", "function", name, "duration", time.Since(start), "error", err)
		return nil, err
	}

	d.logger.Info("function executed", "function", name, "duration", time.Since(start))
	return result, nil
}
