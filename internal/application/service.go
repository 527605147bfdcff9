package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"nomadpi-assistant/internal/domain"
)

const (
	FunctionReadState = "read_state"
	FunctionToggle    = "toggle"
)

// Service exposes the device API to the assistant: two alias catalogs and a
// dispatch table of callable functions.
type Service struct {
	backend    Backend
	summarizer Summarizer
	catalog    *CatalogBuilder
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewService(backend Backend, summarizer Summarizer, logger *slog.Logger) *Service {
	s := &Service{
		backend:    backend,
		summarizer: summarizer,
		catalog:    NewCatalogBuilder(backend, logger),
		dispatcher: NewDispatcher(logger),
		logger:     logger,
	}

	s.dispatcher.Register(Function{
		Name:        FunctionReadState,
		Description: "Read the current state of a state source and answer the original prompt.",
		Required:    []string{"source_id", "original_prompt"},
		Handler:     s.readState,
	})
	s.dispatcher.Register(Function{
		Name:        FunctionToggle,
		Description: "Turn a switch on or off.",
		Required:    []string{"switch_name", "state"},
		Handler:     s.toggle,
	})

	return s
}

func (s *Service) Dispatch(ctx context.Context, name string, args Args) (any, error) {
	return s.dispatcher.Dispatch(ctx, name, args)
}

func (s *Service) Functions() []Function {
	return s.dispatcher.Functions()
}

func (s *Service) StateSources(ctx context.Context) ([]domain.Option, error) {
	return s.catalog.StateSources(ctx)
}

func (s *Service) Switches(ctx context.Context) ([]domain.Option, error) {
	return s.catalog.Switches(ctx)
}

func (s *Service) readState(ctx context.Context, args Args) (any, error) {
	sourceID := args.String("source_id")

	state, err := s.currentState(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	result, err := s.summarizer.Summarize(ctx, StateReport{
		SourceID:       sourceID,
		OriginalPrompt: args.String("original_prompt"),
		State:          state,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", sourceID, err)
	}
	return result, nil
}

func (s *Service) currentState(ctx context.Context, sourceID string) (json.RawMessage, error) {
	if sourceID == domain.GPSSourceID {
		var location json.RawMessage
		if err := fetch(ctx, s.backend, domain.GPSStatePath, &location); err != nil {
			return nil, err
		}
		return location, nil
	}

	kind, id, err := domain.CompositeID(sourceID).Split()
	if err != nil {
		return nil, err
	}
	collection, err := domain.CollectionFor(kind)
	if err != nil {
		return nil, err
	}

	var states map[string]json.RawMessage
	if err := fetch(ctx, s.backend, collection+"/state", &states); err != nil {
		return nil, err
	}

	state, ok := states[id]
	if !ok || bytes.Equal(bytes.TrimSpace(state), []byte("null")) {
		return nil, &domain.ResourceNotFoundError{Type: kind, ID: id}
	}
	return state, nil
}

// toggle returns the backend reply verbatim. A 2xx {"error": ...} body is not
// turned into an error here, so callers must inspect the result.
func (s *Service) toggle(ctx context.Context, args Args) (any, error) {
	switchName := args.String("switch_name")

	kind, id, err := domain.CompositeID(switchName).Split()
	if err != nil {
		return nil, err
	}
	collection, err := domain.CollectionFor(kind)
	if err != nil {
		return nil, err
	}

	req := domain.ToggleRequest{
		State: args.String("state") == "on",
		Actor: switchName,
	}
	s.logger.Info("toggling switch", "switch_name", switchName, "state", req.State)

	resp, err := s.backend.Post(ctx, fmt.Sprintf("%s/%s/state", collection, id), req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
