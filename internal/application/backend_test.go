package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/domain"
)

type postCall struct {
	path string
	body string
}

// fakeBackend serves canned JSON bodies keyed by path and records calls.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	postReply string
	gets      []string
	posts     []postCall
}

func newFakeBackend(responses map[string]string) *fakeBackend {
	return &fakeBackend{
		responses: responses,
		failures:  make(map[string]error),
		postReply: `{"ok":true}`,
	}
}

func (f *fakeBackend) Get(_ context.Context, path string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, path)

	if err, ok := f.failures[path]; ok {
		return nil, err
	}
	body, ok := f.responses[path]
	if !ok {
		return nil, &domain.IntegrationError{Path: path, Status: 404, Err: errors.New("not found")}
	}
	return json.RawMessage(body), nil
}

func (f *fakeBackend) Post(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	f.posts = append(f.posts, postCall{path: path, body: string(encoded)})

	if err, ok := f.failures[path]; ok {
		return nil, err
	}
	return json.RawMessage(f.postReply), nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gets) + len(f.posts)
}

type recordingSummarizer struct {
	reports []application.StateReport
	reply   string
	err     error
}

func (r *recordingSummarizer) Summarize(_ context.Context, report application.StateReport) (any, error) {
	r.reports = append(r.reports, report)
	if r.err != nil {
		return nil, r.err
	}
	return r.reply, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// vanBackend is a small but complete device API.
func vanBackend() map[string]string {
	return map[string]string{
		"switch_groups": `[
			{"id":1,"name":"Living","switches":"[{\"switch_type\":\"relay\",\"switch_id\":1},{\"switch_type\":\"mode\",\"switch_id\":4}]"},
			{"id":2,"name":"Outside","switches":"[{\"switch_type\":\"wifi_relay\",\"switch_id\":\"w1\"}]"}
		]`,
		"relays":                   `[{"id":1,"name":"Ceiling lights"},{"id":2,"name":"Water pump"}]`,
		"wifi_relays":              `[{"id":"w1","name":"Awning light"}]`,
		"modes":                    `[{"id":4,"name":"Night"}]`,
		"action_switches":          `[{"id":9,"name":"Doorbell"}]`,
		"water_tanks":              `[{"id":3,"name":"Fresh"},{"id":5,"name":"Grey"}]`,
		"sensors":                  `[{"id":11,"name":"Door","sensor_type":"contact"}]`,
		"batteries":                `[{"id":1,"name":"House"}]`,
		"cameras":                  `[{"id":2,"name":"Rear"}]`,
		"temperature_sensors":      `[{"id":6,"name":"Fridge"}]`,
		"solar_charge_controllers": `[{"id":8,"name":"Roof"}]`,
		"water_tanks/state":        `{"3":{"level":72},"5":{"level":10}}`,
		"relays/state":             `{"1":{"state":true}}`,
		"gps/state":                `{"latitude":46.5,"longitude":6.6}`,
	}
}
