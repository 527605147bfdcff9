package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/domain"
)

func TestCatalogBuilder_Switches(t *testing.T) {
	builder := application.NewCatalogBuilder(newFakeBackend(vanBackend()), discardLogger())

	options, err := builder.Switches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Option{
		{Value: "relay-1", Aliases: []string{"Ceiling lights"}},
		{Value: "wifi_relay-w1", Aliases: []string{"Awning light"}},
		{Value: "mode-4", Aliases: []string{"Night", "Night mode"}},
	}, options)
}

func TestCatalogBuilder_StateSources(t *testing.T) {
	builder := application.NewCatalogBuilder(newFakeBackend(vanBackend()), discardLogger())

	options, err := builder.StateSources(context.Background())
	require.NoError(t, err)

	want := []domain.Option{
		{Value: "gps", Aliases: []string{"Location", "Position", "Current location", "Geolocation"}},
		{Value: "water_tank-3", Aliases: []string{"Fresh", "Fresh tank", "Fresh water tank", "Fresh level", "Fresh remaining water", "Fresh left water"}},
		{Value: "water_tank-5", Aliases: []string{"Grey", "Grey tank", "Grey water tank", "Grey level", "Grey remaining water", "Grey left water"}},
		{Value: "sensor-11", Aliases: []string{"Door", "contact Door"}},
		{Value: "battery-1", Aliases: []string{"House", "House battery"}},
		{Value: "camera-2", Aliases: []string{"Rear", "Rear camera"}},
		{Value: "temperature_sensor-6", Aliases: []string{"Fridge", "Fridge temperature"}},
		{Value: "solar_charge_controller-8", Aliases: []string{"Roof", "Roof solar charger", "Roof mppt charger", "Roof charger"}},
		{Value: "relay-1", Aliases: []string{"Ceiling lights", "Ceiling lights switch"}},
		{Value: "wifi_relay-w1", Aliases: []string{"Awning light", "Awning light switch"}},
		{Value: "mode-4", Aliases: []string{"Night", "Night switch", "Night mode"}},
	}
	assert.Equal(t, want, options)
}

func TestCatalogBuilder_StateSourcesGroupOrder(t *testing.T) {
	responses := vanBackend()
	responses["water_tanks"] = `[{"id":5,"name":"Grey"},{"id":3,"name":"Fresh"}]`
	responses["batteries"] = `[{"id":2,"name":"Starter"},{"id":1,"name":"House"}]`
	responses["relays"] = `[{"id":2,"name":"Water pump"},{"id":1,"name":"Ceiling lights"}]`

	options, err := application.NewCatalogBuilder(newFakeBackend(responses), discardLogger()).
		StateSources(context.Background())
	require.NoError(t, err)

	var values []string
	for _, opt := range options {
		values = append(values, opt.Value)
	}
	assert.Equal(t, []string{
		"gps",
		"water_tank-5", "water_tank-3",
		"sensor-11",
		"battery-2", "battery-1",
		"camera-2",
		"temperature_sensor-6",
		"solar_charge_controller-8",
		"relay-1", "wifi_relay-w1", "mode-4",
	}, values)
}

func TestCatalogBuilder_StateSourcesEmptyBackend(t *testing.T) {
	responses := map[string]string{"switch_groups": `[]`}
	for _, c := range []string{"relays", "wifi_relays", "modes", "action_switches", "water_tanks", "sensors", "batteries", "cameras", "temperature_sensors", "solar_charge_controllers"} {
		responses[c] = `[]`
	}

	options, err := application.NewCatalogBuilder(newFakeBackend(responses), discardLogger()).
		StateSources(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "gps", options[0].Value)
}

func TestCatalogBuilder_StateSourcesAllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *fakeBackend)
	}{
		{
			name: "error payload",
			setup: func(b *fakeBackend) {
				b.responses["cameras"] = `{"error":"camera service offline"}`
			},
		},
		{
			name: "transport failure",
			setup: func(b *fakeBackend) {
				b.failures["sensors"] = &domain.IntegrationError{Path: "sensors", Timeout: true, Err: errors.New("deadline")}
			},
		},
		{
			name: "switch groups failure",
			setup: func(b *fakeBackend) {
				b.responses["switch_groups"] = `{"error":true}`
			},
		},
		{
			name: "undecodable listing",
			setup: func(b *fakeBackend) {
				b.responses["batteries"] = `"not a list"`
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(vanBackend())
			tt.setup(backend)

			options, err := application.NewCatalogBuilder(backend, discardLogger()).StateSources(context.Background())
			assert.Nil(t, options)

			var integration *domain.IntegrationError
			require.True(t, errors.As(err, &integration), "got %v", err)
		})
	}
}

func TestCatalogBuilder_AliasesNonEmpty(t *testing.T) {
	responses := vanBackend()
	responses["batteries"] = `[{"id":1,"name":""}]`

	options, err := application.NewCatalogBuilder(newFakeBackend(responses), discardLogger()).
		StateSources(context.Background())
	require.NoError(t, err)

	for _, opt := range options {
		for _, alias := range opt.Aliases {
			assert.NotEmpty(t, alias, opt.Value)
		}
		if strings.HasPrefix(opt.Value, "battery-") {
			assert.Equal(t, []string{" battery"}, opt.Aliases)
		}
	}
}
