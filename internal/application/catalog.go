package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"nomadpi-assistant/internal/domain"
)

// gpsAliases seed every state-source catalog.
var gpsAliases = []string{"Location", "Position", "Current location", "Geolocation"}

type sourceGroup struct {
	kind    domain.ResourceType
	aliases func(r domain.Resource) []string
}

// stateSourceGroups fixes the order groups appear in the state-source catalog.
var stateSourceGroups = []sourceGroup{
	{domain.ResourceWaterTank, func(r domain.Resource) []string {
		n := r.Name
		return []string{n, n + " tank", n + " water tank", n + " level", n + " remaining water", n + " left water"}
	}},
	{domain.ResourceSensor, func(r domain.Resource) []string {
		return []string{r.Name, r.SensorType + " " + r.Name}
	}},
	{domain.ResourceBattery, func(r domain.Resource) []string {
		return []string{r.Name, r.Name + " battery"}
	}},
	{domain.ResourceCamera, func(r domain.Resource) []string {
		return []string{r.Name, r.Name + " camera"}
	}},
	{domain.ResourceTemperatureSensor, func(r domain.Resource) []string {
		return []string{r.Name, r.Name + " temperature"}
	}},
	{domain.ResourceSolarChargeController, func(r domain.Resource) []string {
		n := r.Name
		return []string{n, n + " solar charger", n + " mppt charger", n + " charger"}
	}},
}

// CatalogBuilder produces the alias vocabularies the intent resolver matches
// free text against. Catalogs are rebuilt from the backend on every call.
type CatalogBuilder struct {
	backend  Backend
	switches *UsedSwitchResolver
	logger   *slog.Logger
}

func NewCatalogBuilder(backend Backend, logger *slog.Logger) *CatalogBuilder {
	return &CatalogBuilder{
		backend:  backend,
		switches: NewUsedSwitchResolver(backend),
		logger:   logger,
	}
}

// Switches returns one option per used switch.
func (b *CatalogBuilder) Switches(ctx context.Context) ([]domain.Option, error) {
	used, err := b.switches.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(used))
	for _, sw := range used {
		aliases := []string{sw.Name}
		if sw.Type == domain.ResourceMode {
			aliases = append(aliases, sw.Name+" mode")
		}
		options = append(options, domain.NewOption(sw.CompositeID().String(), aliases...))
	}

	b.logger.Debug("built switch catalog", "options", len(options))
	return options, nil
}

// StateSources returns every readable resource. All backend reads run
// concurrently and any failure discards the whole catalog.
func (b *CatalogBuilder) StateSources(ctx context.Context) ([]domain.Option, error) {
	records := make([][]domain.Resource, len(stateSourceGroups))
	var used []domain.UsedSwitch

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range stateSourceGroups {
		i, group := i, group
		g.Go(func() error {
			collection, err := domain.CollectionFor(group.kind)
			if err != nil {
				return err
			}
			return fetch(gctx, b.backend, collection, &records[i])
		})
	}
	g.Go(func() error {
		var err error
		used, err = b.switches.Resolve(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	options := []domain.Option{domain.NewOption(domain.GPSSourceID, gpsAliases...)}
	for i, group := range stateSourceGroups {
		for _, rec := range records[i] {
			value := domain.NewCompositeID(group.kind, string(rec.ID))
			options = append(options, domain.NewOption(value.String(), group.aliases(rec)...))
		}
	}
	for _, sw := range used {
		aliases := []string{sw.Name, sw.Name + " switch"}
		if sw.Type == domain.ResourceMode {
			aliases = append(aliases, sw.Name+" mode")
		}
		options = append(options, domain.NewOption(sw.CompositeID().String(), aliases...))
	}

	b.logger.Debug("built state source catalog", "options", len(options))
	return options, nil
}
