package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"nomadpi-assistant/internal/domain"
)

// UsedSwitchResolver finds the switches that at least one switch group
// references. Nothing is cached: every call re-reads the backend.
type UsedSwitchResolver struct {
	backend Backend
}

func NewUsedSwitchResolver(backend Backend) *UsedSwitchResolver {
	return &UsedSwitchResolver{backend: backend}
}

type switchKey struct {
	kind domain.ResourceType
	id   domain.ResourceID
}

func (r *UsedSwitchResolver) Resolve(ctx context.Context) ([]domain.UsedSwitch, error) {
	used, err := r.usedRefs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([][]domain.UsedSwitch, len(domain.SwitchCollections))
	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range domain.SwitchCollections {
		i, collection := i, collection
		g.Go(func() error {
			kind, ok := domain.TypeForCollection(collection)
			if !ok {
				return &domain.UnknownResourceTypeError{Type: collection}
			}
			var records []domain.Resource
			if err := fetch(gctx, r.backend, collection, &records); err != nil {
				return err
			}
			switches := make([]domain.UsedSwitch, 0, len(records))
			for _, rec := range records {
				switches = append(switches, domain.UsedSwitch{Type: kind, ID: rec.ID, Name: rec.Name})
			}
			candidates[i] = switches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var result []domain.UsedSwitch
	for _, group := range candidates {
		for _, sw := range group {
			if _, ok := used[switchKey{kind: sw.Type, id: sw.ID}]; ok {
				result = append(result, sw)
			}
		}
	}
	return result, nil
}

// usedRefs flattens every group's member list into a set.
func (r *UsedSwitchResolver) usedRefs(ctx context.Context) (map[switchKey]struct{}, error) {
	var groups []domain.SwitchGroup
	if err := fetch(ctx, r.backend, domain.SwitchGroupsCollection, &groups); err != nil {
		return nil, err
	}

	used := make(map[switchKey]struct{})
	for _, group := range groups {
		refs, err := group.ParseSwitches()
		if err != nil {
			return nil, &domain.IntegrationError{Path: domain.SwitchGroupsCollection, Err: err}
		}
		for _, ref := range refs {
			used[switchKey{kind: ref.SwitchType, id: ref.SwitchID}] = struct{}{}
		}
	}
	return used, nil
}
