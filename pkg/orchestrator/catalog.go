package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-modelform/pkg/schema"
)

// LoadCatalog reads a model document. An explicit format picks the adapter by
// name; otherwise the registered adapters are asked to detect the payload.
func (o *Orchestrator) LoadCatalog(ctx context.Context, raw []byte, format string) (*schema.Catalog, error) {
	if o.adapters == nil {
		return nil, errors.New("orchestrator: adapter registry is nil")
	}
	adapter, err := o.adapters.Resolve(raw, format)
	if err != nil {
		return nil, err
	}
	catalog, err := adapter.Load(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load %s models: %w", adapter.Name(), err)
	}
	o.logger.Debug("model catalog loaded", "format", adapter.Name(), "models", len(catalog.Models()))
	return catalog, nil
}
