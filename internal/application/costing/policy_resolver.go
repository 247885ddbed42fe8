package costing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/costing-ledger/internal/domain"
	"github.com/jhoicas/costing-ledger/internal/domain/entity"
	"github.com/jhoicas/costing-ledger/internal/domain/repository"
)

// DefaultCostingMethod se usa cuando el ítem es GLOBAL y la política global no está definida.
const DefaultCostingMethod = entity.CostingWeightedAvg

// PolicyResolver resuelve el método de costeo efectivo de un ítem. No tiene efectos.
// La política global llega por el PolicyRepository inyectado, no por estado global.
type PolicyResolver struct{}

// NewPolicyResolver construye el resolvedor.
func NewPolicyResolver() *PolicyResolver {
	return &PolicyResolver{}
}

// Resolve devuelve FIFO o WEIGHTED_AVG para el ítem.
func (r *PolicyResolver) Resolve(
	ctx context.Context,
	items repository.ItemRepository,
	policies repository.PolicyRepository,
	itemID string,
) (entity.CostingMethod, error) {
	item, err := items.GetByID(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return "", &domain.ItemNotFoundError{ItemID: itemID}
	}

	method := parseMethod(string(item.CostingMethod))
	if method.Effective() {
		return method, nil
	}
	if method != entity.CostingGlobal {
		return "", fmt.Errorf("%w: método de costeo %q del ítem %s", domain.ErrInvalidInput, item.CostingMethod, itemID)
	}

	raw, ok, err := policies.Get(ctx, entity.PolicyGlobalCostingMethod)
	if err != nil {
		return "", fmt.Errorf("get global costing policy: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return DefaultCostingMethod, nil
	}
	global := parseMethod(raw)
	if !global.Effective() {
		return "", fmt.Errorf("%w: política global de costeo %q", domain.ErrInvalidInput, raw)
	}
	return global, nil
}

func parseMethod(s string) entity.CostingMethod {
	return entity.CostingMethod(strings.ToUpper(strings.TrimSpace(s)))
}
