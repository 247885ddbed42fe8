package entity

// CostingMethod método de costeo de un ítem.
type CostingMethod string

// Métodos de costeo. GLOBAL delega en la política global.
const (
	CostingGlobal      CostingMethod = "GLOBAL"
	CostingFIFO        CostingMethod = "FIFO"
	CostingWeightedAvg CostingMethod = "WEIGHTED_AVG"
)

// Valid indica si el método es uno de los conocidos.
func (m CostingMethod) Valid() bool {
	switch m {
	case CostingGlobal, CostingFIFO, CostingWeightedAvg:
		return true
	}
	return false
}

// Effective indica si el método puede usarse directamente para valorar (no es GLOBAL).
func (m CostingMethod) Effective() bool {
	return m == CostingFIFO || m == CostingWeightedAvg
}

// PolicyGlobalCostingMethod clave de la política global de costeo en el almacén clave/valor.
const PolicyGlobalCostingMethod = "global_costing_method"

// Item representa un artículo inventariable. El motor solo lee su método de costeo.
type Item struct {
	ID            string
	SKU           string
	Name          string
	CostingMethod CostingMethod
}
