package entity

// DealStatus estado del ciclo de vida de un deal.
type DealStatus string

const (
	DealPending     DealStatus = "PENDING"
	DealNegotiating DealStatus = "NEGOTIATING"
	DealActive      DealStatus = "ACTIVE"
	DealCompleted   DealStatus = "COMPLETED"
	DealCancelled   DealStatus = "CANCELLED"
)

// dealTransitions grafo de transiciones permitidas. COMPLETED y CANCELLED no tienen salidas.
var dealTransitions = map[DealStatus][]DealStatus{
	DealPending:     {DealNegotiating, DealActive, DealCancelled},
	DealNegotiating: {DealActive, DealCancelled},
	DealActive:      {DealCompleted, DealCancelled},
}

// DealStatuses todos los estados, en orden del ciclo de vida.
var DealStatuses = []DealStatus{DealPending, DealNegotiating, DealActive, DealCompleted, DealCancelled}

// Valid informa si s es un estado conocido.
func (s DealStatus) Valid() bool {
	for _, known := range DealStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal informa si desde s ya no hay transiciones.
func (s DealStatus) IsTerminal() bool {
	return s == DealCompleted || s == DealCancelled
}

// CanTransitionTo informa si el paso de s a next está en el grafo.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	for _, allowed := range dealTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses devuelve los estados alcanzables desde s (vacío si es terminal).
func (s DealStatus) NextStatuses() []DealStatus {
	out := make([]DealStatus, len(dealTransitions[s]))
	copy(out, dealTransitions[s])
	return out
}
