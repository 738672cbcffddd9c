package application

import "domain-finder/finder/domain"

type ReduceOptions struct {
	OnlyUnregistered bool
}

// Reduction é a saída de Reduce. Dropped guarda os probes que falharam,
// para que o ponto de perda de dados fique visível para quem chama.
type Reduction struct {
	Results []domain.DomainResult
	Dropped []domain.ProbeResult
}

// DropFailures separa os resultados bem-sucedidos dos que falharam.
// Falhas não chegam ao usuário final; é a política de redução do fan-out.
func DropFailures(results []domain.ProbeResult) (kept, dropped []domain.ProbeResult) {
	kept = make([]domain.ProbeResult, 0, len(results))
	for _, r := range results {
		if r.Outcome.IsFailed() {
			dropped = append(dropped, r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// Reduce mantém a ordem de entrada e não deduplica pares repetidos.
func Reduce(results []domain.ProbeResult, opts ReduceOptions) Reduction {
	kept, dropped := DropFailures(results)

	out := make([]domain.DomainResult, 0, len(kept))
	for _, r := range kept {
		registered := r.Outcome.Registered()
		if opts.OnlyUnregistered && registered {
			continue
		}
		out = append(out, domain.DomainResult{
			Name:       r.Query.Name,
			Label:      r.Query.Label,
			Registered: registered,
		})
	}
	return Reduction{Results: out, Dropped: dropped}
}
