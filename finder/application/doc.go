// Package application contém os casos de uso da busca de domínios.
//
// Ele depende apenas do pacote domain (e de otel/slog para observabilidade)
// e não conhece net/http, whois nem o armazenamento do histórico.
//
//   - Gate: aquisição de vaga com timeout no SlotPool
//   - Coordinator: fan-out de (nomes × labels) e espera de todos os probes
//   - Reduce: descarta falhas e converte em DomainResult
//   - Service: LookupSingle e LookupSimilar, as operações expostas
package application
