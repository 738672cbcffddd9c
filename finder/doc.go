// Package finder expõe a busca de domínios via HTTP (net/http).
//
// Camadas:
//
//   - domain: tipos e contratos (sem net/http)
//   - application: fan-out, redução e as operações LookupSingle/LookupSimilar
//   - infra: whois, datamuse, histórico, métricas e tracing
//   - finder (este pacote): rotas, tradução de erros para status e
//     identificação do usuário pelo header configurado
//
// Rotas:
//
//	GET /api/v1/registrationStatus?domain=
//	GET /api/v1/similarDomains?domain=[&onlyUnregistered=true]
//	GET /api/v1/history[?limit=]
//	GET /healthz
//	GET /metrics
package finder
