// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - WhoisProbe: consulta whois (likexian/whois + whois-parser)
//   - DatamuseSource: sugestões de palavras via api.datamuse.com
//   - ChanPool: semáforo simples para limitar probes simultâneos
//   - Memory/Redis/SQLite HistoryStore: histórico de buscas por usuário
//   - Metrics e tracing: prometheus e OpenTelemetry
package infra
