// Package domain define os tipos e contratos da busca de domínios.
//
// Este pacote não depende de net/http, de whois nem de nenhum armazenamento.
// Split e a validação de nomes são funções puras; Prober, Suggester,
// HistoryStore e SlotPool são os contratos implementados pela camada infra.
package domain
