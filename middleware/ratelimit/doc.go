// Package ratelimit fornece middlewares net/http de rate limit e limite de
// concorrência para a API de busca de domínios.
//
// Fluxo:
//
//  1. Extrai a chave do cliente (header/XFF/IP)
//  2. Consulta o token bucket da chave (Store, x/time/rate + go-cache)
//  3. Se bloqueado, responde 429 (rate limit) ou 503 (concorrência)
//  4. Se permitido, chama o próximo handler
//
// Os limites aqui protegem a borda HTTP; o número de probes whois simultâneos
// é controlado separadamente pelo Gate do pacote finder/application.
package ratelimit
