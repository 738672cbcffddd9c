package application

import "errors"

// ErrProbeFailed indica que o probe do domínio consultado falhou
// (transporte, parse ou label sem suporte no servidor whois).
var ErrProbeFailed = errors.New("registration probe failed")
