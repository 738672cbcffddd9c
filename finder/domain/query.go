package domain

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// DefaultLabel é usado quando a entrada não tem separador e nenhum outro
// padrão foi configurado.
const DefaultLabel = "com"

// DomainQuery é um par (nome, label) pronto para ser consultado.
type DomainQuery struct {
	Name  string
	Label string
}

func (q DomainQuery) String() string {
	if q.Label == "" {
		return q.Name
	}
	return q.Name + "." + q.Label
}

// Split interpreta uma string livre (URL ou nome simples) e devolve o par
// (nome, label). Nunca falha: entrada malformada gera um split aproximado e
// a validação fica por conta de quem chama.
func Split(raw, defaultLabel string) DomainQuery {
	if defaultLabel == "" {
		defaultLabel = DefaultLabel
	}

	full := hostOrPath(strings.TrimSpace(raw))

	name, label, ok := strings.Cut(full, ".")
	if !ok {
		return DomainQuery{Name: full, Label: defaultLabel}
	}
	return DomainQuery{Name: name, Label: label}
}

func hostOrPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	// "exemplo.com:8080" sem esquema vira Scheme="exemplo.com", Opaque="8080"
	if u.Host == "" && u.Opaque != "" {
		if host, port, err := net.SplitHostPort(raw); err == nil && isPort(port) {
			return host
		}
	}
	if u.Host != "" {
		// "exemplo.com:8080" -> "exemplo.com"
		if host, _, err := net.SplitHostPort(u.Host); err == nil {
			return host
		}
		return u.Host
	}
	return u.Path
}

func isPort(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 65535
}

// IsValidName retorna true se todos os caracteres são letras, dígitos ou hífen.
// A string vazia é aceita aqui; nome ausente é tratado como MissingInput.
func IsValidName(name string) bool {
	for _, r := range name {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsSupportedLabel retorna true se label pertence a known.
func IsSupportedLabel(label string, known []string) bool {
	for _, k := range known {
		if strings.EqualFold(k, label) {
			return true
		}
	}
	return false
}

// ValidateQuery aplica as regras de entrada antes de qualquer consulta.
// known vazio desliga a checagem de label.
func ValidateQuery(raw string, q DomainQuery, known []string) error {
	if strings.TrimSpace(raw) == "" || q.Name == "" {
		return &ValidationError{Kind: MissingInput, Reason: "missing required parameter"}
	}
	if !IsValidName(q.Name) {
		return &ValidationError{
			Kind:   InvalidCharacters,
			Reason: "domain name can only contain alphanumeric characters or '-' (hyphen)",
		}
	}
	if q.Label == "" {
		return &ValidationError{Kind: MissingInput, Reason: "missing top-level label"}
	}
	if len(known) > 0 && !IsSupportedLabel(q.Label, known) {
		return &ValidationError{Kind: UnsupportedLabel, Reason: "label " + q.Label + " not supported"}
	}
	return nil
}
