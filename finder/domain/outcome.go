package domain

// Outcome é o resultado tri-state de um probe.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeRegistered
	OutcomeUnregistered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRegistered:
		return "registered"
	case OutcomeUnregistered:
		return "unregistered"
	default:
		return "failed"
	}
}

// ProbeOutcome é produzido apenas por um Prober e não muda depois disso.
// "Não encontrado" no protocolo de consulta é Unregistered, não falha.
type ProbeOutcome struct {
	outcome Outcome
	reason  string
}

func Registered() ProbeOutcome   { return ProbeOutcome{outcome: OutcomeRegistered} }
func Unregistered() ProbeOutcome { return ProbeOutcome{outcome: OutcomeUnregistered} }

// Failed registra uma falha de transporte, parse ou label sem suporte.
func Failed(reason string) ProbeOutcome {
	if reason == "" {
		reason = "probe failed"
	}
	return ProbeOutcome{outcome: OutcomeFailed, reason: reason}
}

func (p ProbeOutcome) Outcome() Outcome { return p.outcome }
func (p ProbeOutcome) Reason() string   { return p.reason }
func (p ProbeOutcome) IsFailed() bool   { return p.outcome == OutcomeFailed }

// Registered só faz sentido quando !IsFailed().
func (p ProbeOutcome) Registered() bool { return p.outcome == OutcomeRegistered }

// ProbeResult carrega a consulta de origem junto com o outcome.
type ProbeResult struct {
	Query   DomainQuery
	Outcome ProbeOutcome
}

// DomainResult é o registro final entregue a quem chamou.
type DomainResult struct {
	Name       string `json:"name" yaml:"name"`
	Label      string `json:"tld" yaml:"tld"`
	Registered bool   `json:"registered" yaml:"registered"`
}

// SimilarResult é a resposta de LookupSimilar.
//
// Primary é nil quando o probe do domínio consultado falhou; o motivo fica
// em PrimaryError e Similar continua preenchido.
type SimilarResult struct {
	Primary      *DomainResult  `json:"primary" yaml:"primary"`
	PrimaryError string         `json:"primaryError,omitempty" yaml:"primaryError,omitempty"`
	Similar      []DomainResult `json:"similar" yaml:"similar"`
}
