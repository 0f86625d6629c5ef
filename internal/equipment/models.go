package equipment

// Status is the operational lifecycle state of an equipment record. Values
// outside the known set are preserved verbatim in data and only fall back to
// an unknown display bucket.
type Status string

// Known operational statuses.
const (
	StatusDisponivel   Status = "DISPONIVEL"
	StatusEmUso        Status = "EM_USO"
	StatusEmManutencao Status = "EM_MANUTENCAO"
	StatusInativo      Status = "INATIVO"
	StatusSucateado    Status = "SUCATEADO"
)

// AllStatuses lists the known statuses in display order.
func AllStatuses() []Status {
	return []Status{
		StatusDisponivel,
		StatusEmUso,
		StatusEmManutencao,
		StatusInativo,
		StatusSucateado,
	}
}

// Known reports whether the status is one of the defined values.
func (s Status) Known() bool {
	switch s {
	case StatusDisponivel, StatusEmUso, StatusEmManutencao, StatusInativo, StatusSucateado:
		return true
	}
	return false
}

// Label returns a human-readable label, bucketing unrecognized values as
// unknown without altering the underlying data.
func (s Status) Label() string {
	switch s {
	case StatusDisponivel:
		return "Available"
	case StatusEmUso:
		return "In use"
	case StatusEmManutencao:
		return "Under maintenance"
	case StatusInativo:
		return "Inactive"
	case StatusSucateado:
		return "Scrapped"
	}
	return "Unknown"
}

// Equipment is an inventoried equipment record. Descriptive fields are
// passed through unchanged; the client only interprets the id and the
// operational status.
type Equipment struct {
	ID                string `json:"id,omitempty"`
	Nome              string `json:"nome,omitempty"`
	Tipo              string `json:"tipo,omitempty"`
	Fabricante        string `json:"fabricante,omitempty"`
	Modelo            string `json:"modelo,omitempty"`
	NumeroSerie       string `json:"numeroSerie,omitempty"`
	SetorAtual        string `json:"setorAtual,omitempty"`
	DataAquisicao     string `json:"dataAquisicao,omitempty"`
	StatusOperacional Status `json:"statusOperacional,omitempty"`
	UserID            string `json:"userId,omitempty"`
}

// Meta is the pagination metadata some servers attach to list responses.
type Meta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages *int `json:"totalPages"`
}

// Page is one decoded page of list results. Meta is nil when the server
// returned a bare array.
type Page struct {
	Items []Equipment
	Meta  *Meta
}

// Filters narrows a list request. Empty values mean no filter and are
// omitted from the query string.
type Filters struct {
	Nome   string
	Status Status
}

func (f Filters) params() map[string]string {
	return map[string]string{
		"nome":              f.Nome,
		"statusOperacional": string(f.Status),
	}
}
