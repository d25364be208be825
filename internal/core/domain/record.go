package domain

type DocumentType string

const (
	TypeInvoice  DocumentType = "invoice"
	TypeQuote    DocumentType = "quote"
	TypeContract DocumentType = "contract"
	TypeEmail    DocumentType = "email"
	TypeLetter   DocumentType = "letter"
	TypeOther    DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case TypeInvoice, TypeQuote, TypeContract, TypeEmail, TypeLetter, TypeOther:
		return true
	default:
		return false
	}
}

// DefaultResponseWindowDays is the nominal reply window when the text
// carries no explicit deadline language.
func (t DocumentType) DefaultResponseWindowDays() int {
	switch t {
	case TypeInvoice:
		return 30
	case TypeQuote:
		return 15
	default:
		return 7
	}
}

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

func (u UrgencyLevel) Priority() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 4
	default:
		return 2
	}
}

// ExtractionRecord is the structured summary of a document's key facts.
// ResponseWindowDays is always set (> 0) so a due date can always be derived.
type ExtractionRecord struct {
	DocumentType       DocumentType `json:"document_type"`
	DocumentNumber     string       `json:"document_number,omitempty"`
	IssueDate          *Date        `json:"issue_date,omitempty"`
	DueDate            *Date        `json:"due_date,omitempty"`
	AmountExclTax      *float64     `json:"amount_excl_tax,omitempty"`
	AmountInclTax      *float64     `json:"amount_incl_tax,omitempty"`
	Sender             string       `json:"sender,omitempty"`
	Recipient          string       `json:"recipient,omitempty"`
	ResponseWindowDays int          `json:"response_window_days"`
	UrgencyLevel       UrgencyLevel `json:"urgency_level"`
	RequiredActions    []string     `json:"required_actions"`
	Keywords           []string     `json:"keywords,omitempty"`
}

// ExtractionSource tags which path produced a record.
type ExtractionSource string

const (
	SourceModel ExtractionSource = "model"
	SourceRules ExtractionSource = "rules"
)
