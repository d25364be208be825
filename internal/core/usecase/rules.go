package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

// Rule-based extraction: the deterministic fallback behind the model
// path. Every detector runs over the lower-cased text and produces the
// same schema as the model. Detector order is load-bearing: the first
// match wins, so reordering changes output.

const maxPartyLength = 100

var documentTypeRules = []struct {
	docType  domain.DocumentType
	keywords []string
}{
	{domain.TypeInvoice, []string{"facture"}},
	{domain.TypeQuote, []string{"devis"}},
	{domain.TypeContract, []string{"contrat", "convention"}},
	{domain.TypeEmail, []string{"e-mail", "email", "courriel"}},
	{domain.TypeLetter, []string{"courrier", "lettre"}},
}

var documentNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:facture|devis|contrat)\s+n[°o]\s*:?\s*(\d[\w/-]*)`),
	regexp.MustCompile(`n[°o]\s*:?\s*([a-z0-9][a-z0-9/-]+)`),
	regexp.MustCompile(`r[ée]f(?:[ée]rence)?\s*\.?\s*:?\s*([a-z0-9][a-z0-9/-]+)`),
}

const dateToken = `\d{4}-\d{2}-\d{2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`

var (
	dueDateContextRx   = regexp.MustCompile(`(?:échéance|à payer avant|date limite|deadline)\D{0,30}?(` + dateToken + `)`)
	issueDateContextRx = regexp.MustCompile(`(?:émis|établi|date|du)\D{0,15}?(` + dateToken + `)`)

	dateISORx = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dateDMYRx = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`)
)

const amountToken = `(\d[\d\s]*(?:[.,]\d{1,2})?)`

var (
	amountInclPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:montant\s+)?ttc\s*:?\s*` + amountToken),
		regexp.MustCompile(amountToken + `\s*€?\s*ttc`),
	}
	amountExclPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:montant\s+)?ht\s*:?\s*` + amountToken),
		regexp.MustCompile(amountToken + `\s*€?\s*ht`),
	}
	amountEuroRx = regexp.MustCompile(amountToken + `\s*€`)
)

var recipientRx = regexp.MustCompile(`(?i)(?:à l'attention de|facturé à|destinataire|client)\s*:?\s*([^\n]+)`)

// Explicit deadline language overrides the per-type default window.
var responseWindowRules = []struct {
	days     int
	keywords []string
}{
	{1, []string{"urgent", "immédiat"}},
	{2, []string{"48h", "48 h", "sous 48"}},
	{7, []string{"7 jours", "une semaine"}},
	{15, []string{"15 jours", "quinze jours"}},
	{30, []string{"30 jours", "un mois", "trente jours"}},
}

var urgencyRules = []struct {
	level    domain.UrgencyLevel
	keywords []string
}{
	{domain.UrgencyCritical, []string{"urgent", "critique", "immédiat", "impératif"}},
	{domain.UrgencyHigh, []string{"important", "rapidement", "sous 48h", "rappel", "relance", "dernier"}},
}

var actionRules = []struct {
	action   string
	keywords []string
}{
	{"Effectuer le paiement", []string{"payer", "paiement", "règlement"}},
	{"Signer le document", []string{"signer", "signature"}},
	{"Retourner le document signé", []string{"retourner", "renvoyer"}},
	{"Fournir les documents demandés", []string{"fournir", "transmettre", "envoyer"}},
	{"Répondre au courrier", []string{"répondre", "réponse"}},
	{"Valider le devis", []string{"valider", "validation"}},
}

const defaultAction = "Traiter le document"

var domainVocabulary = []string{
	"facture", "devis", "contrat", "urgent", "paiement",
	"échéance", "honoraires", "prestations", "services",
}

const maxKeywords = 5

// extractWithRules builds an extraction record from text alone, without
// the model. It never fails: an undetected field stays at its zero or
// default value.
func extractWithRules(text string) domain.ExtractionRecord {
	lower := strings.ToLower(text)

	rec := domain.ExtractionRecord{
		DocumentType: detectDocumentType(lower),
		UrgencyLevel: detectUrgency(lower),
	}
	rec.DocumentNumber = detectDocumentNumber(lower)
	rec.DueDate = detectDueDate(lower)
	rec.IssueDate = detectIssueDate(lower, rec.DueDate)
	rec.AmountExclTax, rec.AmountInclTax = detectAmounts(lower)
	rec.Sender = detectSender(text)
	rec.Recipient = detectRecipient(text)
	rec.ResponseWindowDays = detectResponseWindow(lower, rec.DocumentType)
	rec.RequiredActions = detectRequiredActions(lower)
	rec.Keywords = detectKeywords(lower)
	return rec
}

func detectDocumentType(lower string) domain.DocumentType {
	for _, rule := range documentTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.docType
			}
		}
	}
	return domain.TypeOther
}

func detectDocumentNumber(lower string) string {
	for _, pattern := range documentNumberPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			return strings.TrimRight(m[1], ".,;")
		}
	}
	return ""
}

func detectDueDate(lower string) *domain.Date {
	m := dueDateContextRx.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	return parseDateToken(m[1])
}

// detectIssueDate skips any candidate that is the same text span the
// due-date detector already claimed ("date limite" contains "date").
func detectIssueDate(lower string, dueDate *domain.Date) *domain.Date {
	dueSpan := []int{-1, -1}
	if dueIdx := dueDateContextRx.FindStringSubmatchIndex(lower); dueIdx != nil {
		dueSpan = []int{dueIdx[2], dueIdx[3]}
	}
	for _, idx := range issueDateContextRx.FindAllStringSubmatchIndex(lower, -1) {
		if idx[2] >= dueSpan[0] && idx[2] < dueSpan[1] {
			continue
		}
		if d := parseDateToken(lower[idx[2]:idx[3]]); d != nil {
			return d
		}
	}
	return nil
}

func parseDateToken(token string) *domain.Date {
	if m := dateISORx.FindStringSubmatch(token); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := dateDMYRx.FindStringSubmatch(token); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	return nil
}

func buildDate(day, month, year string) *domain.Date {
	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return nil
	}
	if y < 100 {
		y += 2000
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return nil
	}
	date := domain.NewDate(y, time.Month(m), d)
	return &date
}

func detectAmounts(lower string) (excl, incl *float64) {
	for _, pattern := range amountExclPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			excl = parseAmount(m[1])
			break
		}
	}
	for _, pattern := range amountInclPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			incl = parseAmount(m[1])
			break
		}
	}
	if incl == nil && excl == nil {
		if m := amountEuroRx.FindStringSubmatch(lower); m != nil {
			incl = parseAmount(m[1])
		}
	}
	return excl, incl
}

// parseAmount normalizes French formatting: spaces as thousand
// separators, comma as decimal separator.
func parseAmount(raw string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

func detectSender(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "facture") || strings.Contains(lower, "devis") || strings.Contains(lower, "date") {
			continue
		}
		return truncate(line, maxPartyLength)
	}
	return ""
}

func detectRecipient(text string) string {
	m := recipientRx.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return truncate(strings.TrimSpace(m[1]), maxPartyLength)
}

func detectResponseWindow(lower string, docType domain.DocumentType) int {
	for _, rule := range responseWindowRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.days
			}
		}
	}
	return docType.DefaultResponseWindowDays()
}

// detectUrgency never returns low: the rule path has no low detector,
// low is only reachable through the model path.
func detectUrgency(lower string) domain.UrgencyLevel {
	for _, rule := range urgencyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.level
			}
		}
	}
	return domain.UrgencyMedium
}

func detectRequiredActions(lower string) []string {
	seen := make(map[string]bool, len(actionRules))
	actions := make([]string, 0, 2)
	for _, rule := range actionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) && !seen[rule.action] {
				seen[rule.action] = true
				actions = append(actions, rule.action)
				break
			}
		}
	}
	if len(actions) == 0 {
		actions = append(actions, defaultAction)
	}
	return actions
}

func detectKeywords(lower string) []string {
	keywords := make([]string, 0, maxKeywords)
	for _, term := range domainVocabulary {
		if strings.Contains(lower, term) {
			keywords = append(keywords, term)
			if len(keywords) == maxKeywords {
				break
			}
		}
	}
	return keywords
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
