package ollama

func buildExtractionPrompt(text string, maxChars int) string {
	snippet := text
	if len(snippet) > maxChars {
		snippet = snippet[:maxChars]
	}

	return `Tu analyses des documents administratifs et juridiques français.
Retourne UNIQUEMENT un objet JSON strict avec exactement ces clés:
document_type ("invoice", "quote", "contract", "email", "letter" ou "other"),
document_number (string ou null),
issue_date ("YYYY-MM-DD" ou null),
due_date ("YYYY-MM-DD" ou null),
amount_excl_tax (nombre ou null),
amount_incl_tax (nombre ou null),
sender (string ou null),
recipient (string ou null),
response_window_days (entier positif),
urgency_level ("low", "medium", "high" ou "critical"),
required_actions (tableau de strings en français),
keywords (tableau de strings).
Pas de markdown, pas de texte hors JSON, pas de clés supplémentaires.

Document:
` + snippet
}
