package services

import (
	"strings"

	"fiscalchat-backend/internal/models"
	"fiscalchat-backend/internal/openai"
)

// fiscalAssistantInstructions is the fixed persona sent on every provider
// call. It restricts answers to Romanian fiscal/accounting topics and asks
// for citations from official sources only.
const fiscalAssistantInstructions = `Ești un asistent fiscal pentru contabili și antreprenori din România. ` +
	`Răspunzi exclusiv la întrebări despre fiscalitate, contabilitate și legislație ` +
	`românească (Codul Fiscal, declarații ANAF, coduri CAEN, TVA, impozite și contribuții). ` +
	`Folosește căutarea web pentru legislația în vigoare și citează doar surse oficiale ` +
	`(anaf.ro, mfinante.gov.ro, just.ro, monitoruloficial.ro, ceccar.ro). ` +
	`Răspunde concis, în limba română. Dacă întrebarea nu ține de fiscalitate sau ` +
	`contabilitate, explică politicos că nu o poți acoperi.`

// emptyAnswerFallback replaces an empty provider reply; an assistant message
// must never be persisted without content.
const emptyAnswerFallback = "Nu am putut formula un răspuns la această întrebare. Te rog să o reformulezi."

// providerErrorFallback is the degraded assistant reply used when the
// provider call fails; %s carries the human-readable error summary.
const providerErrorFallback = "Ne pare rău, asistentul nu a putut genera un răspuns în acest moment. Încearcă din nou în câteva momente. (Detaliu tehnic: %s)"

// buildProviderInput projects the stored session history into the provider
// input. The history already contains the just-persisted current user message,
// so its last element is dropped and the current content is appended as the
// final user entry. With no prior history the input degenerates to a bare
// content string; downstream must not assume a particular shape.
func buildProviderInput(history []models.Message, content string) any {
	prior := history
	if n := len(prior); n > 0 {
		prior = prior[:n-1]
	}
	if len(prior) == 0 {
		return content
	}

	input := make([]openai.InputMessage, 0, len(prior)+1)
	for _, m := range prior {
		input = append(input, openai.InputMessage{
			Role:    m.Role,
			Content: strings.TrimSpace(m.Content),
		})
	}
	input = append(input, openai.InputMessage{Role: models.RoleUser, Content: content})
	return input
}
