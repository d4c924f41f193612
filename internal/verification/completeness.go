package verification

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"sello/internal/provider/models"
)

// runCompleteness validates the profile's own content: photo presence,
// description length bounds, professionalism, and category fit. It needs no
// collaborators and is the pipeline's hard gate.
func (o *Orchestrator) runCompleteness(profile *models.ProviderProfile) phaseResult {
	var result phaseResult

	if profile.ProfilePhoto.IsZero() {
		result.reject(CodeProfilePhotoRequired, "Debes subir una foto de perfil.")
	}

	length := utf8.RuneCountInString(profile.Description)
	switch {
	case length < o.policy.MinDescriptionLength:
		result.reject(CodeDescriptionTooShort,
			fmt.Sprintf("La descripción debe tener al menos %d caracteres.", o.policy.MinDescriptionLength))
	case length > o.policy.MaxDescriptionLength:
		result.reject(CodeDescriptionTooLong,
			fmt.Sprintf("La descripción no puede superar %d caracteres.", o.policy.MaxDescriptionLength))
	}

	if !o.describesService(profile.Description) {
		result.reject(CodeDescriptionNotProfessional,
			"La descripción debe explicar el servicio que ofreces, no características personales.")
	}

	if !o.matchesCategory(profile.Description, profile.Category) {
		result.reject(CodeDescriptionCategoryMismatch,
			fmt.Sprintf("La descripción no corresponde a la categoría %s.", profile.Category))
	}

	return result
}

// describesService applies the professionalism heuristic. Personal-trait
// phrases disqualify outright; otherwise the text must show at least one
// service-vocabulary signal. No signal at all means not professional.
func (o *Orchestrator) describesService(description string) bool {
	lowered := strings.ToLower(description)

	for _, phrase := range o.policy.PersonalTraitPhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			return false
		}
	}

	vocabularies := [][]string{
		o.policy.ServiceVerbs,
		o.policy.ServiceNouns,
		o.policy.ClientBenefitTerms,
		o.policy.SecondPersonCues,
	}
	for _, vocabulary := range vocabularies {
		for _, term := range vocabulary {
			if strings.Contains(lowered, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// matchesCategory requires at least one category keyword in the text. A
// category without a lexicon entry matches automatically; that permissive
// default is a deliberate policy choice.
func (o *Orchestrator) matchesCategory(text, category string) bool {
	keywords := o.policy.CategoryKeywords[category]
	if len(keywords) == 0 {
		return true
	}
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
