package verification

import (
	"fmt"
	"strings"

	"sello/internal/provider/models"
	"sello/internal/verification/fuzzy"
)

// runCoherence checks that the anchor service and the profile tell the same
// story. Low token overlap is only advisory; a service whose text contradicts
// its own category is a rejection.
func (o *Orchestrator) runCoherence(profile *models.ProviderProfile, anchor *models.Service) phaseResult {
	var result phaseResult
	if anchor == nil {
		return result
	}

	serviceText := anchor.Name + " " + anchor.Description
	overlap := fuzzy.TokenJaccard(serviceText, profile.Description, o.policy.Stopwords)
	if overlap < o.policy.CoherenceThreshold {
		result.warn(WarnLowCoherence,
			fmt.Sprintf("Tu servicio %q tiene poca relación con la descripción de tu perfil.", anchor.Name))
	}

	if !o.matchesCategory(strings.ToLower(serviceText), anchor.Category) {
		result.reject(CodeServiceCategoryMismatch,
			fmt.Sprintf("El servicio %q no corresponde a la categoría %s.", anchor.Name, anchor.Category))
	}

	return result
}
