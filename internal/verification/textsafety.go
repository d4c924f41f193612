package verification

import (
	"fmt"
	"strings"

	"sello/internal/provider/models"
	"sello/internal/verification/textpattern"
	"sello/pkg/platform/audit"
)

// runTextSafety scans every provider-authored text field in a fixed order:
// profile description, business name, service name, service description.
// Contact info is reported once no matter how many fields carry it; the
// first prohibited-content hit raises a critical alert and stops the scan.
func (o *Orchestrator) runTextSafety(profile *models.ProviderProfile, anchor *models.Service) phaseResult {
	type field struct {
		label string
		text  string
	}
	fields := []field{
		{"descripción del perfil", profile.Description},
		{"nombre del negocio", profile.BusinessName},
	}
	if anchor != nil {
		fields = append(fields,
			field{"nombre del servicio", anchor.Name},
			field{"descripción del servicio", anchor.Description},
		)
	}

	var result phaseResult
	contactReported := false

	for _, f := range fields {
		if f.text == "" {
			continue
		}

		if !contactReported {
			if detection := textpattern.DetectContactInfo(f.text); detection.Found {
				result.reject(CodeContactInfoInText,
					fmt.Sprintf("Tu %s contiene información de contacto (%s); el contacto se coordina dentro de la plataforma.",
						f.label, strings.Join(detection.Categories, ", ")))
				contactReported = true
			}
		}

		if hit := textpattern.DetectProhibited(f.text, o.policy.ProhibitedContent); hit.Found {
			result.reject(CodeIllegalContent,
				fmt.Sprintf("Tu %s contiene contenido prohibido en la plataforma.", f.label))
			result.alert(audit.SeverityCritical, hit.Categories[0], map[string]string{
				"field":    f.label,
				"keywords": strings.Join(hit.Keywords, ", "),
				"excerpt":  textpattern.Excerpt(f.text, 120),
			})
			break
		}
	}

	return result
}
