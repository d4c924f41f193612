package verification

import (
	"context"
	"fmt"

	"sello/internal/provider/models"
	"sello/internal/verification/cedula"
	"sello/internal/verification/docextract"
	"sello/internal/verification/fuzzy"
	"sello/internal/verification/imagery"
)

// runDocuments verifies the identity evidence: both ID card sides, the OCR
// cross-checks against the registered name, and the selfie face match. After
// the presence check the steps are independent; a collaborator failure skips
// only the checks that needed its output.
func (o *Orchestrator) runDocuments(ctx context.Context, profile *models.ProviderProfile) phaseResult {
	var result phaseResult

	if !profile.HasDocuments() {
		result.reject(CodeIDDocumentsMissing, "Debes subir ambos lados de tu cédula.")
		return result
	}

	o.checkCardQuality(ctx, profile.IDCardFront, CodeIDCardFrontQuality, "frontal", &result)
	o.checkCardQuality(ctx, profile.IDCardBack, CodeIDCardBackQuality, "posterior", &result)

	o.checkFrontOCR(ctx, profile, &result)
	o.checkBackLegibility(ctx, profile, &result)
	o.checkSelfie(ctx, profile, &result)

	return result
}

func (o *Orchestrator) checkCardQuality(ctx context.Context, image models.ImageRef, code, side string, result *phaseResult) {
	imageMetrics, err := o.analyzeImage(ctx, image)
	if err != nil {
		o.logSkip(ctx, "analyzer", err)
		return
	}
	report := imagery.EvaluateQuality(imageMetrics, o.policy.ImageQuality)
	if !report.OK {
		result.reject(code, fmt.Sprintf("La foto %s de tu cédula no es utilizable (%s): %s",
			side, joinIssues(report.Issues), report.Detail))
	}
}

// checkFrontOCR extracts the card's structured fields and cross-checks them
// against the registered identity. Extracted fields and dates are recorded on
// the profile whether or not the checks pass.
func (o *Orchestrator) checkFrontOCR(ctx context.Context, profile *models.ProviderProfile, result *phaseResult) {
	text, err := o.extractText(ctx, profile.IDCardFront)
	if err != nil {
		o.logSkip(ctx, "ocr", err)
		return
	}

	fields := docextract.Parse(text)
	profile.ExtractedSurnames = fields.Surnames
	profile.ExtractedGivenNames = fields.GivenNames
	profile.ExtractedIDNumber = fields.IDNumber
	profile.ExtractedExpiry = fields.ExpiryDate

	if fields.HasName() {
		similarity := fuzzy.NameSimilarity(fields.FullName(), profile.DisplayName)
		if similarity < o.policy.NameMatchThreshold {
			result.reject(CodeIDNameMismatch,
				"El nombre en la cédula no coincide con el nombre registrado.")
		}
	}

	if fields.IDNumber != "" && !cedula.Valid(fields.IDNumber) {
		result.reject(CodeInvalidCedulaNumber, "El número de cédula no es válido.")
	}

	if fields.ExpiryDate != nil && fields.ExpiryDate.Before(o.now()) {
		result.reject(CodeIDExpired, "Tu cédula está caducada.")
	}
}

// checkBackLegibility only confirms the back scan is readable; no fields are
// extracted from it.
func (o *Orchestrator) checkBackLegibility(ctx context.Context, profile *models.ProviderProfile, result *phaseResult) {
	text, err := o.extractText(ctx, profile.IDCardBack)
	if err != nil {
		o.logSkip(ctx, "ocr", err)
		return
	}
	if !docextract.Legible(text) {
		result.reject(CodeIDCardBackQuality,
			"El texto del lado posterior de tu cédula no es legible.")
	}
}

func (o *Orchestrator) checkSelfie(ctx context.Context, profile *models.ProviderProfile, result *phaseResult) {
	if profile.SelfieWithID.IsZero() {
		result.reject(CodeSelfieMissing, "Debes subir una selfie sosteniendo tu cédula.")
		return
	}

	imageMetrics, err := o.analyzeImage(ctx, profile.SelfieWithID)
	if err != nil {
		o.logSkip(ctx, "analyzer", err)
	} else if report := imagery.EvaluateQuality(imageMetrics, o.policy.ImageQuality); !report.OK {
		result.reject(CodeSelfieQuality, fmt.Sprintf("Tu selfie no es utilizable (%s).", joinIssues(report.Issues)))
	}

	comparison, err := o.compareFaces(ctx, profile.SelfieWithID, profile.IDCardFront)
	if err != nil {
		o.logSkip(ctx, "faces", err)
		return
	}
	profile.FaceMatchScore = comparison.Similarity
	if comparison.Similarity < o.policy.FacialMatchThreshold {
		result.reject(CodeFaceMismatch,
			"Tu selfie no coincide con la foto de tu cédula.")
	}
}

func joinIssues(issues []imagery.QualityIssue) string {
	out := ""
	for i, issue := range issues {
		if i > 0 {
			out += ", "
		}
		out += string(issue)
	}
	return out
}
