package verification

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"sello/internal/provider/models"
	"sello/internal/verification/imagery"
	"sello/internal/verification/textpattern"
	"sello/pkg/platform/audit"
)

// runImageSafety scans the public-facing images (profile photo, anchor
// service image) for embedded contact info and unsafe content. Images are
// scanned in parallel; findings merge back in upload order so the verdict is
// deterministic.
func (o *Orchestrator) runImageSafety(ctx context.Context, profile *models.ProviderProfile, anchor *models.Service) phaseResult {
	type subject struct {
		label string
		image models.ImageRef
	}
	subjects := []subject{{"foto de perfil", profile.ProfilePhoto}}
	if anchor != nil && !anchor.Image.IsZero() {
		subjects = append(subjects, subject{fmt.Sprintf("imagen del servicio %q", anchor.Name), anchor.Image})
	}

	results := make([]phaseResult, len(subjects))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, s := range subjects {
		group.Go(func() error {
			results[i] = o.scanImage(groupCtx, s.label, s.image)
			return nil
		})
	}
	// Goroutines report findings, never errors.
	_ = group.Wait()

	var merged phaseResult
	for _, r := range results {
		merged.merge(r)
	}
	return merged
}

func (o *Orchestrator) scanImage(ctx context.Context, label string, image models.ImageRef) phaseResult {
	var result phaseResult
	if image.IsZero() {
		return result
	}

	text, err := o.extractText(ctx, image)
	if err != nil {
		o.logSkip(ctx, "ocr", err)
	} else if detection := textpattern.DetectContactInfo(text); detection.Found {
		result.reject(CodeContactInfoInImage,
			fmt.Sprintf("Tu %s contiene información de contacto; el contacto se coordina dentro de la plataforma.", label))
	}

	moderation, err := o.moderateImage(ctx, image)
	if err != nil {
		o.logSkip(ctx, "moderator", err)
		return result
	}
	findings := imagery.EvaluateModeration(moderation, &o.policy)
	if len(findings) == 0 {
		return result
	}

	result.reject(CodeInappropriateImage,
		fmt.Sprintf("Tu %s contiene contenido no permitido.", label))

	severity := audit.SeverityWarning
	if imagery.HasCritical(findings) {
		severity = audit.SeverityCritical
	}
	evidence := map[string]string{"image": label}
	for _, f := range findings {
		evidence[f.Category] = fmt.Sprintf("%.2f", f.Score)
	}
	result.alert(severity, "image_moderation", evidence)

	return result
}
