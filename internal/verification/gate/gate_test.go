package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	auditsvc "sello/internal/audit"
	"sello/internal/platform/config"
	"sello/internal/provider/models"
	"sello/internal/provider/store"
	"sello/internal/verification"
	"sello/internal/verification/gate"
	"sello/internal/verification/ports"
	"sello/pkg/platform/audit"
	"sello/pkg/platform/sentinel"
)

// stubCollabs approves everything: good image metrics, a clean OCR result
// that matches the registered identity, and a confident face match.
type stubCollabs struct{}

func (stubCollabs) ExtractText(_ context.Context, image models.ImageRef) (string, error) {
	if string(image.Bytes()) == "front" {
		return "GARCIA<LOPEZ<<MARIA<FERNANDA<<<\n1710034065\n15/03/1990 20/06/2030", nil
	}
	if string(image.Bytes()) == "back" {
		return "REPUBLICA DEL ECUADOR REGISTRO CIVIL", nil
	}
	return "", nil
}

func (stubCollabs) AnalyzeImage(context.Context, models.ImageRef) (ports.ImageMetrics, error) {
	return ports.ImageMetrics{Width: 1280, Height: 960, SharpnessScore: 250, Brightness: 120}, nil
}

func (stubCollabs) CompareFaces(context.Context, models.ImageRef, models.ImageRef) (ports.FaceComparison, error) {
	return ports.FaceComparison{Similarity: 0.95}, nil
}

func (stubCollabs) ModerateImage(context.Context, models.ImageRef) (ports.ModerationResult, error) {
	return ports.ModerationResult{}, nil
}

func (stubCollabs) FetchImage(context.Context, models.ImageRef) ([]byte, error) {
	return nil, nil
}

type GateSuite struct {
	suite.Suite
	profiles *store.InMemoryProfileStore
	services *store.InMemoryServiceStore
	audits   *auditsvc.InMemoryStore
	gate     *gate.Gate
	now      time.Time
	policy   config.Policy
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.now = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	s.policy = config.DefaultPolicy()
	s.profiles = store.NewInMemoryProfileStore()
	s.services = store.NewInMemoryServiceStore()
	s.audits = auditsvc.NewInMemoryStore()

	collabs := stubCollabs{}
	orchestrator := verification.NewOrchestrator(s.policy, verification.Collaborators{
		OCR:       collabs,
		Analyzer:  collabs,
		Faces:     collabs,
		Moderator: collabs,
		Fetcher:   collabs,
	}, verification.WithClock(func() time.Time { return s.now }))

	s.gate = gate.New(
		s.profiles,
		s.services,
		orchestrator,
		auditsvc.NewPublisher(s.audits),
		s.policy,
		gate.WithClock(func() time.Time { return s.now }),
	)
}

func (s *GateSuite) seedProfile(status models.Status) *models.ProviderProfile {
	profile := models.NewProviderProfile(uuid.New(), "Maria Fernanda Garcia Lopez")
	profile.Description = "Ofrezco servicios de limpieza profunda para hogares y oficinas con calidad garantizada y excelente atención."
	profile.Category = "Limpieza"
	profile.ProfilePhoto = models.LocalImage([]byte("photo"))
	profile.IDCardFront = models.LocalImage([]byte("front"))
	profile.IDCardBack = models.LocalImage([]byte("back"))
	profile.SelfieWithID = models.LocalImage([]byte("selfie"))
	profile.Status = status
	s.Require().NoError(s.profiles.Save(context.Background(), profile))
	return profile
}

func (s *GateSuite) seedService(providerID uuid.UUID) {
	s.Require().NoError(s.services.Save(context.Background(), &models.Service{
		ID:          uuid.New(),
		ProviderID:  providerID,
		Name:        "Limpieza profunda de hogares",
		Description: "Limpieza profunda y desinfección para hogares y oficinas",
		Category:    "Limpieza",
		Available:   true,
		CreatedAt:   s.now.Add(-time.Hour),
	}))
}

func (s *GateSuite) TestTriggerVerification() {
	ctx := context.Background()

	s.Run("promotes eligible profile to pending", func() {
		profile := s.seedProfile(models.StatusCreated)
		s.seedService(profile.ID)

		s.Require().NoError(s.gate.TriggerVerification(ctx, profile.ID))

		status, err := s.gate.Status(ctx, profile.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, status)

		events, err := s.audits.ListByProfile(ctx, profile.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventVerificationEnqueued), events[0].Action)
	})

	s.Run("refused without documents", func() {
		profile := s.seedProfile(models.StatusCreated)
		profile.IDCardBack = models.ImageRef{}
		s.Require().NoError(s.profiles.Save(ctx, profile))
		s.seedService(profile.ID)

		err := s.gate.TriggerVerification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("refused without an available service", func() {
		profile := s.seedProfile(models.StatusCreated)

		err := s.gate.TriggerVerification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("refused for approved profile", func() {
		profile := s.seedProfile(models.StatusApproved)
		s.seedService(profile.ID)

		err := s.gate.TriggerVerification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown profile", func() {
		err := s.gate.TriggerVerification(ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *GateSuite) TestRequestReverification() {
	ctx := context.Background()

	rejectedProfile := func(rejectedAt time.Time, attempts int) *models.ProviderProfile {
		profile := s.seedProfile(models.StatusRejected)
		profile.RejectedAt = &rejectedAt
		profile.VerificationAttempts = attempts
		s.Require().NoError(s.profiles.Save(ctx, profile))
		s.seedService(profile.ID)
		return profile
	}

	s.Run("moves rejected profile to resubmitted", func() {
		profile := rejectedProfile(s.now.Add(-2*time.Hour), 1)

		s.Require().NoError(s.gate.RequestReverification(ctx, profile.ID))

		reloaded, err := s.profiles.FindByID(ctx, profile.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusResubmitted, reloaded.Status)
		s.Equal(2, reloaded.VerificationAttempts)
	})

	s.Run("refused during cooldown", func() {
		profile := rejectedProfile(s.now.Add(-5*time.Minute), 1)

		err := s.gate.RequestReverification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrCooldownActive)

		events, listErr := s.audits.ListByProfile(ctx, profile.ID)
		s.Require().NoError(listErr)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventReverificationDenied), events[0].Action)
	})

	s.Run("permanently refused past attempt cap", func() {
		profile := rejectedProfile(s.now.Add(-48*time.Hour), s.policy.MaxVerificationAttempts)

		err := s.gate.RequestReverification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrAttemptsExhausted)
	})

	s.Run("refused for non-rejected profile", func() {
		profile := s.seedProfile(models.StatusPending)
		s.seedService(profile.ID)

		err := s.gate.RequestReverification(ctx, profile.ID)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *GateSuite) TestWorkerCompletesRun() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profile := s.seedProfile(models.StatusCreated)
	s.seedService(profile.ID)

	go s.gate.Start(ctx, 1)

	s.Require().NoError(s.gate.TriggerVerification(ctx, profile.ID))

	s.Eventually(func() bool {
		status, err := s.gate.Status(ctx, profile.ID)
		return err == nil && status == models.StatusApproved
	}, 2*time.Second, 10*time.Millisecond, "worker should approve the profile")

	verdict, found, err := s.gate.GetVerdict(ctx, profile.ID)
	s.Require().NoError(err)
	s.Require().True(found)
	s.True(verdict.Approved)
	s.Empty(verdict.Rejections)

	reloaded, err := s.profiles.FindByID(ctx, profile.ID)
	s.Require().NoError(err)
	s.Empty(reloaded.RejectionReasons, "approval must clear rejection reasons")
	s.Require().NotNil(reloaded.VerifiedAt)
	s.InDelta(0.95, reloaded.FaceMatchScore, 1e-9)
}

func (s *GateSuite) TestWorkerPersistsRejection() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profile := s.seedProfile(models.StatusCreated)
	profile.Description = "Ofrezco servicios de limpieza profunda para hogares, llámame al 0999123456 para agendar una visita."
	s.Require().NoError(s.profiles.Save(ctx, profile))
	s.seedService(profile.ID)

	go s.gate.Start(ctx, 1)

	s.Require().NoError(s.gate.TriggerVerification(ctx, profile.ID))

	s.Eventually(func() bool {
		status, err := s.gate.Status(ctx, profile.ID)
		return err == nil && status == models.StatusRejected
	}, 2*time.Second, 10*time.Millisecond)

	reloaded, err := s.profiles.FindByID(ctx, profile.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(reloaded.RejectionReasons)
	s.Equal(verification.CodeContactInfoInText, reloaded.RejectionReasons[0].Code)
	s.Require().NotNil(reloaded.RejectedAt)
}

func (s *GateSuite) TestVerdictPendingBeforeRun() {
	ctx := context.Background()
	profile := s.seedProfile(models.StatusCreated)
	s.seedService(profile.ID)

	_, found, err := s.gate.GetVerdict(ctx, profile.ID)
	s.Require().NoError(err)
	s.False(found)
}
