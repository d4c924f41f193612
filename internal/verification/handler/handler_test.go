package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	"sello/internal/verification/handler"
	"sello/internal/verification/ports"
)

type noopCollabs struct{}

func (noopCollabs) ExtractText(context.Context, models.ImageRef) (string, error) {
	return "", nil
}

func (noopCollabs) AnalyzeImage(context.Context, models.ImageRef) (ports.ImageMetrics, error) {
	return ports.ImageMetrics{Width: 1280, Height: 960, SharpnessScore: 250, Brightness: 120}, nil
}

func (noopCollabs) CompareFaces(context.Context, models.ImageRef, models.ImageRef) (ports.FaceComparison, error) {
	return ports.FaceComparison{Similarity: 0.95}, nil
}

func (noopCollabs) ModerateImage(context.Context, models.ImageRef) (ports.ModerationResult, error) {
	return ports.ModerationResult{}, nil
}

func (noopCollabs) FetchImage(context.Context, models.ImageRef) ([]byte, error) {
	return nil, nil
}

type HandlerSuite struct {
	suite.Suite
	profiles *store.InMemoryProfileStore
	services *store.InMemoryServiceStore
	router   http.Handler
	now      time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.now = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	s.profiles = store.NewInMemoryProfileStore()
	s.services = store.NewInMemoryServiceStore()

	collabs := noopCollabs{}
	orchestrator := verification.NewOrchestrator(config.DefaultPolicy(), verification.Collaborators{
		OCR:       collabs,
		Analyzer:  collabs,
		Faces:     collabs,
		Moderator: collabs,
		Fetcher:   collabs,
	})
	g := gate.New(
		s.profiles,
		s.services,
		orchestrator,
		auditsvc.NewPublisher(auditsvc.NewInMemoryStore()),
		config.DefaultPolicy(),
		gate.WithClock(func() time.Time { return s.now }),
	)
	s.router = handler.NewRouter(handler.New(g, nil))
}

func (s *HandlerSuite) seedProfile(status models.Status) *models.ProviderProfile {
	profile := models.NewProviderProfile(uuid.New(), "Maria Garcia")
	profile.Description = "Ofrezco servicios de limpieza profunda para hogares y oficinas con calidad garantizada."
	profile.Category = "Limpieza"
	profile.ProfilePhoto = models.LocalImage([]byte("photo"))
	profile.IDCardFront = models.LocalImage([]byte("front"))
	profile.IDCardBack = models.LocalImage([]byte("back"))
	profile.SelfieWithID = models.LocalImage([]byte("selfie"))
	profile.Status = status
	s.Require().NoError(s.profiles.Save(context.Background(), profile))

	s.Require().NoError(s.services.Save(context.Background(), &models.Service{
		ID:         uuid.New(),
		ProviderID: profile.ID,
		Name:       "Limpieza profunda",
		Category:   "Limpieza",
		Available:  true,
		CreatedAt:  s.now,
	}))
	return profile
}

func (s *HandlerSuite) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestTriggerVerification() {
	s.Run("accepted", func() {
		profile := s.seedProfile(models.StatusCreated)

		rec := s.do(http.MethodPost, "/providers/"+profile.ID.String()+"/verification")

		s.Equal(http.StatusAccepted, rec.Code)
		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("pending", body["status"])
	})

	s.Run("invalid id", func() {
		rec := s.do(http.MethodPost, "/providers/not-a-uuid/verification")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown profile", func() {
		rec := s.do(http.MethodPost, "/providers/"+uuid.NewString()+"/verification")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("ineligible state", func() {
		profile := s.seedProfile(models.StatusApproved)

		rec := s.do(http.MethodPost, "/providers/"+profile.ID.String()+"/verification")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *HandlerSuite) TestRequestReverification() {
	s.Run("cooldown maps to too many requests", func() {
		profile := s.seedProfile(models.StatusRejected)
		rejectedAt := s.now.Add(-5 * time.Minute)
		profile.RejectedAt = &rejectedAt
		profile.VerificationAttempts = 1
		s.Require().NoError(s.profiles.Save(context.Background(), profile))

		rec := s.do(http.MethodPost, "/providers/"+profile.ID.String()+"/reverification")
		s.Equal(http.StatusTooManyRequests, rec.Code)
	})

	s.Run("accepted after cooldown", func() {
		profile := s.seedProfile(models.StatusRejected)
		rejectedAt := s.now.Add(-2 * time.Hour)
		profile.RejectedAt = &rejectedAt
		profile.VerificationAttempts = 1
		s.Require().NoError(s.profiles.Save(context.Background(), profile))

		rec := s.do(http.MethodPost, "/providers/"+profile.ID.String()+"/reverification")

		s.Equal(http.StatusAccepted, rec.Code)
		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("resubmitted", body["status"])
	})

	s.Run("attempt cap maps to too many requests", func() {
		profile := s.seedProfile(models.StatusRejected)
		rejectedAt := s.now.Add(-48 * time.Hour)
		profile.RejectedAt = &rejectedAt
		profile.VerificationAttempts = config.DefaultPolicy().MaxVerificationAttempts
		s.Require().NoError(s.profiles.Save(context.Background(), profile))

		rec := s.do(http.MethodPost, "/providers/"+profile.ID.String()+"/reverification")
		s.Equal(http.StatusTooManyRequests, rec.Code)
	})
}

func (s *HandlerSuite) TestGetVerdict() {
	s.Run("pending profile has no verdict yet", func() {
		profile := s.seedProfile(models.StatusCreated)

		rec := s.do(http.MethodGet, "/providers/"+profile.ID.String()+"/verdict")

		s.Equal(http.StatusOK, rec.Code)
		var body struct {
			Status  string          `json:"status"`
			Verdict json.RawMessage `json:"verdict"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("created", body.Status)
		s.Empty(body.Verdict)
	})

	s.Run("unknown profile", func() {
		rec := s.do(http.MethodGet, "/providers/"+uuid.NewString()+"/verdict")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz")
	s.Equal(http.StatusOK, rec.Code)
}
