package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"sello/internal/provider/models"
	"sello/pkg/platform/sentinel"
)

// PostgresProfileStore persists provider profiles in PostgreSQL. Image refs
// are stored as their URLs; raw bytes never reach the database.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Save(ctx context.Context, p *models.ProviderProfile) error {
	reasons, err := json.Marshal(p.RejectionReasons)
	if err != nil {
		return fmt.Errorf("marshal rejection reasons: %w", err)
	}

	query := `
		INSERT INTO provider_profiles (
			id, account_id, display_name, business_name, description, category,
			profile_photo_url, id_card_front_url, id_card_back_url, selfie_url,
			extracted_surnames, extracted_given_names, extracted_id_number,
			extracted_expiry, face_match_score,
			status, verification_attempts, rejected_at, resubmitted_at, verified_at,
			rejection_reasons, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			business_name = EXCLUDED.business_name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			profile_photo_url = EXCLUDED.profile_photo_url,
			id_card_front_url = EXCLUDED.id_card_front_url,
			id_card_back_url = EXCLUDED.id_card_back_url,
			selfie_url = EXCLUDED.selfie_url,
			extracted_surnames = EXCLUDED.extracted_surnames,
			extracted_given_names = EXCLUDED.extracted_given_names,
			extracted_id_number = EXCLUDED.extracted_id_number,
			extracted_expiry = EXCLUDED.extracted_expiry,
			face_match_score = EXCLUDED.face_match_score,
			status = EXCLUDED.status,
			verification_attempts = EXCLUDED.verification_attempts,
			rejected_at = EXCLUDED.rejected_at,
			resubmitted_at = EXCLUDED.resubmitted_at,
			verified_at = EXCLUDED.verified_at,
			rejection_reasons = EXCLUDED.rejection_reasons,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.AccountID, p.DisplayName, p.BusinessName, p.Description, p.Category,
		p.ProfilePhoto.URL(), p.IDCardFront.URL(), p.IDCardBack.URL(), p.SelfieWithID.URL(),
		p.ExtractedSurnames, p.ExtractedGivenNames, p.ExtractedIDNumber,
		p.ExtractedExpiry, p.FaceMatchScore,
		string(p.Status), p.VerificationAttempts, p.RejectedAt, p.ResubmittedAt, p.VerifiedAt,
		reasons, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save provider profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ProviderProfile, error) {
	query := `
		SELECT id, account_id, display_name, business_name, description, category,
			profile_photo_url, id_card_front_url, id_card_back_url, selfie_url,
			extracted_surnames, extracted_given_names, extracted_id_number,
			extracted_expiry, face_match_score,
			status, verification_attempts, rejected_at, resubmitted_at, verified_at,
			rejection_reasons, created_at, updated_at
		FROM provider_profiles WHERE id = $1
	`
	var (
		p          models.ProviderProfile
		status     string
		photo      string
		front      string
		back       string
		selfie     string
		rawReasons []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.AccountID, &p.DisplayName, &p.BusinessName, &p.Description, &p.Category,
		&photo, &front, &back, &selfie,
		&p.ExtractedSurnames, &p.ExtractedGivenNames, &p.ExtractedIDNumber,
		&p.ExtractedExpiry, &p.FaceMatchScore,
		&status, &p.VerificationAttempts, &p.RejectedAt, &p.ResubmittedAt, &p.VerifiedAt,
		&rawReasons, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find provider profile: %w", err)
	}

	p.Status = models.Status(status)
	if photo != "" {
		p.ProfilePhoto = models.RemoteImage(photo)
	}
	if front != "" {
		p.IDCardFront = models.RemoteImage(front)
	}
	if back != "" {
		p.IDCardBack = models.RemoteImage(back)
	}
	if selfie != "" {
		p.SelfieWithID = models.RemoteImage(selfie)
	}
	if len(rawReasons) > 0 {
		if err := json.Unmarshal(rawReasons, &p.RejectionReasons); err != nil {
			return nil, fmt.Errorf("unmarshal rejection reasons: %w", err)
		}
	}
	return &p, nil
}

// PostgresServiceStore reads provider services from PostgreSQL.
type PostgresServiceStore struct {
	db *sql.DB
}

func NewPostgresServiceStore(db *sql.DB) *PostgresServiceStore {
	return &PostgresServiceStore{db: db}
}

func (s *PostgresServiceStore) Save(ctx context.Context, svc *models.Service) error {
	query := `
		INSERT INTO provider_services (id, provider_id, name, description, category, image_url, available, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			image_url = EXCLUDED.image_url,
			available = EXCLUDED.available
	`
	_, err := s.db.ExecContext(ctx, query,
		svc.ID, svc.ProviderID, svc.Name, svc.Description, svc.Category,
		svc.Image.URL(), svc.Available, svc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save service: %w", err)
	}
	return nil
}

func (s *PostgresServiceStore) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	query := `
		SELECT id, provider_id, name, description, category, image_url, available, created_at
		FROM provider_services WHERE provider_id = $1 ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var (
			svc      models.Service
			imageURL string
		)
		if err := rows.Scan(&svc.ID, &svc.ProviderID, &svc.Name, &svc.Description,
			&svc.Category, &imageURL, &svc.Available, &svc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		if imageURL != "" {
			svc.Image = models.RemoteImage(imageURL)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (s *PostgresServiceStore) FirstAvailable(ctx context.Context, providerID uuid.UUID) (*models.Service, error) {
	query := `
		SELECT id, provider_id, name, description, category, image_url, available, created_at
		FROM provider_services
		WHERE provider_id = $1 AND available
		ORDER BY created_at LIMIT 1
	`
	var (
		svc      models.Service
		imageURL string
	)
	err := s.db.QueryRowContext(ctx, query, providerID).Scan(
		&svc.ID, &svc.ProviderID, &svc.Name, &svc.Description,
		&svc.Category, &imageURL, &svc.Available, &svc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("first available service: %w", err)
	}
	if imageURL != "" {
		svc.Image = models.RemoteImage(imageURL)
	}
	return &svc, nil
}
