// Package application owns the submission workflow for new passport
// applications and renewals: field validation, the guardian rule for
// minors, signature upload and the final all-or-nothing insert. Validation
// always runs before any upload so a rejected form never leaves an
// orphaned blob behind.
package application

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/upload"
	"github.com/lesotho-epassport/backend/internal/utils"
)

// dateLayout is the wire format for dates of birth
const dateLayout = "2006-01-02"

// SubmitRequest is the payload for a new passport application. PhotoURL
// and DocsURL are populated by earlier upload calls (the front end uploads
// files as soon as they are picked); the signature arrives as PNG bytes
// and is uploaded here, after validation, or as a pre-uploaded URL.
type SubmitRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	DOB          string `json:"dob"`
	IDNumber     string `json:"id_number"`
	Nationality  string `json:"nationality"`
	BirthPlace   string `json:"birth_place"`
	District     string `json:"district"`
	HeadChief    string `json:"head_chief"`
	Sex          string `json:"sex"`
	PassportType string `json:"passport_type"`
	GuardianName string `json:"guardian_name"`
	GuardianID   string `json:"guardian_id"`
	PhotoURL     string `json:"photo_url"`
	DocsURL      string `json:"docs_url"`
	SignaturePNG []byte `json:"signature_png,omitempty"`
	SignatureURL string `json:"signature_url,omitempty"`
}

// RenewalRequest is the payload for a passport renewal. The photo is
// uploaded as part of submission.
type RenewalRequest struct {
	Name             string
	Surname          string
	PassportNumber   string
	District         string
	Photo            []byte
	PhotoContentType string
}

// Service orchestrates application and renewal submission
type Service struct {
	apps      records.ApplicationStore
	renewals  records.RenewalStore
	artifacts records.ArtifactStore
	uploader  *upload.Coordinator
	now       func() time.Time
}

// NewService creates the submission service
func NewService(apps records.ApplicationStore, renewals records.RenewalStore, artifacts records.ArtifactStore, uploader *upload.Coordinator) *Service {
	return &Service{
		apps:      apps,
		renewals:  renewals,
		artifacts: artifacts,
		uploader:  uploader,
		now:       time.Now,
	}
}

// SetClock overrides the service clock; tests use it to pin the age rule
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Submit validates the application, uploads the signature and persists the
// record. Any failure aborts the remaining steps and nothing is written:
// the insert is the last step and is all-or-nothing.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Application, error) {
	app, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	signatureURL := strings.TrimSpace(req.SignatureURL)
	if signatureURL == "" {
		signatureURL, err = s.uploader.UploadArtifact(ctx, models.ArtifactSignature, req.SignaturePNG, "image/png", req.IDNumber)
		if err != nil {
			return nil, err
		}
	}
	app.SignatureURL = signatureURL

	app.Reference = utils.GenerateReference()
	app.Status = models.StatusProcessing
	if err := s.apps.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("persist application: %w", err)
	}

	// The record is in; claiming only shields the blobs from cleanup. A
	// failure here must not turn a persisted submission into an error, or
	// the applicant never sees their reference and retries a duplicate.
	if err := s.artifacts.ClaimArtifacts(ctx, []string{app.PhotoURL, app.DocsURL, app.SignatureURL}); err != nil {
		log.Printf("claim artifacts for %s: %v", app.Reference, err)
	}

	return app, nil
}

// validate checks required fields, enum membership and the guardian rule,
// and returns the assembled (not yet persisted) record.
func (s *Service) validate(req SubmitRequest) (*models.Application, error) {
	verr := &ValidationError{}

	requireField(verr, "full_name", req.FullName)
	requireField(verr, "email", req.Email)
	requireField(verr, "dob", req.DOB)
	requireField(verr, "id_number", req.IDNumber)
	requireField(verr, "nationality", req.Nationality)
	requireField(verr, "birth_place", req.BirthPlace)
	requireField(verr, "district", req.District)
	requireField(verr, "head_chief", req.HeadChief)
	requireField(verr, "sex", req.Sex)

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			verr.AddInvalid("email")
		}
	}

	var dob time.Time
	if req.DOB != "" {
		parsed, err := time.Parse(dateLayout, req.DOB)
		if err != nil {
			verr.AddInvalid("dob")
		} else {
			dob = parsed
		}
	}

	district := models.District(req.District)
	if req.District != "" && !models.ValidDistrict(district) {
		verr.AddInvalid("district")
	}

	sex := models.Sex(req.Sex)
	if req.Sex != "" && !models.ValidSex(sex) {
		verr.AddInvalid("sex")
	}

	passportType := models.PassportType(req.PassportType)
	if req.PassportType == "" {
		passportType = models.PassportType32
	} else if !models.ValidPassportType(passportType) {
		verr.AddInvalid("passport_type")
	}

	// Guardian details are required for minors only. The age policy is a
	// calendar-year difference, matching the published intake rules.
	minor := !dob.IsZero() && models.AgeAt(dob, s.now()) < models.GuardianAgeThreshold
	if minor {
		requireField(verr, "guardian_name", req.GuardianName)
		requireField(verr, "guardian_id", req.GuardianID)
	}

	// Photo and documents are uploaded as soon as the applicant picks
	// them; by submission time both URLs must already be in hand.
	requireField(verr, "photo_url", req.PhotoURL)
	requireField(verr, "docs_url", req.DocsURL)
	if len(req.SignaturePNG) == 0 && strings.TrimSpace(req.SignatureURL) == "" {
		verr.AddMissing("signature")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	app := &models.Application{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.TrimSpace(req.Email),
		DOB:          dob,
		IDNumber:     strings.TrimSpace(req.IDNumber),
		Nationality:  strings.TrimSpace(req.Nationality),
		BirthPlace:   strings.TrimSpace(req.BirthPlace),
		District:     district,
		HeadChief:    strings.TrimSpace(req.HeadChief),
		Sex:          sex,
		PassportType: passportType,
		PhotoURL:     req.PhotoURL,
		DocsURL:      req.DocsURL,
	}

	// Adults never carry guardian columns, even if the form sent them
	if minor {
		name := strings.TrimSpace(req.GuardianName)
		id := strings.TrimSpace(req.GuardianID)
		app.GuardianName = &name
		app.GuardianID = &id
	}

	return app, nil
}

// SubmitRenewal validates the renewal, uploads the photo and persists the
// record. Photo type and size are rejected before any network call.
func (s *Service) SubmitRenewal(ctx context.Context, req RenewalRequest) (*models.Renewal, error) {
	verr := &ValidationError{}

	requireField(verr, "name", req.Name)
	requireField(verr, "surname", req.Surname)
	requireField(verr, "passport_number", req.PassportNumber)
	requireField(verr, "district", req.District)

	district := models.District(req.District)
	if req.District != "" && !models.ValidDistrict(district) {
		verr.AddInvalid("district")
	}

	if len(req.Photo) == 0 {
		verr.AddMissing("photo")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	photoURL, err := s.uploader.UploadRenewalPhoto(ctx, req.Photo, req.PhotoContentType, req.PassportNumber)
	if err != nil {
		return nil, err
	}

	renewal := &models.Renewal{
		Reference:      utils.GenerateReference(),
		Name:           strings.TrimSpace(req.Name),
		Surname:        strings.TrimSpace(req.Surname),
		PassportNumber: strings.TrimSpace(req.PassportNumber),
		District:       district,
		PhotoURL:       photoURL,
		Status:         models.StatusProcessing,
	}
	if err := s.renewals.CreateRenewal(ctx, renewal); err != nil {
		return nil, fmt.Errorf("persist renewal: %w", err)
	}

	if err := s.artifacts.ClaimArtifacts(ctx, []string{photoURL}); err != nil {
		log.Printf("claim artifacts for %s: %v", renewal.Reference, err)
	}

	return renewal, nil
}

// requireField records a missing-field error when value is blank
func requireField(verr *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.AddMissing(field)
	}
}
