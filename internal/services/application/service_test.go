package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/storage"
	"github.com/lesotho-epassport/backend/internal/services/upload"
	"github.com/lesotho-epassport/backend/internal/utils"
)

// submissionTime pins the age computation for every test
var submissionTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService() (*Service, *storage.Memory, *records.MemoryStore) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()
	uploader := upload.NewCoordinator(gw, store)
	svc := NewService(store, store, store, uploader)
	svc.SetClock(func() time.Time { return submissionTime })
	return svc, gw, store
}

func adultRequest() SubmitRequest {
	return SubmitRequest{
		FullName:     "Thabo Mokoena",
		Email:        "thabo@example.ls",
		DOB:          "1990-03-14",
		IDNumber:     "9003141234567",
		Nationality:  "Mosotho",
		BirthPlace:   "Maseru",
		District:     "Maseru",
		HeadChief:    "Chief Letsie",
		Sex:          "Male",
		PassportType: "32 pages",
		PhotoURL:     "https://storage.test/photo.jpg",
		DocsURL:      "https://storage.test/docs.pdf",
		SignaturePNG: []byte("png-signature-bytes"),
	}
}

func TestSubmitAdultHappyPath(t *testing.T) {
	svc, _, store := newService()

	app, err := svc.Submit(context.Background(), adultRequest())
	require.NoError(t, err)

	assert.True(t, utils.ValidReference(app.Reference), "reference %q must match the issued format", app.Reference)
	assert.Equal(t, models.StatusProcessing, app.Status)
	assert.Nil(t, app.GuardianName, "adults carry no guardian columns")
	assert.Nil(t, app.GuardianID)
	assert.NotEmpty(t, app.SignatureURL)
	assert.Equal(t, 1, store.ApplicationCount())

	// The persisted record is resolvable by its reference
	persisted, err := store.GetApplicationByReference(context.Background(), app.Reference)
	require.NoError(t, err)
	assert.Equal(t, "Thabo Mokoena", persisted.FullName)

	// The signature blob is claimed and exempt from cleanup
	artifact, ok := store.ArtifactByURL(app.SignatureURL)
	require.True(t, ok)
	assert.True(t, artifact.Claimed)
}

func TestSubmitMinorWithoutGuardianRejected(t *testing.T) {
	svc, gw, store := newService()

	req := adultRequest()
	req.DOB = "2015-06-01" // age 10 at submission

	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "guardian_name")
	assert.Contains(t, verr.Missing, "guardian_id")
	assert.Equal(t, 0, store.ApplicationCount(), "no record on validation failure")
	assert.Equal(t, 0, gw.UploadCalls, "validation failure must not orphan a signature blob")
}

func TestSubmitMinorWithGuardianPersisted(t *testing.T) {
	svc, _, store := newService()

	req := adultRequest()
	req.DOB = "2012-01-20"
	req.GuardianName = "Mamello Mokoena"
	req.GuardianID = "7501011234567"

	app, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, app.GuardianName)
	assert.Equal(t, "Mamello Mokoena", *app.GuardianName)
	require.NotNil(t, app.GuardianID)
	assert.Equal(t, "7501011234567", *app.GuardianID)
	assert.Equal(t, 1, store.ApplicationCount())
}

func TestSubmitAgeSixteenIsAdult(t *testing.T) {
	svc, _, _ := newService()

	req := adultRequest()
	req.DOB = "2009-12-31" // year difference is exactly 16

	app, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, app.GuardianName)
}

func TestSubmitGuardianFieldsDroppedForAdults(t *testing.T) {
	svc, _, _ := newService()

	req := adultRequest()
	req.GuardianName = "Should Be Ignored"
	req.GuardianID = "0000000000000"

	app, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, app.GuardianName)
	assert.Nil(t, app.GuardianID)
}

func TestSubmitMissingRequiredFields(t *testing.T) {
	svc, gw, _ := newService()

	_, err := svc.Submit(context.Background(), SubmitRequest{SignaturePNG: []byte("sig")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"full_name", "email", "dob", "id_number", "nationality", "birth_place", "district", "head_chief", "sex", "photo_url", "docs_url"} {
		assert.Contains(t, verr.Missing, field)
	}
	assert.Equal(t, 0, gw.UploadCalls)
}

func TestSubmitRejectsUnknownEnumValues(t *testing.T) {
	svc, _, _ := newService()

	req := adultRequest()
	req.District = "Gauteng"
	req.Sex = "Other"
	req.PassportType = "96 pages"

	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Invalid, "district")
	assert.Contains(t, verr.Invalid, "sex")
	assert.Contains(t, verr.Invalid, "passport_type")
}

func TestSubmitWithoutSignatureRejected(t *testing.T) {
	svc, _, store := newService()

	req := adultRequest()
	req.SignaturePNG = nil

	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "signature")
	assert.Equal(t, 0, store.ApplicationCount())
}

func TestSubmitAcceptsPreUploadedSignatureURL(t *testing.T) {
	svc, gw, _ := newService()

	req := adultRequest()
	req.SignaturePNG = nil
	req.SignatureURL = "https://storage.test/sig.png"

	app, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/sig.png", app.SignatureURL)
	assert.Equal(t, 0, gw.UploadCalls, "pre-uploaded signatures are not re-uploaded")
}

func TestSubmitReferencesAreUnique(t *testing.T) {
	svc, _, _ := newService()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		app, err := svc.Submit(context.Background(), adultRequest())
		require.NoError(t, err)
		assert.False(t, seen[app.Reference], "duplicate reference %q", app.Reference)
		seen[app.Reference] = true
	}
}

// claimFailingStore persists normally but cannot mark artifacts claimed
type claimFailingStore struct {
	*records.MemoryStore
}

func (s *claimFailingStore) ClaimArtifacts(ctx context.Context, urls []string) error {
	return errors.New("db connection lost")
}

func TestSubmitClaimFailureStillReturnsReference(t *testing.T) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()
	uploader := upload.NewCoordinator(gw, store)
	svc := NewService(store, store, &claimFailingStore{store}, uploader)
	svc.SetClock(func() time.Time { return submissionTime })

	app, err := svc.Submit(context.Background(), adultRequest())
	require.NoError(t, err, "the record is persisted; a claim failure must not report it as a failed submission")
	assert.True(t, utils.ValidReference(app.Reference))
	assert.Equal(t, 1, store.ApplicationCount())

	// The blob stays unclaimed; reclaiming it is the cleanup job's problem
	artifact, ok := store.ArtifactByURL(app.SignatureURL)
	require.True(t, ok)
	assert.False(t, artifact.Claimed)
}

func TestSubmitRenewalClaimFailureStillReturnsReference(t *testing.T) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()
	uploader := upload.NewCoordinator(gw, store)
	svc := NewService(store, store, &claimFailingStore{store}, uploader)

	renewal, err := svc.SubmitRenewal(context.Background(), RenewalRequest{
		Name:             "Lineo",
		Surname:          "Ramaisa",
		PassportNumber:   "RC123456",
		District:         "Leribe",
		Photo:            []byte("jpeg-bytes"),
		PhotoContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.True(t, utils.ValidReference(renewal.Reference))

	persisted, lookupErr := store.GetRenewalByReference(context.Background(), renewal.Reference)
	require.NoError(t, lookupErr)
	assert.Equal(t, "RC123456", persisted.PassportNumber)
}

func TestSubmitUploadFailureLeavesNoRecord(t *testing.T) {
	svc, gw, store := newService()
	gw.FailNext = assert.AnError

	_, err := svc.Submit(context.Background(), adultRequest())
	require.ErrorIs(t, err, upload.ErrUploadFailed)
	assert.Equal(t, 0, store.ApplicationCount(), "no partial record after an upload failure")
}

func TestSubmitRenewalHappyPath(t *testing.T) {
	svc, _, store := newService()

	renewal, err := svc.SubmitRenewal(context.Background(), RenewalRequest{
		Name:             "Lineo",
		Surname:          "Ramaisa",
		PassportNumber:   "RC123456",
		District:         "Leribe",
		Photo:            []byte("jpeg-bytes"),
		PhotoContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.True(t, utils.ValidReference(renewal.Reference))
	assert.NotEmpty(t, renewal.PhotoURL)

	persisted, err := store.GetRenewalByReference(context.Background(), renewal.Reference)
	require.NoError(t, err)
	assert.Equal(t, "RC123456", persisted.PassportNumber)

	artifact, ok := store.ArtifactByURL(renewal.PhotoURL)
	require.True(t, ok)
	assert.True(t, artifact.Claimed)
}

func TestSubmitRenewalBadPhotoTypeNoStorageCall(t *testing.T) {
	svc, gw, store := newService()

	_, err := svc.SubmitRenewal(context.Background(), RenewalRequest{
		Name:             "Lineo",
		Surname:          "Ramaisa",
		PassportNumber:   "RC123456",
		District:         "Leribe",
		Photo:            []byte("%PDF-1.4"),
		PhotoContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, upload.ErrUnsupportedFileType)
	assert.Equal(t, 0, gw.UploadCalls)
	assert.Equal(t, 0, store.ApplicationCount())
}

func TestSubmitRenewalMissingFields(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.SubmitRenewal(context.Background(), RenewalRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Missing, "name")
	assert.Contains(t, verr.Missing, "surname")
	assert.Contains(t, verr.Missing, "passport_number")
	assert.Contains(t, verr.Missing, "district")
	assert.Contains(t, verr.Missing, "photo")
}
