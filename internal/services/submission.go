package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openlancer/openlancer-backend/internal/auth"
	"github.com/openlancer/openlancer-backend/internal/models"
)

// SubmissionConfig names the document collections the action writes into.
type SubmissionConfig struct {
	ProfilesCollection  string
	ProjectsCollection  string
	CompaniesCollection string
}

// SubmissionService turns a parsed form payload into a persisted profile.
// Sub-records are committed first so the profile's references are valid at
// creation time; media attachment is handed to the background pipeline and
// never influences the caller-visible result.
type SubmissionService struct {
	docs   DocumentStore
	media  *MediaPipeline
	config SubmissionConfig
}

func NewSubmissionService(docs DocumentStore, media *MediaPipeline, config SubmissionConfig) *SubmissionService {
	return &SubmissionService{docs: docs, media: media, config: config}
}

// Submit runs a single pass with no retries at this level. The result
// reflects primary-record creation only. Sub-record failures are logged and
// skipped; if the profile create itself fails, already-created sub-records
// are left orphaned (no rollback exists).
func (s *SubmissionService) Submit(ctx context.Context, payload *models.SubmissionPayload) *models.SubmissionResult {
	identity := auth.FromContext(ctx)
	if identity == nil {
		return &models.SubmissionResult{
			Success: false,
			Message: "Authentication required. Please sign in to create your profile.",
		}
	}
	logCtx := slog.With("userId", identity.UserID)

	if fieldErrors := validatePayload(payload); len(fieldErrors) > 0 {
		return &models.SubmissionResult{
			Success: false,
			Message: "Please correct the highlighted fields.",
			Errors:  fieldErrors,
		}
	}

	var groups []TaskGroup

	companyRef := s.createCompany(ctx, logCtx, identity.UserID, payload, &groups)
	projectRefs := s.createProjects(ctx, logCtx, identity.UserID, payload, &groups)

	profile := models.Profile{
		UserID: identity.UserID,
		PersonalDetails: models.PersonalDetails{
			FullName: payload.FullName,
			Email:    payload.Email,
			Phone:    payload.Phone,
			Location: payload.Location,
		},
		CoreIdentity: models.CoreIdentity{
			Headline:  payload.Headline,
			Bio:       payload.Bio,
			Skills:    payload.Skills,
			Languages: payload.Languages,
		},
		BusinessDetails: models.BusinessDetails{
			HourlyRate:   payload.HourlyRate,
			Availability: payload.Availability,
		},
		SocialLinks: payload.SocialLinks,
		Projects:    projectRefs,
		Company:     companyRef,
		CreatedAt:   time.Now(),
	}

	profileID, err := s.docs.Create(ctx, s.config.ProfilesCollection, profile)
	if err != nil {
		logCtx.Error("Failed to create profile document.", "error", err)
		return &models.SubmissionResult{Success: false, Message: createFailureMessage(err)}
	}
	logCtx = logCtx.With("profileId", profileID)
	logCtx.Info("Profile document created.")

	if payload.ProfilePicture != nil || payload.BannerImage != nil {
		profileGroup := TaskGroup{Label: "profile"}
		if payload.ProfilePicture != nil {
			profileGroup.Tasks = append(profileGroup.Tasks, UploadTask{
				Collection: s.config.ProfilesCollection,
				TargetID:   profileID,
				FieldPath:  "profileImage",
				File:       *payload.ProfilePicture,
			})
		}
		if payload.BannerImage != nil {
			profileGroup.Tasks = append(profileGroup.Tasks, UploadTask{
				Collection: s.config.ProfilesCollection,
				TargetID:   profileID,
				FieldPath:  "bannerImage",
				File:       *payload.BannerImage,
			})
		}
		groups = append(groups, profileGroup)
	}

	// Fire and forget: the submitter's response never waits on media.
	s.media.Dispatch(ctx, profileID, groups)

	return &models.SubmissionResult{
		Success:   true,
		Message:   "Profile created successfully.",
		ProfileID: profileID,
	}
}

// GetProfile fetches one profile document by id, including any fields the
// background pipeline has patched in since creation.
func (s *SubmissionService) GetProfile(ctx context.Context, id string) (map[string]any, error) {
	return s.docs.Get(ctx, s.config.ProfilesCollection, id)
}

// createCompany commits the optional company sub-record. Best effort: on
// failure the submission continues without the reference.
func (s *SubmissionService) createCompany(ctx context.Context, logCtx *slog.Logger, userID string, payload *models.SubmissionPayload, groups *[]TaskGroup) *models.Reference {
	if !payload.HasCompany || payload.Company == nil {
		return nil
	}

	company := models.Company{
		OwnerID:     userID,
		Name:        payload.Company.Name,
		Website:     payload.Company.Website,
		Description: payload.Company.Description,
		CreatedAt:   time.Now(),
	}
	companyID, err := s.docs.Create(ctx, s.config.CompaniesCollection, company)
	if err != nil {
		logCtx.Error("Failed to create company document; continuing without it.", "error", err)
		return nil
	}

	if payload.Company.Logo != nil {
		*groups = append(*groups, TaskGroup{
			Label: "company " + companyID,
			Tasks: []UploadTask{{
				Collection: s.config.CompaniesCollection,
				TargetID:   companyID,
				FieldPath:  "logo",
				File:       *payload.Company.Logo,
			}},
		})
	}
	return &models.Reference{Type: "reference", ID: companyID}
}

// createProjects commits each repeatable project entry, collecting the ids
// of the ones that succeeded and queueing their images. Entries whose create
// failed are logged and skipped.
func (s *SubmissionService) createProjects(ctx context.Context, logCtx *slog.Logger, userID string, payload *models.SubmissionPayload, groups *[]TaskGroup) []models.Reference {
	var refs []models.Reference
	for i, input := range payload.Projects {
		project := models.Project{
			OwnerID:     userID,
			Title:       input.Title,
			Description: input.Description,
			URL:         input.URL,
			Images:      []any{},
			CreatedAt:   time.Now(),
		}
		projectID, err := s.docs.Create(ctx, s.config.ProjectsCollection, project)
		if err != nil {
			logCtx.Error("Failed to create project document; skipping it.", "index", i, "title", input.Title, "error", err)
			continue
		}
		refs = append(refs, models.Reference{Type: "reference", ID: projectID})

		if len(input.Images) == 0 {
			continue
		}
		group := TaskGroup{Label: fmt.Sprintf("project %s", projectID)}
		for _, image := range input.Images {
			group.Tasks = append(group.Tasks, UploadTask{
				Collection:  s.config.ProjectsCollection,
				TargetID:    projectID,
				FieldPath:   "images",
				File:        image,
				ArrayAppend: true,
				Extra:       map[string]any{"_type": "projectImage", "alt": input.Title},
			})
		}
		*groups = append(*groups, group)
	}
	return refs
}

func validatePayload(payload *models.SubmissionPayload) map[string]string {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(payload.FullName) == "" {
		fieldErrors["fullName"] = "Full name is required."
	}
	if strings.TrimSpace(payload.Email) == "" {
		fieldErrors["email"] = "Email is required."
	} else if !strings.Contains(payload.Email, "@") {
		fieldErrors["email"] = "Email must be a valid address."
	}
	if strings.TrimSpace(payload.Headline) == "" {
		fieldErrors["headline"] = "Headline is required."
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// createFailureMessage maps known document-store error classes to specific
// user-facing messages, falling back to a generic one.
func createFailureMessage(err error) string {
	switch status.Code(err) {
	case codes.PermissionDenied:
		return "You do not have permission to create a profile."
	case codes.Unauthenticated:
		return "Your session has expired. Please sign in again."
	default:
		return "Something went wrong while creating your profile. Please try again."
	}
}
