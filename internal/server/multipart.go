package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openlancer/openlancer-backend/internal/models"
)

// projectImagePattern matches the positional file-part naming convention:
// projectImages[i][j] is image j of project entry i.
var projectImagePattern = regexp.MustCompile(`^projectImages\[(\d+)\]\[(\d+)\]$`)

// parseSubmissionForm decodes the flat multipart transfer payload: scalar
// fields as strings, repeated fields as repeated same-named entries,
// structured sub-objects as JSON-encoded strings, binary fields as file
// parts.
func parseSubmissionForm(c *gin.Context) (*models.SubmissionPayload, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart form: %w", err)
	}

	payload := &models.SubmissionPayload{
		FullName:     firstValue(mf, "fullName"),
		Email:        firstValue(mf, "email"),
		Phone:        firstValue(mf, "phone"),
		Location:     firstValue(mf, "location"),
		Headline:     firstValue(mf, "headline"),
		Bio:          firstValue(mf, "bio"),
		Skills:       mf.Value["skills"],
		Languages:    mf.Value["languages"],
		HourlyRate:   firstValue(mf, "hourlyRate"),
		Availability: firstValue(mf, "availability"),
		HasCompany:   firstValue(mf, "hasCompany") == "true",
	}

	if raw := firstValue(mf, "socialLinks"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to parse socialLinks: %w", err)
		}
	}

	if raw := firstValue(mf, "projects"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload.Projects); err != nil {
			return nil, fmt.Errorf("failed to parse projects: %w", err)
		}
	}

	if payload.HasCompany {
		company := &models.CompanyInput{
			Name:        firstValue(mf, "companyName"),
			Website:     firstValue(mf, "companyWebsite"),
			Description: firstValue(mf, "companyDescription"),
		}
		if logo, err := readFilePart(mf, "companyLogo"); err != nil {
			return nil, err
		} else if logo != nil {
			company.Logo = logo
		}
		payload.Company = company
	}

	if payload.ProfilePicture, err = readFilePart(mf, "profilePicture"); err != nil {
		return nil, err
	}
	if payload.BannerImage, err = readFilePart(mf, "bannerImage"); err != nil {
		return nil, err
	}

	if err := attachProjectImages(mf, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// attachProjectImages walks the file parts matching projectImages[i][j] and
// slots each into its project entry, ordered by j within an entry. Parts
// addressing a project index outside the parsed list are rejected.
func attachProjectImages(mf *multipart.Form, payload *models.SubmissionPayload) error {
	type indexedFile struct {
		position int
		file     models.FileUpload
	}
	perProject := make(map[int][]indexedFile)

	for name, headers := range mf.File {
		match := projectImagePattern.FindStringSubmatch(name)
		if match == nil || len(headers) == 0 {
			continue
		}
		projectIndex, _ := strconv.Atoi(match[1])
		imageIndex, _ := strconv.Atoi(match[2])
		if projectIndex < 0 || projectIndex >= len(payload.Projects) {
			return fmt.Errorf("file part %s addresses a project entry that does not exist", name)
		}
		file, err := readFileHeader(headers[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		perProject[projectIndex] = append(perProject[projectIndex], indexedFile{position: imageIndex, file: *file})
	}

	for projectIndex, files := range perProject {
		sort.Slice(files, func(a, b int) bool { return files[a].position < files[b].position })
		for _, f := range files {
			payload.Projects[projectIndex].Images = append(payload.Projects[projectIndex].Images, f.file)
		}
	}
	return nil
}

func firstValue(mf *multipart.Form, field string) string {
	if values := mf.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readFilePart(mf *multipart.Form, field string) (*models.FileUpload, error) {
	headers := mf.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	file, err := readFileHeader(headers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return file, nil
}

func readFileHeader(header *multipart.FileHeader) (*models.FileUpload, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return &models.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
