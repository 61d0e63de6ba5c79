package models

// These structs define the transfer payload handed from the HTTP layer to
// the submission action, and the result contract the caller observes.

// FileUpload is one binary part lifted out of the multipart form.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectInput is one repeatable project entry. Images are matched to the
// entry by the positional projectImages[i][j] part-naming convention.
type ProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Images      []FileUpload `json:"-"`
}

// CompanyInput is the optional attached-business entry.
type CompanyInput struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Logo        *FileUpload `json:"-"`
}

// SubmissionPayload is the parsed form as the submission action consumes it.
type SubmissionPayload struct {
	FullName     string
	Email        string
	Phone        string
	Location     string
	Headline     string
	Bio          string
	Skills       []string
	Languages    []string
	HourlyRate   string
	Availability string
	SocialLinks  SocialLinks

	HasCompany bool
	Company    *CompanyInput
	Projects   []ProjectInput

	ProfilePicture *FileUpload
	BannerImage    *FileUpload
}

// SubmissionResult is the only contract the caller observes. It reflects
// primary-record creation only; background media attachment is never
// reported here.
type SubmissionResult struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	ProfileID string            `json:"profileId,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
