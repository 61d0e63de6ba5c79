package models

import "time"

// Reference points at another document or a stored asset by id.
// This is the shape written into profile and project fields after an
// asset upload completes.
type Reference struct {
	Type string `firestore:"type" json:"type"`
	ID   string `firestore:"id" json:"id"`
}

// NewAssetReference builds the reference written for an uploaded asset.
func NewAssetReference(assetID string) Reference {
	return Reference{Type: "reference", ID: assetID}
}

// PersonalDetails holds the contact-facing fields collected in the early
// form steps.
type PersonalDetails struct {
	FullName string `firestore:"fullName,omitempty" json:"fullName"`
	Email    string `firestore:"email,omitempty" json:"email"`
	Phone    string `firestore:"phone,omitempty" json:"phone"`
	Location string `firestore:"location,omitempty" json:"location"`
}

// CoreIdentity holds the professional identity fields.
type CoreIdentity struct {
	Headline  string   `firestore:"headline,omitempty" json:"headline"`
	Bio       string   `firestore:"bio,omitempty" json:"bio"`
	Skills    []string `firestore:"skills,omitempty" json:"skills"`
	Languages []string `firestore:"languages,omitempty" json:"languages"`
}

// BusinessDetails holds rate and availability information.
type BusinessDetails struct {
	HourlyRate   string `firestore:"hourlyRate,omitempty" json:"hourlyRate"`
	Availability string `firestore:"availability,omitempty" json:"availability"`
}

// SocialLinks arrives on the wire as a single JSON-encoded form field.
type SocialLinks struct {
	Website  string `firestore:"website,omitempty" json:"website"`
	LinkedIn string `firestore:"linkedin,omitempty" json:"linkedin"`
	GitHub   string `firestore:"github,omitempty" json:"github"`
	Twitter  string `firestore:"twitter,omitempty" json:"twitter"`
}

// Profile is the primary record created once per submission. Media fields
// (profileImage, bannerImage) start empty and are patched in later by the
// background pipeline; the document id is stable from creation onward.
type Profile struct {
	UserID          string          `firestore:"userId,omitempty"`
	PersonalDetails PersonalDetails `firestore:"personalDetails,omitempty"`
	CoreIdentity    CoreIdentity    `firestore:"coreIdentity,omitempty"`
	BusinessDetails BusinessDetails `firestore:"businessDetails,omitempty"`
	SocialLinks     SocialLinks     `firestore:"socialLinks,omitempty"`
	Projects        []Reference     `firestore:"projects,omitempty"`
	Company         *Reference      `firestore:"company,omitempty"`
	CreatedAt       time.Time       `firestore:"createdAt,omitempty"`
}

// Project is a sub-record created before the profile that references it.
// Images is populated out of band, one append per uploaded asset.
type Project struct {
	OwnerID     string    `firestore:"ownerId,omitempty"`
	Title       string    `firestore:"title,omitempty"`
	Description string    `firestore:"description,omitempty"`
	URL         string    `firestore:"url,omitempty"`
	Images      []any     `firestore:"images"`
	CreatedAt   time.Time `firestore:"createdAt,omitempty"`
}

// Company is the optional sub-record created when the submitter flags an
// attached business.
type Company struct {
	OwnerID     string    `firestore:"ownerId,omitempty"`
	Name        string    `firestore:"name,omitempty"`
	Website     string    `firestore:"website,omitempty"`
	Description string    `firestore:"description,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt,omitempty"`
}
