// internal/models/store.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Theme is the storefront look: colors, font and layout. Stored as jsonb.
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	Layout         string `json:"layout"`
}

func (t Theme) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Theme) Scan(value interface{}) error {
	if value == nil {
		*t = Theme{}
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, t)
}

// Content holds the copy blocks rendered by the storefront preview.
type Content struct {
	HeroTitle           string   `json:"heroTitle"`
	HeroDescription     string   `json:"heroDescription"`
	FeatureTitles       []string `json:"featureTitles"`
	FeatureDescriptions []string `json:"featureDescriptions"`
	NewsletterHeading   string   `json:"newsletterHeading"`
	NewsletterText      string   `json:"newsletterText"`
}

func (c Content) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Content) Scan(value interface{}) error {
	if value == nil {
		*c = Content{}
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, c)
}

func jsonbBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported jsonb source type")
	}
}

type Store struct {
	BaseModel
	UserID       uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Niche        string     `json:"niche" gorm:"size:100;index"`
	Theme        Theme      `json:"theme" gorm:"type:jsonb"`
	Content      Content    `json:"content" gorm:"type:jsonb"`
	HeroImage    string     `json:"hero_image" gorm:"size:2048"`
	LogoURL      string     `json:"logo_url" gorm:"size:2048"`
	DataSource   DataSource `json:"data_source" gorm:"type:varchar(20);default:'manual';index"`
	SourceDomain string     `json:"source_domain,omitempty" gorm:"size:255"`

	// Relationships
	Owner    User      `json:"owner,omitempty" gorm:"foreignKey:UserID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

// StoreDraft is the normalized, not-yet-persisted form a wizard or generator
// produces. The persistence gateway turns it into a Store owned by a user.
type StoreDraft struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Niche        string         `json:"niche"`
	Theme        Theme          `json:"theme"`
	Content      Content        `json:"content"`
	HeroImage    string         `json:"hero_image"`
	LogoURL      string         `json:"logo_url"`
	DataSource   DataSource     `json:"data_source"`
	SourceDomain string         `json:"source_domain,omitempty"`
	Products     []ProductDraft `json:"products"`
	Collections  []string       `json:"collections,omitempty"`
}
