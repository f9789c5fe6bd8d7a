package entity

import (
	"encoding/json"
	"time"
)

type PageStatus string

const (
	StatusDraft     PageStatus = "draft"
	StatusPublished PageStatus = "published"
	StatusArchived  PageStatus = "archived"
)

func (s PageStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Address is one practice location inside a briefing.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip,omitempty"`
}

// Briefing is the structured intake the wizard collects from the
// professional. Stored as JSONB on the landing_pages row.
type Briefing struct {
	Name          string    `json:"name"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	LicenseRegion string    `json:"license_region"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	WhatsApp      string    `json:"whatsapp,omitempty"`
	Services      []string  `json:"services,omitempty"`
	Addresses     []Address `json:"addresses,omitempty"`
}

type LandingPage struct {
	Base
	Subdomain       string          `db:"subdomain"`
	Status          PageStatus      `db:"status"`
	Briefing        Briefing        `db:"briefing"`
	Content         json.RawMessage `db:"content"`
	Design          json.RawMessage `db:"design"`
	Visibility      json.RawMessage `db:"visibility"`
	MetaTitle       string          `db:"meta_title"`
	MetaDescription string          `db:"meta_description"`
	PublishedAt     *time.Time      `db:"published_at"`
}
