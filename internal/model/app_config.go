package model

import (
	"time"

	"github.com/lib/pq"
)

// AppConfig is the singleton branding/contact row (id = 1) read by the
// storefront at session start and patched field-by-field by the operator.
type AppConfig struct {
	ID             int            `gorm:"primaryKey"`
	LogoURL        string
	SlideURLs      pq.StringArray `gorm:"type:text[]"`
	WhatsappNumber string
	YapeNumber     string
	YapeName       string
	PlinNumber     string
	PlinName       string
	FacebookURL    string
	InstagramURL   string
	TiktokURL      string
	Direccion      string
	Horario        string
	UpdatedAt      time.Time
}

// AppConfigID is the only row id ever used; the table holds exactly one row.
const AppConfigID = 1

func (AppConfig) TableName() string { return "app_config" }
