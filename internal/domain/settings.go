package domain

import "github.com/shopspring/decimal"

// Settings is the single website_settings row edited from the back office.
// TaxRate here is display metadata for the admin screens; the pricing engine
// carries its own rate (see internal/pricing).
type Settings struct {
	ID             string          `json:"id"`
	SiteName       string          `json:"site_name"`
	LogoURL        string          `json:"logo_url,omitempty"`
	PrimaryColor   string          `json:"primary_color"`
	SecondaryColor string          `json:"secondary_color"`
	AccentColor    string          `json:"accent_color"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	FacebookURL    string          `json:"facebook_url,omitempty"`
	InstagramURL   string          `json:"instagram_url,omitempty"`
	LinkedinURL    string          `json:"linkedin_url,omitempty"`
	Currency       string          `json:"currency"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
}
