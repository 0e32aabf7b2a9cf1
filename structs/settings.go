package structs

import "strings"

// DefaultAdminPassword is used when the settings carry no password
const DefaultAdminPassword = "admin123"

// Settings is the single store-wide configuration record
type Settings struct {
	Whatsapp       string `json:"whatsapp"`
	Instagram      string `json:"instagram"`
	Tiktok         string `json:"tiktok"`
	AdminPassword  string `json:"adminPassword"`
	StockEnabled   bool   `json:"stockEnabled"`
	OrderWhatsapp1 string `json:"orderWhatsapp1"`
	OrderWhatsapp2 string `json:"orderWhatsapp2"`
	OrderWhatsapp3 string `json:"orderWhatsapp3"`
	OrderWhatsapp4 string `json:"orderWhatsapp4"`
	LogoURL        string `json:"logoUrl"`
}

func DefaultSettings() Settings {
	return Settings{AdminPassword: DefaultAdminPassword}
}

// Password returns the admin password, falling back to the default one
func (s Settings) Password() string {
	if s.AdminPassword == "" {
		return DefaultAdminPassword
	}
	return s.AdminPassword
}

// OrderNumbers returns the non-blank order intake numbers. When none is set
// the primary contact number is used instead.
func (s Settings) OrderNumbers() []string {
	var out []string
	for _, n := range []string{s.OrderWhatsapp1, s.OrderWhatsapp2, s.OrderWhatsapp3, s.OrderWhatsapp4} {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		if primary := strings.TrimSpace(s.Whatsapp); primary != "" {
			out = append(out, primary)
		}
	}
	return out
}

// Public strips the admin password
func (s Settings) Public() PublicSettings {
	return PublicSettings{
		Whatsapp:     s.Whatsapp,
		Instagram:    s.Instagram,
		Tiktok:       s.Tiktok,
		StockEnabled: s.StockEnabled,
		OrderNumbers: s.OrderNumbers(),
		LogoURL:      s.LogoURL,
	}
}

type PublicSettings struct {
	Whatsapp     string   `json:"whatsapp"`
	Instagram    string   `json:"instagram"`
	Tiktok       string   `json:"tiktok"`
	StockEnabled bool     `json:"stockEnabled"`
	OrderNumbers []string `json:"orderNumbers"`
	LogoURL      string   `json:"logoUrl"`
	Theme        string   `json:"theme"`
}

// SettingsPatch is a shallow update of Settings; nil fields are left alone
type SettingsPatch struct {
	Whatsapp       *string `json:"whatsapp" validate:"omitempty,max=32"`
	Instagram      *string `json:"instagram" validate:"omitempty,max=200"`
	Tiktok         *string `json:"tiktok" validate:"omitempty,max=200"`
	AdminPassword  *string `json:"adminPassword" validate:"omitempty,max=200"`
	StockEnabled   *bool   `json:"stockEnabled"`
	OrderWhatsapp1 *string `json:"orderWhatsapp1" validate:"omitempty,max=32"`
	OrderWhatsapp2 *string `json:"orderWhatsapp2" validate:"omitempty,max=32"`
	OrderWhatsapp3 *string `json:"orderWhatsapp3" validate:"omitempty,max=32"`
	OrderWhatsapp4 *string `json:"orderWhatsapp4" validate:"omitempty,max=32"`
	LogoURL        *string `json:"logoUrl" validate:"omitempty,max=400000"`
}

// Apply merges the patch into s
func (p SettingsPatch) Apply(s Settings) Settings {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Whatsapp, p.Whatsapp)
	set(&s.Instagram, p.Instagram)
	set(&s.Tiktok, p.Tiktok)
	set(&s.AdminPassword, p.AdminPassword)
	set(&s.OrderWhatsapp1, p.OrderWhatsapp1)
	set(&s.OrderWhatsapp2, p.OrderWhatsapp2)
	set(&s.OrderWhatsapp3, p.OrderWhatsapp3)
	set(&s.OrderWhatsapp4, p.OrderWhatsapp4)
	set(&s.LogoURL, p.LogoURL)
	if p.StockEnabled != nil {
		s.StockEnabled = *p.StockEnabled
	}
	return s
}
