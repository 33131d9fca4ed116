package dto

// PatchConfigRequest updates only the fields present in the body; the caller
// never reconstructs the whole config object.
type PatchConfigRequest struct {
	LogoURL        *string   `json:"logo_url"`
	SlideURLs      *[]string `json:"slide_urls"      validate:"omitempty,max=5"`
	WhatsappNumber *string   `json:"whatsapp_number" validate:"omitempty,max=20"`
	YapeNumber     *string   `json:"yape_number"     validate:"omitempty,max=20"`
	YapeName       *string   `json:"yape_name"       validate:"omitempty,max=100"`
	PlinNumber     *string   `json:"plin_number"     validate:"omitempty,max=20"`
	PlinName       *string   `json:"plin_name"       validate:"omitempty,max=100"`
	FacebookURL    *string   `json:"facebook_url"    validate:"omitempty,max=300"`
	InstagramURL   *string   `json:"instagram_url"   validate:"omitempty,max=300"`
	TiktokURL      *string   `json:"tiktok_url"      validate:"omitempty,max=300"`
	Direccion      *string   `json:"direccion"       validate:"omitempty,max=300"`
	Horario        *string   `json:"horario"         validate:"omitempty,max=200"`
}

type ConfigResponse struct {
	LogoURL        string   `json:"logo_url,omitempty"`
	SlideURLs      []string `json:"slide_urls"`
	WhatsappNumber string   `json:"whatsapp_number"`
	YapeNumber     string   `json:"yape_number,omitempty"`
	YapeName       string   `json:"yape_name,omitempty"`
	PlinNumber     string   `json:"plin_number,omitempty"`
	PlinName       string   `json:"plin_name,omitempty"`
	FacebookURL    string   `json:"facebook_url,omitempty"`
	InstagramURL   string   `json:"instagram_url,omitempty"`
	TiktokURL      string   `json:"tiktok_url,omitempty"`
	Direccion      string   `json:"direccion,omitempty"`
	Horario        string   `json:"horario,omitempty"`
}
