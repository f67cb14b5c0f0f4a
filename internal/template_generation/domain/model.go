package domain

const DefaultBusinessType = "Service Business"

// ProjectSpec is the fully resolved description of one landing page. It is
// built once by the resolver and treated as read-only afterwards.
type ProjectSpec struct {
	BusinessName string     `json:"business_name" yaml:"business_name"`
	BusinessType string     `json:"business_type" yaml:"business_type"`
	Location     string     `json:"location" yaml:"location"`
	Services     ServiceMap `json:"services" yaml:"services"`
	Colors       ColorMap   `json:"colors" yaml:"colors"`
	Contact      Contact    `json:"contact" yaml:"contact"`
}

type Contact struct {
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	Address      string `json:"address" yaml:"address"`
	BusinessName string `json:"business_name" yaml:"business_name"`
	BusinessType string `json:"business_type" yaml:"business_type"`
}

// DisplayName falls back to the business type when no name was given.
func (p ProjectSpec) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	if p.BusinessType != "" {
		return p.BusinessType
	}
	return DefaultBusinessType
}
