package entity

type MetadataAttribute struct {
	TraitType   string `mapstructure:"trait_type"`
	DisplayType string `mapstructure:"display_type"`
	Value       any    `mapstructure:"value"`
}

// Metadata is an ERC-721 metadata document.
type Metadata struct {
	Name        string              `mapstructure:"name"`
	Description string              `mapstructure:"description"`
	Image       string              `mapstructure:"image"`
	ExternalURL string              `mapstructure:"external_url"`
	Attributes  []MetadataAttribute `mapstructure:"attributes"`

	Extra map[string]any `mapstructure:",remain"`
}
