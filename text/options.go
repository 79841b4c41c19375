package text

// FontSystemOption configures FontSystem creation.
type FontSystemOption func(*fontSystemConfig)

// fontSystemConfig holds configuration for FontSystem.
type fontSystemConfig struct {
	generic map[Family]string
}

// defaultFontSystemConfig maps the generic families to the Go fonts from
// golang.org/x/image/font/gofont. Families without a mapping, or whose
// mapped family is not loaded, fall back to the first loaded source.
func defaultFontSystemConfig() fontSystemConfig {
	return fontSystemConfig{
		generic: map[Family]string{
			FamilySansSerif: "Go",
			FamilyMonospace: "Go Mono",
		},
	}
}

// WithGenericFamily maps a generic family to a loaded family name.
// Mapping FamilyName has no effect.
func WithGenericFamily(family Family, name string) FontSystemOption {
	return func(c *fontSystemConfig) {
		if family == FamilyName {
			return
		}
		c.generic[family] = name
	}
}
