package styles

// Defaults are the fallback styles applied when a name has no entry.
type Defaults struct {
	Color string `yaml:"color"`
	Icon  string `yaml:"icon"`
}

// Config is the root structure of styles.yaml: category names to marker
// colors and tag names to icons.
type Config struct {
	Defaults   Defaults          `yaml:"defaults"`
	Categories map[string]string `yaml:"categories"`
	Tags       map[string]string `yaml:"tags"`
}
