package config

// projectFile represents the structure of the quill.yaml configuration
// file.
type projectFile struct {
	Root        string         `yaml:"root"`
	Main        string         `yaml:"main"`
	Fonts       []string       `yaml:"fonts"`
	SystemFonts bool           `yaml:"system-fonts"`
	Inputs      map[string]any `yaml:"inputs"`
	Format      string         `yaml:"format"`
	PPI         float32        `yaml:"ppi"`
	Output      string         `yaml:"output"`
}
