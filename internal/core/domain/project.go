package domain

// Project is the CLI-facing configuration of one compilation: where the
// project lives, what to compile and how to export it.
type Project struct {
	Root        string
	Main        string
	FontPaths   []string
	SystemFonts bool
	Inputs      map[string]any
	Format      string
	PPI         float32
	Output      string
}
