// Package config provides the project configuration loader for quill.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/quill/internal/core/domain"
	"go.trai.ch/quill/internal/core/ports"
)

// FileName is the project configuration file quill looks for.
const FileName = "quill.yaml"

const (
	defaultMain   = "main.qm"
	defaultFormat = "txt"
	defaultPPI    = 144
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the project configuration. When path names a file it is
// read directly; when it names a directory the directory and its
// parents are searched for quill.yaml.
func (l *Loader) Load(path string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var file projectFile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(configPath)
	project := &domain.Project{
		Root:        resolvePath(baseDir, file.Root),
		Main:        file.Main,
		SystemFonts: file.SystemFonts,
		Inputs:      file.Inputs,
		Format:      file.Format,
		PPI:         file.PPI,
		Output:      file.Output,
	}
	for _, dir := range file.Fonts {
		project.FontPaths = append(project.FontPaths, resolvePath(baseDir, dir))
	}

	if project.Main == "" {
		project.Main = defaultMain
	}
	if project.Format == "" {
		project.Format = defaultFormat
	}
	if project.PPI <= 0 {
		project.PPI = defaultPPI
	}

	l.Logger.Debug("configuration loaded", "path", configPath, "root", project.Root)
	return project, nil
}

func (l *Loader) findConfiguration(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "cannot stat search path"), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	currentDir := path
	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no quill.yaml up from path"), "path", path)
}

func readAndUnmarshalYAML(path string, out *projectFile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "failed to read configuration"), "path", path), "cause", err.Error())
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "failed to parse configuration"), "path", path), "cause", err.Error())
	}
	return nil
}

func resolvePath(baseDir, p string) string {
	if p == "" {
		return baseDir
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
