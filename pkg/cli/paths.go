package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the per-app directories under ~/.vaani.
type Paths struct {
	AppName string
	HomeDir string
}

func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{AppName: appName, HomeDir: home}, nil
}

// BaseDir returns ~/.vaani.
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns ~/.vaani/<app>.
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns ~/.vaani/<app>/config.yaml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// ArtifactDir is the default location of reply audio.
func (p *Paths) ArtifactDir() string {
	return filepath.Join(p.AppDir(), "artifacts")
}

// TurnsDir is the default location of the turn log database.
func (p *Paths) TurnsDir() string {
	return filepath.Join(p.AppDir(), "turns")
}

// ArtifactDirFor returns the context's artifact dir or the default.
func (p *Paths) ArtifactDirFor(ctx *Context) string {
	if ctx != nil && ctx.ArtifactDir != "" {
		return expandHome(ctx.ArtifactDir, p.HomeDir)
	}
	return p.ArtifactDir()
}

// TurnsDirFor returns the context's turn log dir. Unlike artifacts, turns
// default to memory, signalled by "".
func (p *Paths) TurnsDirFor(ctx *Context) string {
	if ctx == nil || ctx.TurnsDir == "" {
		return ""
	}
	return expandHome(ctx.TurnsDir, p.HomeDir)
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		return filepath.Join(home, path[2:])
	}
	return path
}
