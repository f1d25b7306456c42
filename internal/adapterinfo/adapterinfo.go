package adapterinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const manifestName = "plugin.yaml"

// Metadata identifies the adapter on the submissions it forwards.
type Metadata struct {
	Name       string
	Slug       string
	Version    string
	BinaryName string
}

var (
	once      sync.Once
	cached    Metadata
	cachedErr error
)

// Load reads plugin.yaml from next to the binary, the working directory or
// the source tree. The result is computed once.
func Load() (Metadata, error) {
	once.Do(func() {
		cached, cachedErr = loadFrom(searchDirs())
	})
	return cached, cachedErr
}

// Properties returns the tags attached to every forwarded submission.
func (m Metadata) Properties() map[string]any {
	return map[string]any{
		"adapter":         m.Slug,
		"adapter_version": m.Version,
	}
}

// Fallback describes the adapter from the binary's build info when the
// manifest cannot be found.
func Fallback() Metadata {
	meta := Metadata{Name: "insightslog", Slug: "insightslog", Version: "unknown", BinaryName: filepath.Base(os.Args[0])}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		meta.Version = strings.TrimPrefix(info.Main.Version, "v")
	}
	return meta
}

func searchDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		dirs = append(dirs, filepath.Join(filepath.Dir(file), "..", ".."))
	}
	return dirs
}

func loadFrom(dirs []string) (Metadata, error) {
	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(filepath.Clean(dir), manifestName))
		if err != nil {
			continue
		}
		return Parse(data)
	}
	return Metadata{}, errors.New("adapterinfo: " + manifestName + " not found next to binary or source tree")
}

type manifest struct {
	Metadata struct {
		Name    string `yaml:"name"`
		Slug    string `yaml:"slug"`
		Version string `yaml:"version"`
	} `yaml:"metadata"`
	Spec struct {
		Entrypoint struct {
			Command string `yaml:"command"`
		} `yaml:"entrypoint"`
	} `yaml:"spec"`
}

// Parse decodes a plugin manifest. Version and slug are required.
func Parse(data []byte) (Metadata, error) {
	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Metadata{}, fmt.Errorf("adapterinfo: decode manifest: %w", err)
	}

	meta := Metadata{
		Name:       strings.TrimSpace(doc.Metadata.Name),
		Slug:       strings.TrimSpace(doc.Metadata.Slug),
		Version:    strings.TrimSpace(doc.Metadata.Version),
		BinaryName: strings.TrimPrefix(strings.TrimSpace(doc.Spec.Entrypoint.Command), "./"),
	}
	if meta.Version == "" {
		return Metadata{}, fmt.Errorf("adapterinfo: metadata.version missing in manifest")
	}
	if meta.Slug == "" {
		return Metadata{}, fmt.Errorf("adapterinfo: metadata.slug missing in manifest")
	}
	if meta.Name == "" {
		meta.Name = meta.Slug
	}
	if meta.BinaryName == "" {
		meta.BinaryName = meta.Slug
	}
	return meta, nil
}
