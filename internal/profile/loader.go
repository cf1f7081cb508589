package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Section file base names. Each may be stored as .json, .yaml or .yml.
const (
	SectionHero       = "hero"
	SectionAbout      = "about"
	SectionExperience = "experience"
	SectionProjects   = "projects"
	SectionSkills     = "skills"
	SectionContact    = "contact"
)

// Sections lists the section names in load order.
func Sections() []string {
	return []string{SectionHero, SectionAbout, SectionExperience, SectionProjects, SectionSkills, SectionContact}
}

// extensions are tried in order; the first existing file wins.
var extensions = []string{".json", ".yaml", ".yml"}

// Load reads every section file from dir.
func Load(ctx context.Context, dir string) (*Profile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("profile dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("profile dir: %s is not a directory", dir)
	}
	return LoadFS(ctx, os.DirFS(dir))
}

// LoadFS reads every section file from fsys concurrently.
// A missing section file leaves that section empty and is reported by
// Profile.MissingSections; a malformed file is an error.
func LoadFS(ctx context.Context, fsys fs.FS) (*Profile, error) {
	p := &Profile{}

	targets := []struct {
		name string
		dst  any
	}{
		{SectionHero, &p.Hero},
		{SectionAbout, &p.About},
		{SectionExperience, &p.Experience},
		{SectionProjects, &p.Projects},
		{SectionSkills, &p.Skills},
		{SectionContact, &p.Contact},
	}

	found := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := decodeSection(fsys, t.name, t.dst)
			if err != nil {
				return fmt.Errorf("section %s: %w", t.name, err)
			}
			found[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range targets {
		if !found[i] {
			p.missing = append(p.missing, t.name)
		}
	}
	return p, nil
}

// decodeSection locates name.{json,yaml,yml} in fsys and decodes it into dst.
// Returns false without error when no file exists.
func decodeSection(fsys fs.FS, name string, dst any) (bool, error) {
	for _, ext := range extensions {
		file := name + ext
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", file, err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return true, nil
		}
		if err := decode(file, data, dst); err != nil {
			return false, fmt.Errorf("decode %s: %w", file, err)
		}
		return true, nil
	}
	return false, nil
}

func decode(file string, data []byte, dst any) error {
	switch path.Ext(file) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, dst)
	default:
		return json.Unmarshal(data, dst)
	}
}

// MissingSections lists the sections that had no file when loaded.
func (p *Profile) MissingSections() []string {
	if p == nil {
		return nil
	}
	return p.missing
}
