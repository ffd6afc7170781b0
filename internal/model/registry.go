// internal/model/registry.go
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Artifact file extensions recognized by LoadRegistry, enumerated per
// extension in sorted order.
var artifactExts = []string{".json", ".model"}

// Classifier suffix tokens stripped from file stems, tried first-match
// in this fixed order.
var nameSuffixes = []string{"_xgb_clf", "_xgb", "_clf"}

// Entry is one loaded artifact keyed by its normalized display name.
type Entry struct {
	Name     string
	Path     string
	Artifact *Artifact
}

// Registry holds loaded artifacts in deterministic load order.
type Registry struct {
	entries []Entry
}

// Entries returns the loaded artifacts in load order.
func (r *Registry) Entries() []Entry { return r.entries }

// Len is the number of loaded artifacts.
func (r *Registry) Len() int { return len(r.entries) }

// Names returns the display names in load order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// DisplayName derives a model's display name from its artifact file
// name: the stem with the first matching classifier suffix stripped.
func DisplayName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, suf := range nameSuffixes {
		if cut, ok := strings.CutSuffix(stem, suf); ok {
			return cut
		}
	}
	return stem
}

// LoadRegistry loads every artifact under dir. Files failing to decode
// are logged and skipped. A missing directory yields an empty registry.
// Duplicate display names are disambiguated with a numeric suffix and a
// logged warning rather than silently overwritten.
func LoadRegistry(dir string, log logrus.FieldLogger) *Registry {
	reg := &Registry{}
	if dir == "" {
		return reg
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if log != nil {
			log.Warnf("model directory missing: %s", dir)
		}
		return reg
	}

	// Per-extension groups, each sorted: .json files first, then .model.
	var paths []string
	for _, ext := range artifactExts {
		var group []string
		for _, ent := range entries {
			if ent.IsDir() {
				continue
			}
			if filepath.Ext(ent.Name()) == ext {
				group = append(group, filepath.Join(dir, ent.Name()))
			}
		}
		sort.Strings(group)
		paths = append(paths, group...)
	}

	names := make(map[string]bool, len(paths))
	for _, p := range paths {
		art, err := LoadArtifact(p)
		if err != nil {
			if log != nil {
				log.Errorf("failed to load %s: %v", filepath.Base(p), err)
			}
			continue
		}
		name := DisplayName(p)
		if names[name] {
			// A numeric suffix can itself collide with an earlier
			// entry's name, so keep counting until one is free.
			base := name
			for n := 2; ; n++ {
				cand := fmt.Sprintf("%s_%d", base, n)
				if !names[cand] {
					name = cand
					break
				}
			}
			if log != nil {
				log.Warnf("model name collision on %q; registering %s as %q", base, filepath.Base(p), name)
			}
		}
		names[name] = true
		reg.entries = append(reg.entries, Entry{Name: name, Path: p, Artifact: art})
		if log != nil {
			log.Infof("loaded model: %s", name)
		}
	}
	if log != nil {
		log.Infof("total models loaded: %d from %s", reg.Len(), dir)
	}
	return reg
}
