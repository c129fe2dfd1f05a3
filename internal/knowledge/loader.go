package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxKnowledgeFileSize = 4 * 1024 * 1024 // 4MB

// knowledgeFile is the on-disk YAML shape of one agent's knowledge base.
type knowledgeFile struct {
	Agent   string  `koanf:"agent"`
	Entries []Entry `koanf:"entries"`
}

// Loader reads per-agent knowledge base YAML files into a Store.
// One file per agent; the agent ID comes from the file's `agent` field,
// falling back to the file name without extension.
type Loader struct {
	dir   string
	store Store
}

// NewLoader creates a loader for the given directory.
func NewLoader(dir string, store Store) (*Loader, error) {
	if dir == "" {
		return nil, fmt.Errorf("knowledge directory cannot be empty")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Loader{dir: dir, store: store}, nil
}

// LoadAll loads every .yaml/.yml file in the directory. Returns the number
// of agent knowledge bases loaded. A missing directory is not an error;
// it means no knowledge bases are configured yet.
func (l *Loader) LoadAll(ctx context.Context) (int, error) {
	files, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading knowledge directory: %w", err)
	}

	loaded := 0
	for _, f := range files {
		if f.IsDir() || !isYAMLFile(f.Name()) {
			continue
		}
		if err := l.LoadFile(ctx, filepath.Join(l.dir, f.Name())); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

// LoadFile parses one knowledge file and replaces that agent's entries.
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat knowledge file: %w", err)
	}
	if info.Size() > maxKnowledgeFileSize {
		return fmt.Errorf("knowledge file too large: %d bytes (max %d)", info.Size(), maxKnowledgeFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading knowledge file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("parsing knowledge file %s: %w", path, err)
	}

	var kf knowledgeFile
	if err := k.Unmarshal("", &kf); err != nil {
		return fmt.Errorf("unmarshaling knowledge file %s: %w", path, err)
	}

	agentID := kf.Agent
	if agentID == "" {
		base := filepath.Base(path)
		agentID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	// Entries without IDs get stable-enough generated ones.
	for i := range kf.Entries {
		if kf.Entries[i].ID == "" {
			kf.Entries[i].ID = uuid.NewString()
		}
	}

	return l.store.Replace(ctx, agentID, kf.Entries)
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
