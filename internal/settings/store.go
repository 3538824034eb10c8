package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/dustin/partsrec/internal/layout"
)

// Top-level sections of the configuration document
const (
	KeyModelConfig      = "model_config"
	KeyClassNames       = "class_names"
	KeyTrainingConfig   = "training_config"
	KeyDataAugmentation = "data_augmentation"
)

// codec keeps numbers as json.Number and leaves non-ASCII text unescaped
var codec = sonic.Config{
	UseNumber:  true,
	EscapeHTML: false,
}.Froze()

type state uint8

const (
	stateUnloaded state = iota
	stateLoaded
)

// Store is a dotted-key view over one JSON configuration file.
// The first read or write loads the file; after that the in-memory document
// is authoritative until Save. A Store must be owned by a single goroutine.
type Store struct {
	path  string
	state state
	doc   map[string]any
}

// NewStore binds a store to its backing file without reading it
func NewStore(path string) *Store {
	return &Store{path: path, state: stateUnloaded}
}

// NewStoreForLayout binds a store to the layout's config file
func NewStoreForLayout(l *layout.Layout) *Store {
	return NewStore(l.ConfigFile())
}

func (s *Store) Path() string { return s.path }

// Loaded reports whether a document has been read
func (s *Store) Loaded() bool { return s.state == stateLoaded }

// Load reads the backing file and replaces the cached document.
// A failed load keeps whatever was cached before.
func (s *Store) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", s.path, err)
	}

	if !utf8.Valid(data) {
		return nil, &ParseError{Path: s.path, Err: errors.New("not valid UTF-8")}
	}

	var doc map[string]any
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	if doc == nil {
		return nil, &ParseError{Path: s.path, Err: errors.New("top-level value is not an object")}
	}

	s.doc = doc
	s.state = stateLoaded
	return s.doc, nil
}

func (s *Store) ensureLoaded() error {
	if s.state == stateLoaded {
		return nil
	}
	_, err := s.Load()
	return err
}

// Document returns the whole cached document, loading it if needed
func (s *Store) Document() (map[string]any, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.doc, nil
}

// Get resolves a dotted key such as "model_config.model_name".
// An empty key yields the whole document.
func (s *Store) Get(key string) (Value, error) {
	if err := s.ensureLoaded(); err != nil {
		return Value{}, err
	}
	if key == "" {
		return ValueOf(s.doc), nil
	}

	var current any = s.doc
	for _, segment := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return Value{}, &KeyError{Key: key, Segment: segment, NotMapping: true}
		}
		next, ok := m[segment]
		if !ok {
			return Value{}, &KeyError{Key: key, Segment: segment}
		}
		current = next
	}
	return ValueOf(current), nil
}

// Set assigns value at a dotted key, creating missing intermediate
// mappings. The value is stored as its decoded JSON form, so it reads back
// the same way it would after Save and Load. Nothing is written to disk
// until Save.
func (s *Store) Set(key string, value any) error {
	segments, err := splitKey(key)
	if err != nil {
		return err
	}
	node, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	current := s.doc
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment]
		if !ok {
			child := make(map[string]any)
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return &KeyError{Key: key, Segment: segment, NotMapping: true}
		}
		current = child
	}

	current[segments[len(segments)-1]] = node
	return nil
}

// normalize copies value into the shapes the decoder produces:
// map[string]any, []any, json.Number, string, bool and nil
func normalize(value any) (any, error) {
	data, err := codec.Marshal(value)
	if err != nil {
		return nil, err
	}
	var node any
	if err := codec.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return node, nil
}

func splitKey(key string) ([]string, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	segments := strings.Split(key, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: empty segment in '%s'", ErrInvalidKey, key)
		}
	}
	return segments, nil
}

// Save writes the cached document back to the backing file.
// It does nothing if no document was ever loaded.
func (s *Store) Save() error {
	if s.state != stateLoaded {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := codec.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", s.path, err)
	}
	return nil
}

// ModelConfig returns the model_config section
func (s *Store) ModelConfig() (map[string]any, error) {
	return s.section(KeyModelConfig)
}

// TrainingConfig returns the training_config section
func (s *Store) TrainingConfig() (map[string]any, error) {
	return s.section(KeyTrainingConfig)
}

// DataAugmentationConfig returns the data_augmentation section
func (s *Store) DataAugmentationConfig() (map[string]any, error) {
	return s.section(KeyDataAugmentation)
}

// ClassNames returns the ordered list of detectable part classes
func (s *Store) ClassNames() ([]string, error) {
	v, err := s.Get(KeyClassNames)
	if err != nil {
		return nil, err
	}
	names, ok := v.Strings()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not a list of strings", ErrTypeMismatch, KeyClassNames, v.Kind())
	}
	return names, nil
}

func (s *Store) section(key string) (map[string]any, error) {
	v, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	m, ok := v.Mapping()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not a mapping", ErrTypeMismatch, key, v.Kind())
	}
	return m, nil
}
