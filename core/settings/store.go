package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"transease/core/utils"

	"github.com/go-ini/ini"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const dirPerm = 0o755

// Updates maps section to key to value. Values may be strings, numbers or booleans.
type Updates map[string]map[string]any

// Store owns the persisted settings file. Save is its only writer; every reader sees
// one consistent snapshot.
type Store struct {
	fs      afero.Fs
	path    string
	workDir string
	logger  *zap.Logger

	// saveMu serializes writers; mu guards the committed state.
	saveMu  sync.Mutex
	mu      sync.RWMutex
	file    *ini.File
	current Settings
}

// NewStore creates a store for cfg.Path on fsys without reading it. Call Load before use.
func NewStore(fsys afero.Fs, cfg Config, logger *zap.Logger) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "config.ini"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fs:      fsys,
		path:    abs,
		workDir: wd,
		logger:  logger,
		file:    ini.Empty(),
		current: Defaults(wd),
	}, nil
}

// Open creates a store and loads it.
func Open(fsys afero.Fs, cfg Config, logger *zap.Logger) (*Store, error) {
	s, err := NewStore(fsys, cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Defaults returns the schema defaults for this store.
func (s *Store) Defaults() Settings {
	return Defaults(s.workDir)
}

// Load reads the settings file, creating it with defaults when absent. Malformed files,
// missing keys and invalid values are repaired from defaults; an uncreatable root
// directory is replaced by the working directory. Repairs are written back.
func (s *Store) Load() (Settings, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	dirty := false
	data, err := afero.ReadFile(s.fs, s.path)
	var file *ini.File
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Info("Creating default settings file", zap.String("path", s.path))
		file = ini.Empty()
		dirty = true
	case err != nil:
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	default:
		file, err = parse(data)
		if err != nil {
			s.logger.Warn("Settings file is malformed, repairing with defaults",
				zap.String("path", s.path), zap.Error(err))
			file = ini.Empty()
			dirty = true
		}
	}

	values, repaired := s.repair(file)
	dirty = dirty || repaired

	root := values[KeyRootPath]
	if err := s.fs.MkdirAll(root, dirPerm); err != nil {
		fallback := s.workDir
		s.logger.Error("Cannot create root directory, falling back to working directory",
			zap.String("root_path", root), zap.String("fallback", fallback), zap.Error(err))
		if err := s.fs.MkdirAll(fallback, dirPerm); err != nil {
			s.logger.Error("Cannot create fallback root directory", zap.String("root_path", fallback), zap.Error(err))
		}
		values[KeyRootPath] = fallback
		file.Section(SectionGeneral).Key(KeyRootPath).SetValue(fallback)
		dirty = true
	}

	if dirty {
		if err := s.write(file); err != nil {
			s.logger.Error("Failed to persist settings file", zap.String("path", s.path), zap.Error(err))
		}
	}

	settings := fromValues(values)
	s.mu.Lock()
	s.file = file
	s.current = settings
	s.mu.Unlock()

	return settings, nil
}

// repair fills missing or invalid recognized keys with defaults and returns the
// normalized values. Valid text is left as written.
func (s *Store) repair(file *ini.File) (map[string]string, bool) {
	defaults := s.Defaults().Values()
	sec := file.Section(SectionGeneral)
	values := make(map[string]string, len(Keys))
	changed := false

	for _, key := range Keys {
		if !sec.HasKey(key) {
			s.logger.Debug("Adding missing settings key", zap.String("key", key))
			sec.Key(key).SetValue(defaults[key])
			values[key] = defaults[key]
			changed = true
			continue
		}
		raw := sec.Key(key).String()
		value, verr := normalize(key, raw)
		if verr != nil {
			s.logger.Warn("Replacing invalid settings value with default",
				zap.String("key", key), zap.String("value", raw), zap.String("reason", verr.Reason))
			value = defaults[key]
		}
		if verr != nil {
			sec.Key(key).SetValue(value)
			changed = true
		}
		values[key] = value
	}
	return values, changed
}

// Snapshot returns the current validated settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Get returns the value of section.key. Recognized general keys are returned as int,
// bool or string, falling back to the schema default when the stored text does not
// parse. Other keys are returned as their raw string, or nil when absent.
func (s *Store) Get(section, key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, err := s.file.GetSection(section)
	if section == SectionGeneral && IsKnown(key) {
		defaults := s.Defaults().Values()
		if err != nil || !sec.HasKey(key) {
			return typed(key, defaults[key])
		}
		value, verr := normalize(key, sec.Key(key).String())
		if verr != nil {
			return typed(key, defaults[key])
		}
		return typed(key, value)
	}
	if err != nil || !sec.HasKey(key) {
		return nil
	}
	return sec.Key(key).String()
}

// All returns every section and key of the settings file as text.
func (s *Store) All() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]string)
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		kv := make(map[string]string, len(sec.Keys()))
		for _, k := range sec.Keys() {
			kv[k.Name()] = k.String()
		}
		out[sec.Name()] = kv
	}
	return out
}

// WriteTo writes the committed settings file to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encode(w, s.file)
}

// Save applies updates and commits them when every value validates. It returns false,
// logging the reason, when anything is rejected; the persisted file is then untouched.
func (s *Store) Save(updates Updates) bool {
	if err := s.Update(updates); err != nil {
		s.logger.Error("Failed to save settings", zap.Error(err))
		return false
	}
	return true
}

// Update is Save returning the reason for a rejection. Validation failures match
// ErrValidation.
func (s *Store) Update(updates Updates) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	draft, err := clone(s.file)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to copy settings: %w", err)
	}

	for section, kv := range updates {
		sec := draft.Section(section)
		for key, v := range kv {
			sec.Key(key).SetValue(utils.ToString(v))
		}
	}

	// Updated general keys are stored canonical; untouched ones keep their text.
	sec := draft.Section(SectionGeneral)
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		value, verr := normalize(key, sec.Key(key).String())
		if verr != nil {
			return verr
		}
		if _, ok := updates[SectionGeneral][key]; ok {
			sec.Key(key).SetValue(value)
		}
		values[key] = value
	}

	root := values[KeyRootPath]
	if err := s.fs.MkdirAll(root, dirPerm); err != nil {
		return &ValidationError{Key: KeyRootPath, Value: root, Reason: "cannot create directory", Err: err}
	}
	if ok, err := afero.DirExists(s.fs, root); err != nil || !ok {
		return &ValidationError{Key: KeyRootPath, Value: root, Reason: "is not a directory", Err: err}
	}

	if err := s.write(draft); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	settings := fromValues(values)
	s.mu.Lock()
	s.file = draft
	s.current = settings
	s.mu.Unlock()

	s.logger.Info("Settings saved", zap.String("path", s.path))
	return nil
}

// write replaces the settings file atomically through a temporary file.
func (s *Store) write(file *ini.File) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, ".settings-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := encode(tmp, file); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(name)
		return err
	}
	if err := s.fs.Rename(name, s.path); err != nil {
		_ = s.fs.Remove(name)
		return err
	}
	return nil
}

// parse reads data with configparser semantics: quotes are part of the value, # and ;
// only start comments at the beginning of a line and indented lines continue the
// previous value.
func parse(data []byte) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:        true,
		PreserveSurroundedQuote:    true,
		AllowPythonMultilineValues: true,
	}, data)
}

func clone(file *ini.File) (*ini.File, error) {
	var buf bytes.Buffer
	if _, err := encode(&buf, file); err != nil {
		return nil, err
	}
	return parse(buf.Bytes())
}
