package gotmpl

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FilesystemStorage stores each template as a JSON file under a root
// directory:
//
//	<root>/
//	  <template-name>.json
//	  ...
//
// Template names are restricted to a safe character set so they map to
// file names without escaping.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemFileExt         = ".json"
)

// Filesystem storage error message constants
const (
	ErrMsgInvalidStorageRoot = "storage root directory cannot be empty"
	ErrMsgCreateStorageDir   = "failed to create storage directory"
	ErrMsgReadStorageDir     = "failed to read storage directory"
	ErrMsgReadTemplateFile   = "failed to read template file"
	ErrMsgWriteTemplateFile  = "failed to write template file"
	ErrMsgDeleteTemplateFile = "failed to delete template file"
	ErrMsgDecodeTemplateFile = "failed to decode template file"
	ErrMsgUnsafeTemplateName = "template name contains unsafe characters"
)

// FilesystemStorageDriver is the driver for creating FilesystemStorage
// instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a new FilesystemStorage instance.
// The connection string is the root directory path.
func (d *FilesystemStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a new filesystem-based template storage.
// The root directory will be created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StorageError{
			Message: ErrMsgCreateStorageDir,
			Name:    root,
			Cause:   err,
		}
	}

	return &FilesystemStorage{
		root: root,
	}, nil
}

// validateFilesystemName rejects names that could escape the root
// directory or collide with path syntax.
func validateFilesystemName(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return &StorageError{Message: ErrMsgUnsafeTemplateName, Name: name}
		}
	}
	if strings.Contains(name, "..") {
		return &StorageError{Message: ErrMsgUnsafeTemplateName, Name: name}
	}
	return nil
}

func (s *FilesystemStorage) templatePath(name string) string {
	return filepath.Join(s.root, name+FilesystemFileExt)
}

// Get retrieves a template by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateFilesystemName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	return s.loadTemplate(name)
}

func (s *FilesystemStorage) loadTemplate(name string) (*StoredTemplate, error) {
	data, err := os.ReadFile(s.templatePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewTemplateNotFoundError(name)
		}
		return nil, &StorageError{Message: ErrMsgReadTemplateFile, Name: name, Cause: err}
	}

	var tmpl StoredTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, &StorageError{Message: ErrMsgDecodeTemplateFile, Name: name, Cause: err}
	}
	return &tmpl, nil
}

// Save stores a template, overwriting any existing one with the same name.
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateFilesystemName(tmpl.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	createdAt := now
	if existing, err := s.loadTemplate(tmpl.Name); err == nil {
		createdAt = existing.CreatedAt
	}

	stored := &StoredTemplate{
		Name:      tmpl.Name,
		Source:    tmpl.Source,
		Metadata:  copyStringMap(tmpl.Metadata),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return &StorageError{Message: ErrMsgWriteTemplateFile, Name: tmpl.Name, Cause: err}
	}

	if err := os.WriteFile(s.templatePath(tmpl.Name), data, FilesystemFilePermissions); err != nil {
		return &StorageError{Message: ErrMsgWriteTemplateFile, Name: tmpl.Name, Cause: err}
	}
	return nil
}

// Delete removes a template by name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateFilesystemName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	if err := os.Remove(s.templatePath(name)); err != nil {
		if os.IsNotExist(err) {
			return NewTemplateNotFoundError(name)
		}
		return &StorageError{Message: ErrMsgDeleteTemplateFile, Name: name, Cause: err}
	}
	return nil
}

// List returns all stored template names in sorted order.
func (s *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Message: ErrMsgReadStorageDir, Name: s.root, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FilesystemFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), FilesystemFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Exists checks if a template with the given name exists.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateFilesystemName(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}

	_, err := os.Stat(s.templatePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &StorageError{Message: ErrMsgReadTemplateFile, Name: name, Cause: err}
	}
	return true, nil
}

// Close marks the storage as closed. Further operations fail.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
