package godataset

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
)

// Reserved version names.
const (
	// InitialVersion holds the table the dataset was created with.
	InitialVersion = "initial"
	// BeforeNaNDeletionVersion holds the table before the last deletion of
	// flagged columns.
	BeforeNaNDeletionVersion = "before_nan_del"
)

// VersionNameLayout formats generated version names. Names sort in
// chronological order.
const VersionNameLayout = "2006-01-02 15:04:05"

// VersionInfo describes a saved version.
type VersionInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	NumRows   int64
	NumCols   int64
}

// versioning is either versioningDisabled or versioningEnabled.
type versioning interface {
	store() (*versionStore, error)
}

type versioningDisabled struct{}

func (versioningDisabled) store() (*versionStore, error) {
	return nil, ErrVersioningDisabled
}

type versioningEnabled struct {
	versions *versionStore
}

func (v versioningEnabled) store() (*versionStore, error) {
	return v.versions, nil
}

type version struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
	table     arrow.Table
}

func (v *version) info() VersionInfo {
	return VersionInfo{
		ID:        v.id.String(),
		Name:      v.name,
		CreatedAt: v.createdAt,
		NumRows:   v.table.NumRows(),
		NumCols:   v.table.NumCols(),
	}
}

// versionStore maps names to retained table snapshots.
type versionStore struct {
	versions map[string]*version
}

func newVersionStore() *versionStore {
	return &versionStore{versions: make(map[string]*version)}
}

// put stores tbl under name, replacing and releasing any previous snapshot.
func (s *versionStore) put(name string, tbl arrow.Table, at time.Time) *version {
	tbl.Retain()
	v := &version{
		id:        uuid.New(),
		name:      name,
		createdAt: at,
		table:     tbl,
	}
	if old, ok := s.versions[name]; ok {
		old.table.Release()
	}
	s.versions[name] = v
	return v
}

func (s *versionStore) get(name string) (*version, bool) {
	v, ok := s.versions[name]
	return v, ok
}

func (s *versionStore) remove(name string) bool {
	v, ok := s.versions[name]
	if !ok {
		return false
	}
	v.table.Release()
	delete(s.versions, name)
	return true
}

func (s *versionStore) names() []string {
	return slices.Sorted(maps.Keys(s.versions))
}

func (s *versionStore) infos() []VersionInfo {
	infos := make([]VersionInfo, 0, len(s.versions))
	for _, v := range s.versions {
		infos = append(infos, v.info())
	}
	slices.SortFunc(infos, func(a, b VersionInfo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return infos
}

func (s *versionStore) release() {
	for _, v := range s.versions {
		v.table.Release()
	}
	clear(s.versions)
}

func validateVersionName(name string) error {
	if name == InitialVersion {
		return &InvalidNameError{Name: name, Reason: "the initial version is reserved"}
	}
	if strings.TrimSpace(name) == "" {
		return &InvalidNameError{Name: name, Reason: "name is blank"}
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return &InvalidNameError{Name: name, Reason: "name contains control characters"}
	}
	return nil
}

// ListVersions returns the names of the saved versions in ascending order.
func (d *Dataset) ListVersions() ([]string, error) {
	store, err := d.versioning.store()
	if err != nil {
		return nil, err
	}
	return store.names(), nil
}

// Versions returns the saved versions ordered by creation time.
func (d *Dataset) Versions() ([]VersionInfo, error) {
	store, err := d.versioning.store()
	if err != nil {
		return nil, err
	}
	return store.infos(), nil
}

// SaveVersion saves the current table under name and returns the name used.
// An empty name is replaced by the current time formatted with
// VersionNameLayout. Saving under an existing name overwrites it, except
// for InitialVersion which always holds the construction table.
func (d *Dataset) SaveVersion(name string) (string, error) {
	store, err := d.versioning.store()
	if err != nil {
		return "", err
	}

	now := d.config.Clock()
	if name == "" {
		name = now.Format(VersionNameLayout)
	} else if err := validateVersionName(name); err != nil {
		return "", err
	}

	v := store.put(name, d.current, now)
	d.logger.Debug("version saved", "name", name, "id", v.id, "rows", v.table.NumRows())
	return name, nil
}

// LoadOption configures LoadVersion.
type LoadOption func(*loadConfig)

type loadConfig struct {
	saveCurrent bool
	saveAs      string
}

// WithSaveCurrent saves the current table under saveAs before switching.
// An empty saveAs generates a name as SaveVersion does.
func WithSaveCurrent(saveAs string) LoadOption {
	return func(c *loadConfig) {
		c.saveCurrent = true
		c.saveAs = saveAs
	}
}

// LoadVersion makes the version saved under name the current table.
func (d *Dataset) LoadVersion(name string, opts ...LoadOption) error {
	store, err := d.versioning.store()
	if err != nil {
		return err
	}

	cfg := loadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := store.get(name); !ok {
		return &VersionNotFoundError{Name: name}
	}

	if cfg.saveCurrent {
		if _, err := d.SaveVersion(cfg.saveAs); err != nil {
			return fmt.Errorf("failed to save current table: %w", err)
		}
	}

	// saving may have replaced the snapshot under name
	v, _ := store.get(name)
	v.table.Retain()
	d.replaceCurrent(v.table)

	d.logger.Debug("version loaded", "name", name, "id", v.id)
	return nil
}

// DeleteVersion removes a saved version. The initial version cannot be
// removed.
func (d *Dataset) DeleteVersion(name string) error {
	store, err := d.versioning.store()
	if err != nil {
		return err
	}

	if name == InitialVersion {
		return &InvalidNameError{Name: name, Reason: "the initial version cannot be deleted"}
	}
	if !store.remove(name) {
		return &VersionNotFoundError{Name: name}
	}

	d.logger.Debug("version deleted", "name", name)
	return nil
}

// Version returns the table saved under name. It stays valid until the
// version is overwritten or deleted; callers keeping it longer must Retain
// it.
func (d *Dataset) Version(name string) (arrow.Table, error) {
	store, err := d.versioning.store()
	if err != nil {
		return nil, err
	}

	v, ok := store.get(name)
	if !ok {
		return nil, &VersionNotFoundError{Name: name}
	}
	return v.table, nil
}
