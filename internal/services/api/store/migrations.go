package store

import (
	"amiigo/internal/migrations"
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

type migration struct {
	version string
	name    string
	up      string
	down    string
}

type MigrationStatus struct {
	Version   string
	Name      string
	AppliedAt *time.Time
}

type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// MigrationRunner applies the embedded SQL migrations and records them in
// schema_migrations.
type MigrationRunner struct {
	db    *gorm.DB
	files fs.FS
}

func NewMigrationRunner(db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{db: db, files: migrations.FS}
}

// Up applies every pending migration in version order and returns the names
// of the applied ones.
func (r *MigrationRunner) Up(ctx context.Context) ([]string, error) {
	pending, err := r.pending(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, m := range pending {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := execScript(tx, m.up); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		applied = append(applied, m.name)
	}

	return applied, nil
}

// Down rolls back the latest applied migration. It returns "" when nothing
// is applied.
func (r *MigrationRunner) Down(ctx context.Context) (string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return "", err
	}

	var latest schemaMigration
	result := r.db.WithContext(ctx).Order("version DESC").Limit(1).Find(&latest)
	if result.Error != nil {
		return "", fmt.Errorf("failed to read applied migrations: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", nil
	}

	all, err := r.load()
	if err != nil {
		return "", err
	}

	var target *migration
	for i := range all {
		if all[i].version == latest.Version {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("applied migration %s has no file", latest.Version)
	}
	if target.down == "" {
		return "", fmt.Errorf("migration %s has no down script", target.name)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := execScript(tx, target.down); err != nil {
			return err
		}
		return tx.Where("version = ?", target.version).Delete(&schemaMigration{}).Error
	})
	if err != nil {
		return "", fmt.Errorf("rollback of %s failed: %w", target.name, err)
	}

	return target.name, nil
}

func (r *MigrationRunner) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	all, err := r.load()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(all))
	for _, m := range all {
		status := MigrationStatus{Version: m.version, Name: m.name}
		if at, ok := applied[m.version]; ok {
			status.AppliedAt = &at
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func (r *MigrationRunner) pending(ctx context.Context) ([]migration, error) {
	applied, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	all, err := r.load()
	if err != nil {
		return nil, err
	}

	pending := make([]migration, 0, len(all))
	for _, m := range all {
		if _, ok := applied[m.version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

func (r *MigrationRunner) applied(ctx context.Context) (map[string]time.Time, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	var rows []schemaMigration
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}

	applied := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		applied[row.Version] = row.AppliedAt
	}
	return applied, nil
}

func (r *MigrationRunner) ensureTable(ctx context.Context) error {
	err := r.db.WithContext(ctx).Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// load reads NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs sorted by version.
func (r *MigrationRunner) load() ([]migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}

	byVersion := make(map[string]*migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		var direction string
		switch {
		case strings.HasSuffix(fileName, ".up.sql"):
			direction = "up"
		case strings.HasSuffix(fileName, ".down.sql"):
			direction = "down"
		default:
			continue
		}

		baseName := strings.TrimSuffix(strings.TrimSuffix(fileName, ".up.sql"), ".down.sql")
		parts := strings.SplitN(baseName, "_", 2)
		if len(parts) < 2 {
			continue
		}

		content, err := fs.ReadFile(r.files, fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", fileName, err)
		}

		m, ok := byVersion[parts[0]]
		if !ok {
			m = &migration{version: parts[0], name: baseName}
			byVersion[parts[0]] = m
		}
		if direction == "up" {
			m.up = string(content)
		} else {
			m.down = string(content)
		}
	}

	all := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %s has no up script", m.name)
		}
		all = append(all, *m)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].version < all[j].version
	})

	return all, nil
}

// execScript runs each ';' separated statement of script.
func execScript(tx *gorm.DB, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
