package gormrepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrMigrationDrift is returned when an applied migration file was edited
// afterwards.
var ErrMigrationDrift = errors.New("applied migration changed")

type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Checksum  string    `gorm:"column:checksum;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	version  string
	checksum string
	sql      string
}

// ApplyMigrations runs every *.sql file of fsys in name order, once, and
// refuses to continue when a file that already ran has changed.
func ApplyMigrations(ctx context.Context, db *gorm.DB, fsys fs.FS) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	var rows []schemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	applied := make(map[string]string, len(rows))
	for _, r := range rows {
		applied[r.Version] = r.Checksum
	}

	pending, err := pendingMigrations(fsys, applied)
	if err != nil {
		return err
	}
	for _, m := range pending {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.sql).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", m.version, err)
			}
			row := schemaMigration{Version: m.version, Checksum: m.checksum, AppliedAt: time.Now().UTC()}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("record migration %s: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func pendingMigrations(fsys fs.FS, applied map[string]string) ([]migration, error) {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	var out []migration
	for _, name := range files {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		sum := sha256.Sum256(content)
		m := migration{
			version:  strings.TrimSuffix(name, ".sql"),
			checksum: hex.EncodeToString(sum[:]),
			sql:      string(content),
		}
		prev, ok := applied[m.version]
		switch {
		case !ok:
			out = append(out, m)
		case prev != "" && prev != m.checksum:
			return nil, fmt.Errorf("%w: %s", ErrMigrationDrift, m.version)
		}
	}
	return out, nil
}
