package infra

import (
	"fmt"

	"almacenpos/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// schemaVersion is bumped when a new migration step is appended to the list
// below. Applied versions are recorded in schema_migrations, so each step runs
// exactly once per database.
const schemaVersion = 2

type migration struct {
	version int
	descr   string
	apply   func(db *gorm.DB) error
}

var migrations = []migration{
	{
		version: 1,
		descr:   "base schema",
		apply: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&model.Producto{},
				&model.Lote{},
				&model.Venta{},
				&model.VentaItem{},
				&model.MovimientoCaja{},
				&model.MovimientoStock{},
				&model.HistorialPrecio{},
				&model.Proveedor{},
				&model.Cliente{},
				&model.Usuario{},
			)
		},
	},
	{
		version: 2,
		descr:   "fifo consumption order index",
		apply: func(db *gorm.DB) error {
			// Covers the lots_for_product ordered read: available lots of a
			// product, oldest intake first, secuencia as tie-break.
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_lotes_fifo
				ON lotes (producto_id, fecha_ingreso, secuencia)
				WHERE cantidad_disponible > 0`).Error
		},
	},
}

// NewDatabase establishes a GORM connection backed by pgx and applies pending
// versioned migrations. Schema evolution is explicit: every step is tagged
// with a version and recorded in a metadata table — no probe-and-ignore ALTERs.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Unique violations surface as gorm.ErrDuplicatedKey so services can
		// translate them into domain errors instead of leaking SQLSTATEs.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations applies every migration whose version is not yet recorded.
// Each step runs inside its own transaction together with the version row, so
// a failed step leaves no partial marker.
func RunMigrations(db *gorm.DB) error {
	if len(migrations) == 0 || migrations[len(migrations)-1].version != schemaVersion {
		return fmt.Errorf("schemaVersion %d no coincide con la última migración", schemaVersion)
	}

	if err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT PRIMARY KEY,
		descr      TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`).Error; err != nil {
		return err
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Table("schema_migrations").Where("version = ?", m.version).Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}
		mig := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.apply(tx); err != nil {
				return err
			}
			return tx.Exec(`INSERT INTO schema_migrations (version, descr) VALUES (?, ?)`,
				mig.version, mig.descr).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.descr, err)
		}
		log.Info().Int("version", m.version).Str("descr", m.descr).Msg("migration applied")
	}
	return nil
}
