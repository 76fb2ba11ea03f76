package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tweetClone/domain"
)

// Supported values for DB.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB provides the database connection.
type DB struct {
	// Object-relational mapping.
	Gorm *gorm.DB
	// Driver is either DriverPostgres or DriverSQLite.
	Driver string
	// Connection info string containing database name, user, port etc.,
	// or the file path of an sqlite database.
	ConnectionInfo string
}

// NewDB returns a new instance of DB.
func NewDB(driver, connectionInfo string) *DB {
	db := &DB{
		Driver:         driver,
		ConnectionInfo: connectionInfo,
	}
	return db
}

// Open opens a new database connection. It also configures logging
// based on whether we're in development or in production.
// Driver errors are translated into gorm errors, so that unique index
// violations surface as gorm.ErrDuplicatedKey.
func Open(db *DB, isProd bool) (err error) {
	if db.ConnectionInfo == "" {
		return fmt.Errorf("connectionInfo required")
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if !isProd {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	var dialector gorm.Dialector
	switch db.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(db.ConnectionInfo)
	case DriverSQLite:
		dialector = sqlite.Open(db.ConnectionInfo)
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	db.Gorm, err = gorm.Open(dialector, cfg)
	if err != nil {
		return fmt.Errorf("err opening gorm %s connection: %w", db.Driver, err)
	}
	return nil
}

// SQLiteDSN builds an sqlite connection string for the database file at path,
// with foreign key enforcement switched on for every pooled connection.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// models lists all tables in the order they are dropped.
func models() []interface{} {
	return []interface{}{
		&domain.Like{},
		&domain.Media{},
		&domain.Follow{},
		&domain.Tweet{},
		&domain.User{},
	}
}

// AutoMigrate runs database migrations for all tables.
func AutoMigrate(db *DB) error {
	return db.Gorm.AutoMigrate(models()...)
}

// DestructiveReset drops all tables and rebuilds them.
func DestructiveReset(db *DB) error {
	err := db.Gorm.Migrator().DropTable(models()...)
	if err != nil {
		return err
	}
	return AutoMigrate(db)
}

// Close closes the database connection.
func Close(db *DB) error {
	sqlDb, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
