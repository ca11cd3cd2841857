package gorm

import (
	"strings"

	"github.com/golang-migrate/migrate"
	_ "github.com/golang-migrate/migrate/database/mysql"
	_ "github.com/golang-migrate/migrate/source/file"
	"github.com/imagespy/freshness/store"
	gormlib "github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type gorm struct {
	db *gormlib.DB
}

func (g *gorm) Checks() store.CheckStore {
	return &gormCheck{db: g.db}
}

func (g *gorm) Close() error {
	return g.db.Close()
}

type gormCheck struct {
	db *gormlib.DB
}

func (gc *gormCheck) Create(c *store.Check) error {
	if c.ID != 0 {
		return errors.New("Check already created")
	}

	result := gc.db.Create(c)
	if result.Error != nil {
		return errors.Wrap(result.Error, "creating check")
	}

	return nil
}

func (gc *gormCheck) Get(o store.CheckGetOptions) (*store.Check, error) {
	c := &store.Check{}
	var result *gormlib.DB
	if o.ID != 0 {
		result = gc.db.Where("id = ?", o.ID).First(c)
	} else {
		result = checkWhere(gc.db, o.ContainerName, o.ImageRef, "", nil).Order("checked_at desc, id desc").First(c)
	}

	if result.Error != nil {
		if gormlib.IsRecordNotFoundError(result.Error) {
			return nil, store.ErrDoesNotExist
		}

		return nil, errors.Wrap(result.Error, "reading check")
	}

	return c, nil
}

func (gc *gormCheck) List(o store.CheckListOptions) ([]*store.Check, error) {
	query := checkWhere(gc.db, o.ContainerName, o.ImageRef, o.Repository, o.UpdateAvailable).Order("checked_at desc, id desc")
	if o.Limit > 0 {
		query = query.Limit(o.Limit)
	}

	checks := []*store.Check{}
	result := query.Find(&checks)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing checks")
	}

	return checks, nil
}

func checkWhere(db *gormlib.DB, containerName string, imageRef string, repository string, updateAvailable *bool) *gormlib.DB {
	whereQuery := []string{}
	whereValues := []interface{}{}
	if containerName != "" {
		whereQuery = append(whereQuery, "freshness_check.container_name = ?")
		whereValues = append(whereValues, containerName)
	}

	if imageRef != "" {
		whereQuery = append(whereQuery, "freshness_check.image_ref = ?")
		whereValues = append(whereValues, imageRef)
	}

	if repository != "" {
		whereQuery = append(whereQuery, "freshness_check.repository = ?")
		whereValues = append(whereValues, repository)
	}

	if updateAvailable != nil {
		whereQuery = append(whereQuery, "freshness_check.update_available = ?")
		whereValues = append(whereValues, *updateAvailable)
	}

	if len(whereQuery) == 0 {
		return db
	}

	return db.Where(strings.Join(whereQuery, " AND "), whereValues...)
}

// Migrate creates or updates the schema from the model definitions.
func (g *gorm) Migrate() error {
	result := g.db.AutoMigrate(&store.Check{})
	return errors.Wrap(result.Error, "migrating schema")
}

// MigrateSQL applies the SQL migrations found at path, e.g.
// "file://store/gorm/migrations", to the MySQL database at databaseURL.
func MigrateSQL(path string, databaseURL string) error {
	m, err := migrate.New(path, databaseURL)
	if err != nil {
		return errors.Wrap(err, "initializing migrations")
	}

	defer m.Close()
	err = m.Up()
	if err == migrate.ErrNoChange {
		log.Debug("database schema is up to date")
		return nil
	}

	return errors.Wrap(err, "applying migrations")
}

// New opens a store. dialect is "mysql" or "sqlite3".
func New(dialect string, connection string) (*gorm, error) {
	db, err := gormlib.Open(dialect, connection)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", dialect)
	}

	if dialect == "sqlite3" {
		// Every connection to an in-memory sqlite database sees its own database.
		db.DB().SetMaxOpenConns(1)
	}

	return &gorm{db: db}, nil
}
