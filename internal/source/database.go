package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig holds configuration for reading URLs from a database table.
type DatabaseConfig struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"site"`
	// TimeoutSeconds bounds connection setup and each read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Table is the table holding one row per URL.
	Table string `mapstructure:"table" default:"pages"`
	// Where is an optional SQL condition selecting the rows to list.
	Where string `mapstructure:"where" default:""`
	// OrderBy is an optional SQL ordering; rows come in database order otherwise.
	OrderBy string `mapstructure:"order_by" default:""`
	// LocColumn is the column holding the URL location.
	LocColumn string `mapstructure:"loc_column" default:"loc"`
	// LastModColumn is the column holding the last modification, empty for none.
	LastModColumn string `mapstructure:"lastmod_column" default:"lastmod"`
	// ChangeFreqColumn is the column holding the change frequency, empty for none.
	ChangeFreqColumn string `mapstructure:"changefreq_column" default:""`
	// PriorityColumn is the column holding the priority, empty for none.
	PriorityColumn string `mapstructure:"priority_column" default:""`
}

// Connect establishes a connection to the MySQL database.
func Connect(cfg DatabaseConfig) (*gorm.DB, error) {
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// row is the scan target of ReadDatabase; columns are aliased to its fields.
type row struct {
	Loc        string
	Lastmod    sql.NullString
	Changefreq sql.NullString
	Priority   sql.NullString
}

// ReadDatabase reads the records of cfg.Table. NULL values are left unset.
func ReadDatabase(ctx context.Context, db *gorm.DB, cfg DatabaseConfig) ([]Record, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}
	if cfg.Table == "" || cfg.LocColumn == "" {
		return nil, errors.New("database source needs a table and a loc column")
	}

	query := db.WithContext(ctx).Table(cfg.Table).Select(selectColumns(cfg))
	if cfg.Where != "" {
		query = query.Where(cfg.Where)
	}
	if cfg.OrderBy != "" {
		query = query.Order(cfg.OrderBy)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.Table, err)
	}

	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{
			Loc:             r.Loc,
			LastModified:    r.Lastmod.String,
			ChangeFrequency: r.Changefreq.String,
			Priority:        r.Priority.String,
		}
	}
	return records, nil
}

func selectColumns(cfg DatabaseConfig) string {
	column := func(name, alias string) string {
		if name == "" {
			return "NULL AS " + alias
		}
		return name + " AS " + alias
	}
	return column(cfg.LocColumn, "loc") + ", " +
		column(cfg.LastModColumn, "lastmod") + ", " +
		column(cfg.ChangeFreqColumn, "changefreq") + ", " +
		column(cfg.PriorityColumn, "priority")
}
