package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/polyglottis/sitemapgen"
	"github.com/polyglottis/sitemapgen/internal/logger"
	"github.com/polyglottis/sitemapgen/internal/publish"
	"github.com/polyglottis/sitemapgen/internal/source"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Sitemap holds the output file and the default URL fields.
	Sitemap sitemap.Config `mapstructure:"sitemap"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Publish holds configuration for the object storage sitemaps are uploaded to.
	Publish publish.Config `mapstructure:"publish"`
	// Database holds configuration for the table URLs can be read from.
	Database source.DatabaseConfig `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
// Values in .env override the process environment; command line flags are
// applied later by the CLI and override both.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is fine, deployments usually set the environment directly.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Register every key with its `default` tag, otherwise AutomaticEnv never
	// looks the variable up on Unmarshal.
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SITEMAP_OUTPUT -> sitemap.output)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct recursively and sets a Viper default for each
// leaf field, keyed by its dotted 'mapstructure' path (e.g. database.loc_column)
// and valued by its 'default' tag.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// Pointers to sections are walked like the sections themselves.
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		// Untagged fields are not configurable.
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Sections such as sitemap or database nest another level.
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
