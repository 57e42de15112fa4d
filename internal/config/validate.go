package config

import (
	"errors"
	"fmt"
)

const minJWTSecretLen = 32

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, c.Store.Driver)
	}

	if c.Server.ImportRatePerMinute < 0 {
		return fmt.Errorf("server.import_rate_per_minute must be >= 0 (got %d)", c.Server.ImportRatePerMinute)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters (got %d)", minJWTSecretLen, len(c.Auth.JWTSecret))
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if c.Export.MaxRecords <= 0 {
		return fmt.Errorf("export.max_records must be > 0 (got %d)", c.Export.MaxRecords)
	}

	return nil
}

// RequireAuth reports whether token signing is configured. The HTTP surface
// and the token command need it; the offline commands do not.
func (c *Config) RequireAuth() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	return nil
}

func (i *ImportConfig) validate() error {
	if i.SyncThreshold < 0 {
		return fmt.Errorf("sync_threshold must be >= 0 (got %d)", i.SyncThreshold)
	}
	if i.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0 (got %d)", i.ChunkSize)
	}
	if i.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", i.Workers)
	}
	switch i.LookupMode {
	case "exact", "contains":
	default:
		return fmt.Errorf("lookup_mode must be exact or contains (got %q)", i.LookupMode)
	}
	if i.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0 (got %d)", i.MaxUploadBytes)
	}
	return nil
}
