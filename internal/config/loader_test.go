package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/extrack/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EXTRACK_ADDR", ":8080")
			_ = os.Setenv("EXTRACK_STORE_DRIVER", "sqlite")
			_ = os.Setenv("EXTRACK_SQLITE_PATH", "/tmp/ex.db")
			_ = os.Setenv("EXTRACK_STORE_TIMEOUT_MS", "250")
			_ = os.Setenv("EXTRACK_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/ex.db")
				convey.So(cfg.StoreTimeoutMS, convey.ShouldEqual, 250)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When only the hosting variables are set", func() {
			_ = os.Setenv("PORT", "4321")
			_ = os.Setenv("MONGO_URI", "mongodb://db:27017")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they select the listen port and the mongo driver", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4321")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMongo)
				convey.So(cfg.MongoURI, convey.ShouldEqual, "mongodb://db:27017")
			})
		})

		convey.Convey("When hosting and prefixed variables disagree", func() {
			_ = os.Setenv("PORT", "4321")
			_ = os.Setenv("EXTRACK_ADDR", ":9999")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the prefixed variable wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
store_driver: sqlite
sqlite_path: "data/extrack.db"
log_level: debug
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EXTRACK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "data/extrack.db")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})

			convey.Convey("And fields missing from the file keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "extrack")
				convey.So(cfg.StoreTimeoutMS, convey.ShouldEqual, 5_000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
log_level: debug
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EXTRACK_CONFIG", tmpFile)
			_ = os.Setenv("EXTRACK_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("EXTRACK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("EXTRACK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("EXTRACK_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("EXTRACK_STORE_TIMEOUT_MS", "soon")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EXTRACK_CONFIG",
		"EXTRACK_ENV_FILE",
		"EXTRACK_MONGO_DATABASE",
		"EXTRACK_ADDR",
		"EXTRACK_STORE_DRIVER",
		"EXTRACK_SQLITE_PATH",
		"EXTRACK_STORE_TIMEOUT_MS",
		"EXTRACK_LOG_FORMAT",
		"PORT",
		"MONGO_URI",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "extrack-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

func TestConfigLoaderDotEnv(t *testing.T) {
	convey.Convey("Given a dotenv file", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		path := filepath.Join(t.TempDir(), "test.env")
		content := "EXTRACK_ADDR=:4100\nEXTRACK_MONGO_DATABASE=fromfile\n"
		convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
		_ = os.Setenv("EXTRACK_ENV_FILE", path)

		convey.Convey("When loading config", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4100")
				convey.So(cfg.MongoDatabase, convey.ShouldEqual, "fromfile")
			})
		})

		convey.Convey("When the same variable is already set", func() {
			_ = os.Setenv("EXTRACK_ADDR", ":5000")
			cfg, err := config.Load(ctx)

			convey.Convey("Then the process environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			})
		})
	})

	convey.Convey("Given EXTRACK_ENV_FILE naming a missing file", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()
		_ = os.Setenv("EXTRACK_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

		convey.Convey("Then loading fails with ErrLoadConfig", func() {
			_, err := config.Load(context.Background())
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}
