package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config carries engine-wide tunables. Every field has a sane default so a
// zero-configuration embed still produces schedules.
type Config struct {
	Env string

	Log    LogConfig
	Solver SolverConfig
	Repair RepairConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig tunes the constraint search.
type SolverConfig struct {
	TimeBudget         time.Duration
	GapWeight          float64
	LectureSessions    int
	LabSessions        int
	GapRepairPasses    int
	DeadlineCheckNodes int
}

// RepairConfig tunes the conflict resolution pipeline.
type RepairConfig struct {
	ResolveBudget time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}
	cfg.Solver = SolverConfig{
		TimeBudget:         parseDuration(v.GetString("SOLVER_TIME_BUDGET"), 30*time.Second),
		GapWeight:          v.GetFloat64("SOLVER_GAP_WEIGHT"),
		LectureSessions:    v.GetInt("SOLVER_LECTURE_SESSIONS"),
		LabSessions:        v.GetInt("SOLVER_LAB_SESSIONS"),
		GapRepairPasses:    v.GetInt("SOLVER_GAP_REPAIR_PASSES"),
		DeadlineCheckNodes: v.GetInt("SOLVER_DEADLINE_CHECK_NODES"),
	}
	cfg.Repair = RepairConfig{
		ResolveBudget: parseDuration(v.GetString("REPAIR_RESOLVE_BUDGET"), 15*time.Second),
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching the
// environment. Useful for library embeds and tests.
func Default() *Config {
	return &Config{
		Env: EnvDevelopment,
		Log: LogConfig{Level: "info", Format: "json"},
		Solver: SolverConfig{
			TimeBudget:         30 * time.Second,
			GapWeight:          10,
			LectureSessions:    2,
			LabSessions:        1,
			GapRepairPasses:    12,
			DeadlineCheckNodes: 1024,
		},
		Repair: RepairConfig{ResolveBudget: 15 * time.Second},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SOLVER_TIME_BUDGET", "30s")
	v.SetDefault("SOLVER_GAP_WEIGHT", 10.0)
	v.SetDefault("SOLVER_LECTURE_SESSIONS", 2)
	v.SetDefault("SOLVER_LAB_SESSIONS", 1)
	v.SetDefault("SOLVER_GAP_REPAIR_PASSES", 12)
	v.SetDefault("SOLVER_DEADLINE_CHECK_NODES", 1024)
	v.SetDefault("REPAIR_RESOLVE_BUDGET", "15s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
