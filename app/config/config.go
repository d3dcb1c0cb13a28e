package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"example/engine-eval/app/models"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Logs   LogConfig
	Engine EngineConfig
}

type LogConfig struct {
	Style string
	Level string
}

type EngineConfig struct {
	Path          string
	DefaultTimeMS int
	// Escalating per-move analysis budgets (ms). The evaluation core never
	// reads this; it is for calling layers that re-analyse with more time.
	StagesMS []int
	Options  models.EngineOptions
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Logs: LogConfig{
			Style: os.Getenv("LOG_STYLE"),
			Level: os.Getenv("LOG_LEVEL"),
		},
		Engine: EngineConfig{
			Path:          os.Getenv("ENGINE_PATH"),
			DefaultTimeMS: envInt("ENGINE_DEFAULT_TIME_MS", 100),
			StagesMS:      envIntList("ANALYSIS_STAGES_MS", []int{300, 1500, 5000}),
			Options: models.EngineOptions{
				SkillLevel:       envInt("ENGINE_SKILL_LEVEL", 20),
				Threads:          envInt("ENGINE_THREADS", 6),
				HashMB:           envInt("ENGINE_HASH_MB", 512),
				MoveOverheadMS:   envInt("ENGINE_MOVE_OVERHEAD_MS", 30),
				SyzygyPath:       os.Getenv("SYZYGY_PATH"),
				SyzygyProbeDepth: envInt("SYZYGY_PROBE_DEPTH", 1),
				Syzygy50MoveRule: envBool("SYZYGY_50_MOVE_RULE", true),
			},
		},
	}

	return cfg, nil
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Error converting string to int: %s: %v", key, err)
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return b
}

func envIntList(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			log.Fatalf("Error parsing %s: %v", key, err)
		}
		out = append(out, n)
	}
	return out
}
