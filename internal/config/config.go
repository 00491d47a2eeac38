// config предоставляет структуру конфигурации crawler-сервиса
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Режимы запуска пайплайна.
const (
	// ModeSingle — один проход в порядке crawler.sort.
	ModeSingle = "single"
	// ModeComprehensive — популярность, затем (при необходимости) хронология.
	ModeComprehensive = "comprehensive"
	// ModeTimeBoxed — чередование порядков до исчерпания бюджета времени.
	ModeTimeBoxed = "time-boxed"
	// ModeOverlap — чередование порядков до достижения порогов пересечения.
	ModeOverlap = "overlap"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env"       env:"ENV" env-default:"local"`
	DB        DBConfig        `yaml:"db"`
	Client    ClientConfig    `yaml:"client"`
	Crawler   CrawlerConfig   `yaml:"crawler"`
	Iteration IterationConfig `yaml:"iteration"`
}

// DBConfig — настройки подключения к базе данных (архив запусков).
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// ClientConfig — учётные данные и сетевые параметры HTTP-клиента API.
// Передаются явным значением через все слои, глобального состояния нет.
type ClientConfig struct {
	// Cookie — строка Cookie браузерной сессии; без неё платформа
	// быстрее отвечает 412.
	Cookie string `yaml:"cookie" env:"BILI_COOKIE"`
	// UserAgent — User-Agent браузера.
	UserAgent string `yaml:"user_agent" env:"BILI_USER_AGENT" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"`
	// Timeout — таймаут одного HTTP-вызова.
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
}

// CrawlerConfig — параметры обхода страниц.
type CrawlerConfig struct {
	// Mode — режим запуска: single | comprehensive | time-boxed | overlap.
	Mode string `yaml:"mode" env:"CRAWL_MODE" env-default:"comprehensive"`
	// Sort — порядок для режима single: popularity | chronological.
	Sort string `yaml:"sort" env:"CRAWL_SORT" env-default:"popularity"`
	// PageSize — размер страницы; платформа фактически фиксирует 20.
	PageSize int `yaml:"page_size" env:"PAGE_SIZE" env-default:"20"`
	// Delay — обязательная пауза после каждого запроса страницы.
	Delay time.Duration `yaml:"delay" env:"REQUEST_DELAY" env-default:"2s"`
	// MaxPages — лимит страниц прохода; 0 — без лимита (боевой режим).
	MaxPages int `yaml:"max_pages" env:"MAX_PAGES" env-default:"0"`
}

// IterationConfig — параметры итеративной оркестрации.
type IterationConfig struct {
	// RoundPause — пауза между раундами чередования.
	RoundPause time.Duration `yaml:"round_pause" env:"ROUND_PAUSE" env-default:"2s"`
	// TimeBudget — бюджет времени для режима time-boxed.
	TimeBudget time.Duration `yaml:"time_budget" env:"TIME_BUDGET" env-default:"1h"`
	// PopularityThreshold/ChronoThreshold — пороги доли пересечения
	// в (0, 1] для режима overlap, независимые по порядкам обхода.
	PopularityThreshold float64 `yaml:"popularity_threshold" env:"POPULARITY_THRESHOLD" env-default:"0.95"`
	ChronoThreshold     float64 `yaml:"chrono_threshold" env:"CHRONO_THRESHOLD" env-default:"0.95"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}
	switch c.Crawler.Mode {
	case ModeSingle, ModeComprehensive, ModeTimeBoxed, ModeOverlap:
	default:
		return fmt.Errorf("crawler.mode must be one of single/comprehensive/time-boxed/overlap")
	}
	if c.Crawler.Sort != "popularity" && c.Crawler.Sort != "chronological" {
		return fmt.Errorf("crawler.sort must be popularity or chronological")
	}
	if c.Crawler.PageSize < 1 || c.Crawler.PageSize > 49 {
		return fmt.Errorf("crawler.page_size must be in [1, 49]")
	}
	if c.Crawler.Delay <= 0 {
		return fmt.Errorf("crawler.delay must be positive")
	}
	if c.Crawler.MaxPages < 0 {
		return fmt.Errorf("crawler.max_pages must be >= 0")
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	if c.Crawler.Mode == ModeTimeBoxed && c.Iteration.TimeBudget <= 0 {
		return fmt.Errorf("iteration.time_budget must be positive for time-boxed mode")
	}
	if t := c.Iteration.PopularityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("iteration.popularity_threshold must be in (0, 1]")
	}
	if t := c.Iteration.ChronoThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("iteration.chrono_threshold must be in (0, 1]")
	}
	return nil
}
