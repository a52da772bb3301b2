package config

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

type Config struct {
	ListenAddr           string        `hcl:"listen_addr" env:"LISTEN_ADDR" default:"127.0.0.1:8088"`
	DatabaseDSN          string        `hcl:"database_dsn" env:"DATABASE_DSN"`
	DataDir              string        `hcl:"data_dir" env:"DATA_DIR" default:"./data"`
	FeedsEnabled         bool          `hcl:"feeds_enabled" env:"FEEDS_ENABLED" default:"false"`
	FetchInterval        time.Duration `hcl:"fetch_interval" env:"FETCH_INTERVAL" default:"10m"`
	NotificationInterval time.Duration `hcl:"notification_interval" env:"NOTIFICATION_INTERVAL" default:"1m"`
	FilterKeywords       []string      `hcl:"filter_keywords" env:"FILTER_KEYWORDS"`
	SampleDelay          time.Duration `hcl:"sample_delay" env:"SAMPLE_DELAY" default:"800ms"`
	AIType               string        `hcl:"ai_type" env:"AI_TYPE" default:"openai"`
	AIBaseURL            string        `hcl:"ai_base_url" env:"AI_BASE_URL"`
	AIKey                string        `hcl:"ai_key" env:"AI_KEY"`
	AIModel              string        `hcl:"ai_model" env:"AI_MODEL" default:"gpt-4o-mini"`
	AITimeout            time.Duration `hcl:"ai_timeout" env:"AI_TIMEOUT" default:"60s"`
	TelegramBotToken     string        `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID    int64         `hcl:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`
	TelegramAdminChatID  int64         `hcl:"telegram_admin_chat_id" env:"TELEGRAM_ADMIN_CHAT_ID"`
}

var (
	cfg  Config
	once sync.Once
)

func Get() Config {
	once.Do(func() {
		loaded, err := Load([]string{"./config.hcl", "./config.local.hcl", "$HOME/.config/saa-hub/config.hcl"})
		if err != nil {
			slog.Error("failed to load config", "err", err)
		}
		cfg = loaded
	})

	return cfg
}

// Load reads files in order, later files and SAA_* environment variables
// overriding earlier values. Missing files are skipped.
func Load(files []string) (Config, error) {
	var c Config
	loader := aconfig.LoaderFor(&c, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "SAA",
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	err := loader.Load()
	return c, err
}

// Database reports whether a Postgres DSN was configured.
func (c Config) Database() bool {
	return c.DatabaseDSN != ""
}

// Telegram reports whether the bot surface can be started.
func (c Config) Telegram() bool {
	return c.TelegramBotToken != ""
}
