package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Gateway modes.
const (
	// ModeHTTP sends every call to the gateway service.
	ModeHTTP = "http"
	// ModeDirect calls the model directly for generation and the gateway for the rest.
	ModeDirect = "direct"
)

type GatewayConfig struct {
	BaseURL   string `json:"base_url"`
	Mode      string `json:"mode"`
	TimeoutMS int    `json:"timeout_ms"`
}

type ProviderConfig struct {
	BaseURL           string `json:"base_url"`
	APIKey            string `json:"api_key"`
	Model             string `json:"model"`
	TimeoutMS         int    `json:"timeout_ms"`
	ContentTokenLimit int    `json:"content_token_limit"`
}

type ServerConfig struct {
	Addr      string `json:"addr"`
	UploadDir string `json:"upload_dir"`
}

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
}

type UIConfig struct {
	Locale string `json:"locale"`
	TUI    bool   `json:"tui"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Config struct {
	Gateway  GatewayConfig  `json:"gateway"`
	Provider ProviderConfig `json:"provider"`
	Server   ServerConfig   `json:"server"`
	Storage  StorageConfig  `json:"storage"`
	UI       UIConfig       `json:"ui"`
	Log      LogConfig      `json:"log"`
}

type fileUIConfig struct {
	Locale *string `json:"locale"`
	TUI    *bool   `json:"tui"`
}

type fileConfig struct {
	Gateway  *GatewayConfig  `json:"gateway"`
	Provider *ProviderConfig `json:"provider"`
	Server   *ServerConfig   `json:"server"`
	Storage  *StorageConfig  `json:"storage"`
	UI       *fileUIConfig   `json:"ui"`
	Log      *LogConfig      `json:"log"`
}

func Default() Config {
	return Config{
		Gateway: GatewayConfig{
			BaseURL:   DefaultGatewayURL,
			Mode:      ModeHTTP,
			TimeoutMS: DefaultGatewayTimeoutMS,
		},
		Provider: ProviderConfig{
			BaseURL:           "https://api.openai.com/v1",
			Model:             "gpt-3.5-turbo",
			TimeoutMS:         120000,
			ContentTokenLimit: DefaultContentTokenLimit,
		},
		Server: ServerConfig{
			Addr:      DefaultServerAddr,
			UploadDir: "uploads",
		},
		Storage: StorageConfig{BaseDir: "~/.slidechat"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load 按层合并配置：默认值 → 全局文件 → 项目文件 → .env → 环境变量
// Load layers the configuration: defaults, global file, project file,
// .env, then environment variables. path, when set, replaces project
// file discovery.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("SLIDECHAT_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

// loadDotEnv 读取工作目录下的 .env，已存在的环境变量不会被覆盖
// loadDotEnv reads ./.env without overriding variables already set.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func globalConfigPaths() []string {
	if home := strings.TrimSpace(os.Getenv("SLIDECHAT_HOME")); home != "" {
		return []string{filepath.Join(home, "config.json")}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".slidechat", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"slidechat.config.json",
		".slidechat/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Gateway != nil {
		cfg.Gateway = mergeGateway(cfg.Gateway, *fc.Gateway)
	}
	if fc.Provider != nil {
		cfg.Provider = mergeProvider(cfg.Provider, *fc.Provider)
	}
	if fc.Server != nil {
		if strings.TrimSpace(fc.Server.Addr) != "" {
			cfg.Server.Addr = fc.Server.Addr
		}
		if strings.TrimSpace(fc.Server.UploadDir) != "" {
			cfg.Server.UploadDir = fc.Server.UploadDir
		}
	}
	if fc.Storage != nil && strings.TrimSpace(fc.Storage.BaseDir) != "" {
		cfg.Storage.BaseDir = fc.Storage.BaseDir
	}
	if fc.UI != nil {
		if fc.UI.Locale != nil {
			cfg.UI.Locale = *fc.UI.Locale
		}
		if fc.UI.TUI != nil {
			cfg.UI.TUI = *fc.UI.TUI
		}
	}
	if fc.Log != nil {
		if strings.TrimSpace(fc.Log.Level) != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if strings.TrimSpace(fc.Log.File) != "" {
			cfg.Log.File = fc.Log.File
		}
	}
}

func mergeGateway(base GatewayConfig, override GatewayConfig) GatewayConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.Mode) != "" {
		base.Mode = override.Mode
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	return base
}

func mergeProvider(base ProviderConfig, override ProviderConfig) ProviderConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.Model) != "" {
		base.Model = override.Model
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.ContentTokenLimit > 0 {
		base.ContentTokenLimit = override.ContentTokenLimit
	}
	return base
}

func normalize(cfg *Config) error {
	def := Default()

	cfg.Gateway.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Gateway.BaseURL), "/")
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = def.Gateway.BaseURL
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.Gateway.Mode))
	switch mode {
	case "":
		mode = ModeHTTP
	case ModeHTTP, ModeDirect:
	default:
		return fmt.Errorf("invalid gateway.mode %q (want %q or %q)", cfg.Gateway.Mode, ModeHTTP, ModeDirect)
	}
	cfg.Gateway.Mode = mode
	if cfg.Gateway.TimeoutMS <= 0 {
		cfg.Gateway.TimeoutMS = def.Gateway.TimeoutMS
	}

	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = def.Provider.Model
	}
	if cfg.Provider.TimeoutMS <= 0 {
		cfg.Provider.TimeoutMS = def.Provider.TimeoutMS
	}
	if cfg.Provider.ContentTokenLimit <= 0 {
		cfg.Provider.ContentTokenLimit = def.Provider.ContentTokenLimit
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if strings.TrimSpace(cfg.Server.UploadDir) == "" {
		cfg.Server.UploadDir = def.Server.UploadDir
	}
	uploadDir, err := expandPath(cfg.Server.UploadDir)
	if err != nil {
		return err
	}
	cfg.Server.UploadDir = uploadDir

	if strings.TrimSpace(cfg.Storage.BaseDir) == "" {
		cfg.Storage.BaseDir = def.Storage.BaseDir
	}
	storageDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	cfg.Storage.BaseDir = storageDir

	cfg.UI.Locale = strings.TrimSpace(cfg.UI.Locale)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.File != "" {
		logFile, err := expandPath(cfg.Log.File)
		if err != nil {
			return err
		}
		cfg.Log.File = logFile
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("SLIDECHAT_GATEWAY_URL")); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHAT_GATEWAY_MODE")); v != "" {
		cfg.Gateway.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHAT_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid SLIDECHAT_TIMEOUT_MS: %q", v)
		}
		cfg.Gateway.TimeoutMS = n
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHAT_LANG")); v != "" {
		cfg.UI.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("SLIDECHAT_HOME")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.Provider.Model = v
	}

	return cfg, normalize(&cfg)
}

// DBPath returns the SQLite database path under the storage dir.
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.BaseDir, "slidechat.db")
}

// HistoryPath returns the REPL history file under the storage dir.
func (c Config) HistoryPath() string {
	return filepath.Join(c.Storage.BaseDir, "history")
}

// LogPath returns the log file, defaulting to one under the storage dir.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.BaseDir, "slidechat.log")
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
