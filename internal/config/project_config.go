package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InitProjectConfigScaffold 在当前工作目录下初始化项目级配置模板（./.slidechat/config.json）。
// InitProjectConfigScaffold initializes a project-level config scaffold (./.slidechat/config.json) in dir.
// It reports the path and whether a file was written; an existing file is kept.
func InitProjectConfigScaffold(dir string) (string, bool, error) {
	cfgDir := filepath.Join(strings.TrimSpace(dir), ".slidechat")
	path := filepath.Join(cfgDir, "config.json")

	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return path, false, fmt.Errorf("project config path is a directory: %s", path)
		}
		return path, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return path, false, fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return path, false, fmt.Errorf("mkdir .slidechat: %w", err)
	}

	cfg := Default()
	cfg.Provider.APIKey = ""
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return path, false, fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, false, fmt.Errorf("write project config: %w", err)
	}
	return path, true, nil
}

var settableKeys = map[string]map[string]bool{
	"gateway":  {"base_url": false, "mode": false, "timeout_ms": true},
	"provider": {"base_url": false, "model": false, "timeout_ms": true, "content_token_limit": true},
	"server":   {"addr": false, "upload_dir": false},
	"storage":  {"base_dir": false},
	"ui":       {"locale": false},
	"log":      {"level": false, "file": false},
}

// SetProjectValue 将 "section.key" 写入项目配置（./.slidechat/config.json）；目录不存在则创建
// SetProjectValue writes "section.key" = value to dir/.slidechat/config.json,
// keeping every other setting in the file. Numeric keys are stored as numbers.
func SetProjectValue(dir, dotted, value string) error {
	section, key, ok := strings.Cut(strings.TrimSpace(dotted), ".")
	numeric, known := settableKeys[section][key]
	if !ok || !known {
		return fmt.Errorf("unknown config key %q", dotted)
	}
	var v any = strings.TrimSpace(value)
	if numeric {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", dotted, value)
		}
		v = n
	}

	cfgDir := filepath.Join(strings.TrimSpace(dir), ".slidechat")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("mkdir .slidechat: %w", err)
	}
	path := filepath.Join(cfgDir, "config.json")
	var root map[string]any
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(stripJSONComments(data), &root); err != nil {
			return fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	if root == nil {
		root = make(map[string]any)
	}
	sectionMap, _ := root[section].(map[string]any)
	if sectionMap == nil {
		sectionMap = make(map[string]any)
	}
	sectionMap[key] = v
	root[section] = sectionMap

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
