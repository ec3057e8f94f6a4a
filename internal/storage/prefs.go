package storage

import (
	"fmt"

	"slidechat/internal/prefs"
)

// LoadPrefs 读取样式颜色与 Logo 设置；缺失时返回空对象
// LoadPrefs reads the style colors and logo settings; missing entries yield
// empty values.
func LoadPrefs(s Store) (prefs.StyleColors, prefs.LogoSettings, error) {
	var (
		colors prefs.StyleColors
		logo   prefs.LogoSettings
	)
	if _, err := s.GetPref(prefs.KeyStyleColors, &colors); err != nil {
		return prefs.StyleColors{}, prefs.LogoSettings{}, err
	}
	if _, err := s.GetPref(prefs.KeyLogoSettings, &logo); err != nil {
		return prefs.StyleColors{}, prefs.LogoSettings{}, err
	}
	return colors, logo, nil
}

// SaveStyleColors stores the style colors.
func SaveStyleColors(s Store, c prefs.StyleColors) error {
	if err := s.SetPref(prefs.KeyStyleColors, c); err != nil {
		return fmt.Errorf("save style colors: %w", err)
	}
	return nil
}

// SaveLogoSettings stores the logo settings.
func SaveLogoSettings(s Store, l prefs.LogoSettings) error {
	if err := s.SetPref(prefs.KeyLogoSettings, l); err != nil {
		return fmt.Errorf("save logo settings: %w", err)
	}
	return nil
}
