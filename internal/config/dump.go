package config

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAML renders the effective configuration in the same shape as
// weektodo.yaml, with durations written as Go duration strings.
func (c *Config) YAML() ([]byte, error) {
	doc := map[string]any{
		"api": map[string]any{
			"base_url": c.API.BaseURL,
			"timeout":  c.API.Timeout.String(),
		},
		"retry": map[string]any{
			"attempts":   c.Retry.Attempts,
			"base_delay": c.Retry.BaseDelay.String(),
		},
		"data_dir": c.DataDir,
		"log": map[string]any{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
		"ui": map[string]any{
			"theme":      c.UI.Theme,
			"start_view": c.UI.StartView,
		},
		"chat": map[string]any{
			"stagger": c.Chat.Stagger.String(),
			"remote":  c.Chat.Remote,
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
