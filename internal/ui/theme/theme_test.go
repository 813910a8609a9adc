package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dori/weektodo/internal/config"
	"github.com/dori/weektodo/internal/model"
)

func TestEveryThemeCoversThePalette(t *testing.T) {
	for _, th := range Available() {
		for _, c := range model.Colors() {
			_, ok := th.TaskColors[c]
			assert.True(t, ok, "%s is missing %s", th.Name, c)
		}
	}
}

func TestListColor(t *testing.T) {
	assert.Equal(t, Nord.TaskColor(model.ColorBlue), Nord.ListColor("from-blue-500 to-cyan-500"))
	assert.Equal(t, Nord.TaskColor(model.ColorPurple), Nord.ListColor("from-indigo-500 to-purple-500"))
	assert.Equal(t, Nord.TaskColor(model.ColorBlue), Nord.ListColor("bg-gradient-to-r from-blue-500 to-purple-500"))
	assert.Equal(t, Nord.Primary, Nord.ListColor("plain"))
}

func TestNextWraps(t *testing.T) {
	defer SetTheme(Nord)
	SetTheme(Catppuccin)
	assert.Equal(t, "nord", Next().Name)
	SetTheme(Nord)
	assert.Equal(t, "dracula", Next().Name)
}

func TestByName(t *testing.T) {
	th, ok := ByName("gruvbox")
	assert.True(t, ok)
	assert.Equal(t, "gruvbox", th.Name)
	_, ok = ByName("solarized")
	assert.False(t, ok)
	assert.Equal(t, []string{"nord", "dracula", "gruvbox", "catppuccin"}, Names())
}

func TestConfigAcceptsEveryTheme(t *testing.T) {
	assert.Equal(t, config.Themes, Names())
}
