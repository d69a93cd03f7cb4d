package render

import "testing"

func TestGetTUIThemeByName(t *testing.T) {
	for _, name := range TUIThemeNames() {
		theme, ok := GetTUIThemeByName(name)
		if !ok {
			t.Errorf("theme %q not found", name)
		}
		if theme.Name != name {
			t.Errorf("theme name mismatch: %q vs %q", theme.Name, name)
		}
		if theme.Primary == "" || theme.Error == "" || theme.Text == "" {
			t.Errorf("theme %q has empty colors", name)
		}
	}

	if _, ok := GetTUIThemeByName("solarized"); ok {
		t.Error("unknown theme should not resolve")
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme("tokyonight")

	if !SetTUITheme("nord") {
		t.Fatal("SetTUITheme(nord) failed")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("active theme = %q", GetTUITheme().Name)
	}

	if SetTUITheme("bogus") {
		t.Error("unknown theme should be rejected")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("rejected set must not change the active theme")
	}
}
