package config

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Launcher.Anchor != AnchorTop {
		t.Fatalf("expected default anchor %q, got %q", AnchorTop, cfg.Launcher.Anchor)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Launcher.WidthPercent != 40 {
		t.Fatalf("expected default width_percent 40, got %d", res.Config.Launcher.WidthPercent)
	}
	if res.Config.SearchLimit() != DefaultSearchLimit {
		t.Fatalf("expected default search limit %d, got %d", DefaultSearchLimit, res.Config.SearchLimit())
	}
}

func TestLoadFromPath_LauncherOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"launcher:",
		"  width_percent: 60",
		"  height_percent: 50",
		"  anchor: center",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Launcher.WidthPercent != 60 || res.Config.Launcher.HeightPercent != 50 {
		t.Fatalf("unexpected launcher geometry: %#v", res.Config.Launcher)
	}
	if res.Config.Launcher.Anchor != AnchorCenter {
		t.Fatalf("expected anchor center, got %q", res.Config.Launcher.Anchor)
	}
}

func TestLoadFromPath_DisplayAndXAuthority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"display: \":1\"",
		"xauthority: \"/tmp/test-xauth\"",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Display != ":1" {
		t.Fatalf("expected display :1, got %q", res.Config.Display)
	}
	if res.Config.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("expected xauthority /tmp/test-xauth, got %q", res.Config.XAuthority)
	}

	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" {
		t.Fatalf("expected explain display :1, got %#v", val)
	}
	if src.Kind != SourceFile {
		t.Fatalf("expected display source kind file, got %#v", src)
	}
}

func TestExplain_DefaultsForUnsetPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  limit: 5\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "search.limit")
	if err != nil {
		t.Fatalf("explain search.limit: %v", err)
	}
	if val != 5 {
		t.Fatalf("expected explain value 5, got %#v", val)
	}
	if src.Kind != SourceFile {
		t.Fatalf("expected file source, got %#v", src)
	}

	val, src, err = Explain(res, "launcher.anchor")
	if err != nil {
		t.Fatalf("explain launcher.anchor: %v", err)
	}
	if val != AnchorTop {
		t.Fatalf("expected explain value %q, got %#v", AnchorTop, val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("unknown_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configD, "10-base.yaml"), []byte("launcher:\n  width_percent: 30\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configD, "20-override.yaml"), []byte("launcher:\n  width_percent: 35\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"launcher:",
		"  width_percent: 55",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(main), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Launcher.WidthPercent != 55 {
		t.Fatalf("expected width_percent to be 55, got %d", res.Config.Launcher.WidthPercent)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "include:\n  - missing.yaml\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(a, []byte("include: b.yaml\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(b, []byte("include: a.yaml\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_TerminalClassesSupportsStringsAndMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
terminal_classes:
  - kitty
  - class: Alacritty
    default: true
`
	if err := os.WriteFile(path, []byte(strings.TrimSpace(data)+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := len(res.Config.TerminalClasses); got != 2 {
		t.Fatalf("expected 2 terminal classes, got %d", got)
	}
	if res.Config.TerminalClasses[0].Class != "kitty" || res.Config.TerminalClasses[0].Default {
		t.Fatalf("unexpected first terminal class: %#v", res.Config.TerminalClasses[0])
	}
	if res.Config.TerminalClasses[1].Class != "Alacritty" || !res.Config.TerminalClasses[1].Default {
		t.Fatalf("unexpected second terminal class: %#v", res.Config.TerminalClasses[1])
	}
}

func TestLoadFromPath_SearchRootsAcceptsScalarAndList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  roots: \"~/Music\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Search.Roots) != 1 || res.Config.Search.Roots[0] != "~/Music" {
		t.Fatalf("unexpected roots from scalar: %#v", res.Config.Search.Roots)
	}

	data := "search:\n  roots:\n    - \"~/Music\"\n    - \"~/Videos\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err = LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Search.Roots) != 2 || res.Config.Search.Roots[1] != "~/Videos" {
		t.Fatalf("unexpected roots from list: %#v", res.Config.Search.Roots)
	}
}

func TestLoadFromPath_InterpretRequiresBothFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "interpret:\n  endpoint: \"http://127.0.0.1:11434\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for endpoint without model")
	}
	if !strings.Contains(err.Error(), "interpret") || !strings.Contains(err.Error(), "together") {
		t.Fatalf("expected interpret pairing error, got %v", err)
	}
}

func TestLoadFromPath_InterpretEndpointMustBeAbsoluteURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "interpret:\n  endpoint: \"not a url\"\n  model: \"qwen2.5:0.5b\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for relative endpoint")
	}
	if !strings.Contains(err.Error(), "interpret.endpoint") {
		t.Fatalf("expected interpret.endpoint in error, got %v", err)
	}
}

func TestResolveTerminal_PrefDefaultEnvSystemPriorityOrder(t *testing.T) {
	origLookPath := execLookPath
	origSysDetect := detectSystemTerminal
	t.Cleanup(func() {
		execLookPath = origLookPath
		detectSystemTerminal = origSysDetect
	})

	execLookPath = func(file string) (string, error) {
		switch file {
		case "kitty", "alacritty", "ghostty", "konsole":
			return "/usr/bin/" + file, nil
		default:
			return "", exec.ErrNotFound
		}
	}
	detectSystemTerminal = func() string { return "konsole" }

	cfg := &Config{
		Launcher: Launcher{Terminal: "kitty"},
		TerminalClasses: TerminalClassList{
			{Class: "Alacritty", Default: true},
			{Class: "kitty"},
			{Class: "ghostty"},
			{Class: "konsole"},
		},
		TerminalSpawnCommands: map[string]string{
			"Alacritty": "alacritty --class {{class}} -e {{cmd}}",
			"kitty":     "kitty --class {{class}} {{cmd}}",
			"ghostty":   "ghostty --class={{class}} -e {{cmd}}",
			"konsole":   "konsole --name {{class}} -e {{cmd}}",
		},
	}

	t.Setenv("TERMINAL", "/usr/bin/ghostty")

	if got := cfg.ResolveTerminal(); got != "kitty" {
		t.Fatalf("expected launcher.terminal to win, got %q", got)
	}

	cfg.Launcher.Terminal = ""
	if got := cfg.ResolveTerminal(); got != "Alacritty" {
		t.Fatalf("expected terminal_classes default marker to win, got %q", got)
	}

	cfg.TerminalClasses[0].Default = false
	if got := cfg.ResolveTerminal(); got != "ghostty" {
		t.Fatalf("expected $TERMINAL to win, got %q", got)
	}

	t.Setenv("TERMINAL", "")
	if got := cfg.ResolveTerminal(); got != "konsole" {
		t.Fatalf("expected system detection to win, got %q", got)
	}

	detectSystemTerminal = func() string { return "" }
	cfg.TerminalClasses = TerminalClassList{{Class: "Alacritty"}, {Class: "kitty"}}
	if got := cfg.ResolveTerminal(); got != "kitty" {
		t.Fatalf("expected priority list to prefer kitty, got %q", got)
	}
}

func TestResolveTerminal_UnknownPreferredFallsBack(t *testing.T) {
	origLookPath := execLookPath
	origSysDetect := detectSystemTerminal
	t.Cleanup(func() {
		execLookPath = origLookPath
		detectSystemTerminal = origSysDetect
	})

	execLookPath = func(file string) (string, error) {
		if file == "kitty" {
			return "/usr/bin/kitty", nil
		}
		return "", errors.New("not found")
	}
	detectSystemTerminal = func() string { return "" }

	cfg := &Config{
		Launcher:        Launcher{Terminal: "does-not-exist"},
		TerminalClasses: TerminalClassList{{Class: "kitty"}},
		TerminalSpawnCommands: map[string]string{
			"kitty": "kitty --class {{class}} {{cmd}}",
		},
	}

	t.Setenv("TERMINAL", "")

	if got := cfg.ResolveTerminal(); got != "kitty" {
		t.Fatalf("expected fallback to kitty, got %q", got)
	}
}

func TestSpawnTemplateFor_LauncherOverrideWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Launcher.SpawnCommand = "foot --app-id {{class}} {{cmd}}"

	tpl, ok := cfg.SpawnTemplateFor("kitty")
	if !ok {
		t.Fatalf("expected a template")
	}
	if tpl != "foot --app-id {{class}} {{cmd}}" {
		t.Fatalf("expected launcher.spawn_command to win, got %q", tpl)
	}

	cfg.Launcher.SpawnCommand = ""
	tpl, ok = cfg.SpawnTemplateFor("kitty")
	if !ok || !strings.HasPrefix(tpl, "kitty ") {
		t.Fatalf("expected kitty template, got %q (ok=%v)", tpl, ok)
	}

	if _, ok := cfg.SpawnTemplateFor("no-such-terminal"); ok {
		t.Fatalf("expected no template for unknown class")
	}
}

func TestConfig_ReindexEveryAppliesDefault(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ReindexEvery(); got != DefaultReindexInterval {
		t.Fatalf("expected default interval %v, got %v", DefaultReindexInterval, got)
	}

	cfg.Search.ReindexInterval = "30m"
	if got := cfg.ReindexEvery(); got.Minutes() != 30 {
		t.Fatalf("expected 30m, got %v", got)
	}

	cfg.Search.ReindexInterval = "garbage"
	if got := cfg.ReindexEvery(); got != DefaultReindexInterval {
		t.Fatalf("expected fallback to default interval, got %v", got)
	}
}

func TestConfig_ResolveIndexPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := DefaultConfig()
	got, err := cfg.ResolveIndexPath()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join(dir, "quicklaunch", "index.json")
	if got != want {
		t.Fatalf("expected default index path %q, got %q", want, got)
	}

	cfg.Search.IndexPath = "/tmp/custom-index.json"
	got, err = cfg.ResolveIndexPath()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/tmp/custom-index.json" {
		t.Fatalf("expected explicit index path, got %q", got)
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Launcher.Terminal = "kitty"
	cfg.Search.Roots = []string{"~/Downloads", "~/Documents"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(home, ".config", "quicklaunch", "config.yaml")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if res.Config.Launcher.Terminal != "kitty" {
		t.Fatalf("expected saved terminal kitty, got %q", res.Config.Launcher.Terminal)
	}
	if len(res.Config.Search.Roots) != 2 || res.Config.Search.Roots[1] != "~/Documents" {
		t.Fatalf("unexpected saved roots: %#v", res.Config.Search.Roots)
	}

	// Unmodified spawn command defaults are not persisted.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if strings.Contains(string(data), "terminal_spawn_commands") {
		t.Fatalf("expected default spawn commands to be omitted, got:\n%s", data)
	}
}
