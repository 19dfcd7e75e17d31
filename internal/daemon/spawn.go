package daemon

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/1broseidon/quicklaunch/internal/config"
	"github.com/1broseidon/quicklaunch/internal/platform"
)

// SpawnTerminal starts a terminal emulator hosting the launcher UI. The
// window class is injected through the spawn template so the daemon can find
// the window afterwards. Returns the resolved terminal class.
func SpawnTerminal(cfg *config.Config, windowClass, command string) (string, error) {
	terminal := cfg.ResolveTerminal()
	if terminal == "" {
		return "", fmt.Errorf("no terminal emulator available")
	}

	template, ok := cfg.SpawnTemplateFor(terminal)
	if !ok {
		return "", fmt.Errorf("no spawn template for terminal %q", terminal)
	}

	argv, err := renderSpawnTemplate(template, windowClass, command)
	if err != nil {
		return "", fmt.Errorf("failed to render spawn template for %q: %w", terminal, err)
	}
	if len(argv) == 0 {
		return "", fmt.Errorf("spawn template for %q produced empty command", terminal)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to spawn %q: %w", terminal, err)
	}
	// Do not wait; the terminal is long-lived.
	return terminal, nil
}

// WaitForWindow polls until a window with the given class appears or the
// timeout elapses. Returns true if the window was found.
func WaitForWindow(backend platform.Backend, class string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	for {
		if _, err := backend.LookupWindow(class); err == nil {
			return true
		}

		if time.Now().After(deadline) {
			return false
		}

		<-ticker.C
	}
}

// renderSpawnTemplate fills {{class}} and {{cmd}} placeholders in a terminal
// spawn template and returns an exec-ready argv.
func renderSpawnTemplate(template, class, cmd string) ([]string, error) {
	argv, err := splitCommand(template)
	if err != nil {
		return nil, err
	}

	argvOut := make([]string, 0, len(argv))
	for _, arg := range argv {
		hadCmdPlaceholder := strings.Contains(arg, "{{cmd}}")
		arg = strings.ReplaceAll(arg, "{{class}}", class)
		if cmd != "" {
			arg = strings.ReplaceAll(arg, "{{cmd}}", cmd)
		} else {
			arg = strings.ReplaceAll(arg, "{{cmd}}", "")
		}
		arg = strings.TrimSpace(arg)
		if arg == "" {
			// {{cmd}} expanded to empty: also remove the preceding flag that
			// introduces the command (e.g., "-e", "--").
			if hadCmdPlaceholder && cmd == "" && len(argvOut) > 0 {
				prev := argvOut[len(argvOut)-1]
				if strings.HasPrefix(prev, "-") {
					argvOut = argvOut[:len(argvOut)-1]
				}
			}
			continue
		}
		// {{cmd}} may expand to multiple words (e.g., "quicklaunch ui").
		// Split them into separate exec args.
		if hadCmdPlaceholder && cmd != "" {
			parts, err := splitCommand(arg)
			if err == nil && len(parts) > 0 {
				argvOut = append(argvOut, parts...)
				continue
			}
		}
		argvOut = append(argvOut, arg)
	}

	return argvOut, nil
}

// splitCommand splits a shell-like command string into arguments,
// respecting single and double quotes and backslash escapes.
// Duplicated from internal/config/terminal.go (unexported there).
func splitCommand(s string) ([]string, error) {
	var out []string
	var buf strings.Builder
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		out = append(out, buf.String())
		buf.Reset()
	}

	for _, r := range s {
		if escaped {
			buf.WriteRune(r)
			escaped = false
			continue
		}
		if !inSingle && r == '\\' {
			escaped = true
			continue
		}
		if !inDouble && r == '\'' {
			inSingle = !inSingle
			continue
		}
		if !inSingle && r == '"' {
			inDouble = !inDouble
			continue
		}
		if !inSingle && !inDouble {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				flush()
				continue
			}
		}
		buf.WriteRune(r)
	}

	if escaped {
		return nil, fmt.Errorf("unfinished escape in command template")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote in command template")
	}

	flush()
	return out, nil
}
