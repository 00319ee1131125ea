package main

import (
	"os"
	"strings"

	"nodetree/internal/cli"
)

func isScriptPath(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// rewriteScriptArgs turns `nodetree edits.yaml` into `nodetree run edits.yaml`.
//
// Cobra treats the first positional token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first, so we look for the first positional token.
func rewriteScriptArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config-dir": true,
		"--format":     true,
		"--log-file":   true,
		"--journal":    true,
	}

	insertRun := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "run")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Cobra stops resolving subcommands at "--", so run goes before it.
			if i+1 < len(argv) && isScriptPath(argv[i+1]) {
				return insertRun(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isScriptPath(a) {
			return insertRun(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteScriptArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
