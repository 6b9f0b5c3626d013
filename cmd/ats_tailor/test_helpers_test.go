package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com

SUMMARY
Backend engineer building reliable services.

EXPERIENCE
- Deployed containerized services using Docker
- Wrote docs

SKILLS
Go, Docker.
`

const sampleJob = `Platform Engineer

We need Kubernetes, Docker and Go. 5+ years required.
`

// executeCommand runs the CLI in-process with fresh flag values and returns its stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolateEnv clears credentials and store settings and runs the test in an empty directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "DATABASE_URL",
		"ATS_AI_PROVIDER", "ATS_STORE_DRIVER", "ATS_STORE_DSN", "ATS_SCORING_SEMANTIC",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
