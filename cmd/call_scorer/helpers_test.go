package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `Agent: Good morning, thank you for calling Acme. My name is Sam, how can I help you today?

Customer: My internet keeps dropping and I'm frustrated.

Agent: I'm sorry to hear that, I understand how frustrating that is. Let me check your connection and help resolve this.

Customer: Thanks.

Agent: I've reset your line and the issue is fixed. Is there anything else I can help with? Have a great day.`

const sampleUtterances = `[
  {"speaker": "A", "text": "My internet is down again."},
  {"speaker": "B", "text": "Thank you for calling Acme support, my name is Sam.", "confidence": 0.93},
  {"speaker": "B", "text": "I'm sorry about that, let me help you resolve it."}
]`

// executeCommand runs rootCmd in-process and returns what it wrote to stdout
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--log-level", "error"))

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv keeps a developer's .env or shell from leaking services into tests
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CALL_SCORER_DATABASE_URL",
		"CALL_SCORER_ASSEMBLYAI_API_KEY",
		"CALL_SCORER_RUBRIC_FILE",
		"CALL_SCORER_RUBRIC_SHEET_ID",
		"CALL_SCORER_RUBRIC_NAME",
		"CALL_SCORER_RUBRIC_PRESET",
		"CALL_SCORER_VERBOSE",
	} {
		if _, ok := os.LookupEnv(key); ok {
			t.Setenv(key, "")
		}
	}
}

// resetFlags restores every flag to its default; package-level flag vars outlive Execute
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
