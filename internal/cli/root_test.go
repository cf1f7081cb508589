package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasranjandas/portfolio-go/internal/chatbot"
)

func writeProfile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hero.json":    `{"name":"Jane Doe","roles":["Developer"],"location":"Berlin"}`,
		"contact.json": `{"email":"jane@example.com"}`,
		"skills.yaml":  "- category: Languages\n  items:\n    - name: Go\n    - name: Rust\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAsk(t *testing.T) {
	dir := writeProfile(t)

	out, err := run(t, "", "ask", "-p", dir, "where", "are", "you", "based", "in?")
	require.NoError(t, err)
	assert.Equal(t, "I’m currently based in Berlin.\n", out)

	out, err = run(t, "", "ask", "--profile-dir", dir, "--intent", "skills")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[skills]\nHere are my core skills"), out)
	assert.Contains(t, out, "• Languages: Go, Rust")
}

func TestAsk_JSON(t *testing.T) {
	out, err := run(t, "", "ask", "-p", writeProfile(t), "--json", "email")
	require.NoError(t, err)

	var reply chatbot.Reply
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, chatbot.IntentContact, reply.Intent)
	assert.Contains(t, reply.Lines, "• Email: jane@example.com")
}

func TestAsk_ProfileDirFromEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_PROFILE_DIR", writeProfile(t))

	out, err := run(t, "", "ask", "location")
	require.NoError(t, err)
	assert.Contains(t, out, "Berlin")
}

func TestAsk_MissingProfileDir(t *testing.T) {
	_, err := run(t, "", "ask", "-p", filepath.Join(t.TempDir(), "nope"), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load profile")
}

func TestCorpus(t *testing.T) {
	dir := writeProfile(t)

	out, err := run(t, "", "corpus", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(Name) Jane Doe\n")
	assert.Contains(t, out, "(Skills - Languages) Go, Rust\n")

	out, err = run(t, "", "corpus", "-p", dir, "--label", "skills")
	require.NoError(t, err)
	assert.Equal(t, "(Skills - Languages) Go, Rust\n", out)
}

func TestIntents(t *testing.T) {
	out, err := run(t, "hello there\nshow me your projects\n\nquantum\n", "intents")
	require.NoError(t, err)
	assert.Equal(t,
		"greeting\thello there\nprojects\tshow me your projects\nempty\t\nsearch\tquantum\n",
		out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "minusbot "), out)
}
