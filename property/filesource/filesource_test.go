package filesource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/property"
)

type testRule struct {
	Resource string `yaml:"resource"`
	Count    int    `yaml:"count"`
}

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSource_ConfigLoadDecodesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeYAML(t, path, "- resource: checkout\n  count: 5\n")

	src := New[testRule](path, time.Hour)
	rules, err := src.ConfigLoad()
	require.NoError(t, err)
	require.Equal(t, []testRule{{Resource: "checkout", Count: 5}}, rules)
}

func TestSource_WatchDeliversInitialRulesThenUpdatesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeYAML(t, path, "- resource: checkout\n  count: 5\n")

	src := New[testRule](path, 10*time.Millisecond)
	defer src.Close()

	updates := make(chan []testRule, 4)
	listener := property.ListenerFunc[testRule](func(rules []testRule) { updates <- rules })

	require.NoError(t, src.Watch(listener))
	require.Equal(t, []testRule{{Resource: "checkout", Count: 5}}, <-updates)

	// mtime must visibly advance past the first read for the poll loop to
	// notice the change.
	time.Sleep(5 * time.Millisecond)
	writeYAML(t, path, "- resource: checkout\n  count: 10\n")

	select {
	case rules := <-updates:
		require.Equal(t, []testRule{{Resource: "checkout", Count: 10}}, rules)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the poll loop to pick up the file change")
	}
}
