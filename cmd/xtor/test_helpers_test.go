package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"xtor/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	storePath  string
	baseDir    string
	server     *testFeedServer
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XTOR_DEFAULT_FEED", "")
	t.Setenv("XTOR_PLAYER", "")
	t.Setenv("NO_COLOR", "1")

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithPlayerArgs("--title={title}")}, opts...)...)
	configPath := filepath.Join(os.Getenv("HOME"), ".config", "xtor", "config.toml")
	testsupport.WriteConfig(t, cfg, configPath)

	return &cliTestEnv{
		configPath: configPath,
		storePath:  cfg.Storage.Path,
		baseDir:    testsupport.BaseDir(cfg),
		server:     newTestFeedServer(t),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// testFeedServer serves one XTOR feed at <url>/.
type testFeedServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

const testManifest = `{
  "name": "Test Feed",
  "xtor_version": "1.0",
  "description": "Videos for tests",
  "sort": {"default": "newest", "options": [{"id": "newest", "label": "Newest"}, {"id": "popular"}]},
  "filters": [{"id": "genre", "label": "Genre", "options": [{"value": "comedy", "label": "Comedy"}, {"value": "drama"}]}]
}`

func newTestFeedServer(t *testing.T) *testFeedServer {
	t.Helper()
	fs := &testFeedServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *testFeedServer) feedURL() string {
	return fs.URL + "/"
}

func (fs *testFeedServer) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/manifest":
		_, _ = w.Write([]byte(testManifest))
	case r.URL.Path == "/videos":
		fs.mu.Lock()
		fs.queries = append(fs.queries, r.URL.RawQuery)
		fs.mu.Unlock()
		page := r.URL.Query().Get("page")
		hasNext := page == "1"
		_, _ = fmt.Fprintf(w, `{"videos":[{"id":"v%s","title":"Video on page %s","duration":65,"quality":720}],"pagination":{"has_next":%t}}`,
			page, page, hasNext)
	case strings.HasPrefix(r.URL.Path, "/videos/"):
		id := strings.TrimPrefix(r.URL.Path, "/videos/")
		if id == "missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":%q,"title":"Video %s","duration":3725,"stream_url":"https://cdn.example/%s.m3u8"}`, id, id, id)
	default:
		http.NotFound(w, r)
	}
}

func (fs *testFeedServer) lastQuery() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.queries) == 0 {
		return ""
	}
	return fs.queries[len(fs.queries)-1]
}

func (fs *testFeedServer) allQueries() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.queries...)
}

// subscribe adds the test feed through the CLI.
func (env *cliTestEnv) subscribe(t *testing.T) {
	t.Helper()
	out, _, err := runCLI(t, []string{"feeds", "add", env.server.feedURL()}, env.configPath)
	if err != nil {
		t.Fatalf("feeds add: %v", err)
	}
	requireContains(t, out, "Added Test Feed")
}
