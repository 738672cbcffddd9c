package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"domain-finder/config"
	"domain-finder/finder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type mapProber map[string]domain.ProbeOutcome

func (p mapProber) Probe(_ context.Context, q domain.DomainQuery) domain.ProbeOutcome {
	if out, ok := p[q.String()]; ok {
		return out
	}
	return domain.Unregistered()
}

type listSuggester []string

func (s listSuggester) Suggest(context.Context, string) []string { return s }

func run(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	deps.Out = &out
	if deps.LogOutput == nil {
		deps.LogOutput = io.Discard
	}

	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCheck_JSON(t *testing.T) {
	deps := Deps{Prober: mapProber{"google.com": domain.Registered()}}

	out, err := run(t, deps, "check", "google.com", "-o", "json")
	require.NoError(t, err)

	var res domain.DomainResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.DomainResult{Name: "google", Label: "com", Registered: true}, res)
}

func TestCheck_Table(t *testing.T) {
	out, err := run(t, Deps{Prober: mapProber{}}, "check", "brand-new")
	require.NoError(t, err)

	assert.Contains(t, out, "DOMAIN")
	assert.Contains(t, out, "brand-new.com")
	assert.Contains(t, out, "available")
}

func TestCheck_InvalidInput(t *testing.T) {
	_, err := run(t, Deps{Prober: mapProber{}}, "check", "this_is not okay.com")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.InvalidCharacters, ve.Kind)
}

func TestSimilar_YAML(t *testing.T) {
	deps := Deps{
		Prober:    mapProber{"acme.com": domain.Registered(), "acne.org": domain.Failed("refused")},
		Suggester: listSuggester{"acne", "ice cream"},
	}

	out, err := run(t, deps, "similar", "acme.com", "--labels", "com,org", "-o", "yaml")
	require.NoError(t, err)

	var res domain.SimilarResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Primary)
	assert.True(t, res.Primary.Registered)
	assert.Len(t, res.Similar, 3)
}

func TestSimilar_OnlyUnregistered(t *testing.T) {
	deps := Deps{
		Prober:    mapProber{"acme.com": domain.Registered()},
		Suggester: listSuggester{},
	}

	out, err := run(t, deps, "similar", "acme.com", "--labels", "com,org", "--only-unregistered", "-o", "json")
	require.NoError(t, err)

	var res domain.SimilarResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []domain.DomainResult{{Name: "acme", Label: "org"}}, res.Similar)
}

func TestHistory_SQLiteAcrossCommands(t *testing.T) {
	cfgPath := writeConfig(t, "history:\n  backend: sqlite\n  sqlite_path: "+filepath.Join(t.TempDir(), "h.db")+"\n")
	deps := Deps{Prober: mapProber{}, Suggester: listSuggester{}}

	_, err := run(t, deps, "--config", cfgPath, "check", "acme.com", "--user", "alice")
	require.NoError(t, err)
	_, err = run(t, deps, "--config", cfgPath, "similar", "acme", "--user", "alice", "--labels", "com")
	require.NoError(t, err)
	_, err = run(t, deps, "--config", cfgPath, "check", "other.com")
	require.NoError(t, err)

	out, err := run(t, deps, "--config", cfgPath, "history", "--user", "alice", "-o", "json")
	require.NoError(t, err)

	var entries []domain.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "acme", entries[0].Domain)
	assert.Equal(t, "acme.com", entries[1].Domain)
}

func TestHistory_RequiresUser(t *testing.T) {
	_, err := run(t, Deps{Prober: mapProber{}}, "history")
	assert.ErrorContains(t, err, "--user")
}

func TestRoot_InvalidConfig(t *testing.T) {
	cfgPath := writeConfig(t, "history:\n  backend: redis\n")
	_, err := run(t, Deps{Prober: mapProber{}}, "--config", cfgPath, "check", "acme.com")
	assert.ErrorContains(t, err, "redis.addr")
}

func TestUnsupportedOutput(t *testing.T) {
	_, err := run(t, Deps{Prober: mapProber{}}, "check", "acme.com", "-o", "xml")
	assert.ErrorContains(t, err, "xml")
}

func TestEdge_RateLimitsAPI(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1

	a, err := newApp(context.Background(), cfg, slog.New(slog.DiscardHandler), Deps{Prober: mapProber{}})
	require.NoError(t, err)
	defer a.Close()

	srv := httptest.NewServer(a.edge(a.handler()))
	defer srv.Close()

	codes := make([]int, 0, 2)
	for range 2 {
		resp, err := http.Get(srv.URL + "/api/v1/registrationStatus?domain=acme.com")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestEdge_MemoryStatsWithoutRedis(t *testing.T) {
	v := config.New()
	v.Set("stats.enabled", true)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	a, err := newApp(context.Background(), cfg, slog.New(slog.DiscardHandler), Deps{Prober: mapProber{}})
	require.NoError(t, err)
	defer a.Close()
	require.Nil(t, a.rdb)

	srv := httptest.NewServer(a.edge(a.handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/registrationStatus?domain=acme.com")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/debug/ratelimit")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Total struct {
			Allowed int64 `json:"allowed"`
		} `json:"total"`
		Routes map[string]map[string]int64 `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 1, body.Total.Allowed)
	assert.EqualValues(t, 1, body.Routes["GET /api/v1/registrationStatus"]["allowed"])
}

func TestHistory_WarnsOnMemoryBackend(t *testing.T) {
	var logs bytes.Buffer
	deps := Deps{Prober: mapProber{}, LogOutput: &logs}

	_, err := run(t, deps, "check", "acme.com", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "history.ephemeral")

	logs.Reset()
	_, err = run(t, deps, "check", "acme.com")
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "history.ephemeral")

	logs.Reset()
	cfgPath := writeConfig(t, "history:\n  backend: sqlite\n  sqlite_path: "+filepath.Join(t.TempDir(), "h.db")+"\n")
	_, err = run(t, deps, "--config", cfgPath, "history", "--user", "alice")
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "history.ephemeral")
}
