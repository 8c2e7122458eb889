package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/transitroute/pkg/config"
	netio "github.com/matzehuels/transitroute/pkg/io"
	"github.com/matzehuels/transitroute/pkg/network"
	"github.com/matzehuels/transitroute/pkg/pipeline"
)

// writeSnapshot saves the Red/Mattapan/Orange test network and returns its path.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	stops := func(names ...string) []network.Stop {
		out := make([]network.Stop, len(names))
		for i, n := range names {
			out[i] = network.Stop{Name: n}
		}
		return out
	}
	n, err := network.New([]network.Route{
		{ID: "Red", LongName: "Red Line", Type: network.RouteTypeSubway,
			Stops: stops("Alewife", "Davis", "Porter", "Harvard", "Central")},
		{ID: "Mattapan", LongName: "Mattapan Trolley", Type: network.RouteTypeLightRail,
			Stops: stops("Central", "Kendall/MIT", "Charles/MGH", "Park Street")},
		{ID: "Orange", LongName: "Orange Line", Type: network.RouteTypeSubway,
			Stops: stops("Park Street", "Downtown Crossing", "South Station")},
	})
	if err != nil {
		t.Fatalf("network.New: %v", err)
	}
	path := filepath.Join(t.TempDir(), "network.json")
	if err := netio.ExportJSON(n, "test", path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	return path
}

// run executes the CLI with args and returns what the command wrote to
// its output stream.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{config.EnvMode, config.EnvCacheBackend, config.EnvBaseURL} {
		t.Setenv(key, "")
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTrip(t *testing.T) {
	snap := writeSnapshot(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"direct", []string{"Alewife", "Central"}, "The route needed is: Red"},
		{"two routes", []string{"Kendall/MIT", "Downtown Crossing"}, "The two routes needed are: Mattapan, then Orange"},
		{"three routes", []string{"Alewife", "South Station"}, "The routes needed are: Red, Mattapan, Orange"},
		{"covid19", []string{"Alewife", "South Station", "--mode", "covid19"}, "No route is possible."},
		{"closed", []string{"Alewife", "South Station", "--closed", "Park Street"}, "No route is possible."},
		{"closed elsewhere", []string{"Davis", "Harvard", "--closed", "Alewife,Central"}, "The route needed is: Red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"trip", "--network", snap}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("trip: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTripJSON(t *testing.T) {
	out, err := run(t, "trip", "--network", writeSnapshot(t), "--json", "Alewife", "South Station")
	if err != nil {
		t.Fatalf("trip: %v", err)
	}
	var trip pipeline.Trip
	if err := json.Unmarshal([]byte(out), &trip); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !trip.Found || trip.Strategy != "search" || len(trip.Routes) != 3 {
		t.Errorf("trip = %+v", trip)
	}
}

func TestTripInvalidStop(t *testing.T) {
	snap := writeSnapshot(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"Nowhere", "Central"}, "The source stop name is invalid."},
		{[]string{"Alewife", "Nowhere"}, "The destination stop name is invalid."},
	}
	for _, tt := range tests {
		_, err := run(t, append([]string{"trip", "--network", snap}, tt.args...)...)
		if err == nil || err.Error() != tt.want {
			t.Errorf("trip %v: err = %v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestTripInvalidMode(t *testing.T) {
	_, err := run(t, "trip", "--network", writeSnapshot(t), "--mode", "weekend", "Alewife", "Central")
	if err == nil || !strings.Contains(err.Error(), "covid19") {
		t.Errorf("err = %v, want a message listing the modes", err)
	}
}

func TestTripMissingStopWithoutTerminal(t *testing.T) {
	if stdinIsTerminal() {
		t.Skip("stdin is a terminal")
	}
	_, err := run(t, "trip", "--network", writeSnapshot(t), "Alewife")
	if err == nil {
		t.Fatal("expected an error when a stop is missing and stdin is not a terminal")
	}
}

func TestRoutesPlain(t *testing.T) {
	out, err := run(t, "routes", "--network", writeSnapshot(t), "--plain")
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	want := "Red Line\nMattapan Trolley\nOrange Line\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRoutesTable(t *testing.T) {
	out, err := run(t, "routes", "--network", writeSnapshot(t))
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	for _, want := range []string{"Mattapan Trolley", "light rail", "subway"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestStopsJSON(t *testing.T) {
	out, err := run(t, "stops", "--network", writeSnapshot(t), "--json")
	if err != nil {
		t.Fatalf("stops: %v", err)
	}
	var st network.Stats
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.UniqueStops != 10 || st.MostStops != "Red" || st.FewestStops != "Orange" {
		t.Errorf("stats = %+v", st)
	}
}

func TestStopsText(t *testing.T) {
	out, err := run(t, "stops", "--network", writeSnapshot(t))
	if err != nil {
		t.Fatalf("stops: %v", err)
	}
	for _, want := range []string{"10 unique", "Red Line (5 stops)", "Orange Line (3 stops)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGraphDOT(t *testing.T) {
	out, err := run(t, "graph", "--network", writeSnapshot(t), "--from", "Alewife", "--to", "Central")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("output is not DOT:\n%s", out)
	}
	if !strings.Contains(out, `"Red" [label="Red Line", fillcolor=`) {
		t.Errorf("trip route not highlighted:\n%s", out)
	}
}

func TestGraphPNGNeedsOutput(t *testing.T) {
	if _, err := run(t, "graph", "--network", writeSnapshot(t), "--format", "png"); err == nil {
		t.Error("expected error for png without --output")
	}
}

func TestFetchFromSnapshot(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "copy.json")
	if _, err := run(t, "fetch", "--network", writeSnapshot(t), "-o", dest); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	n, _, err := netio.ImportJSON(dest)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n.Index().Len() != 3 {
		t.Errorf("routes = %d, want 3", n.Index().Len())
	}
}

func TestConfigShowMasksKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "secret-key")
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "secret-key") {
		t.Error("config show printed the API key")
	}
	if !strings.Contains(out, "[api]") || !strings.Contains(out, "[closures]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigExplicitPathMissing(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config", "show")
	if err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestConfigClosuresApply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[closures]\nmode = \"covid19\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", path, "trip", "--network", writeSnapshot(t), "Alewife", "South Station")
	if err != nil {
		t.Fatalf("trip: %v", err)
	}
	if strings.TrimSpace(out) != "No route is possible." {
		t.Errorf("output = %q, want the configured covid19 closures applied", out)
	}
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvCacheDir, dir)
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}
