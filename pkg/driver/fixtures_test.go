package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type fixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Config struct {
		PrintAST bool `yaml:"print_ast"`
	} `yaml:"config"`
	Expect struct {
		Stdout string `yaml:"stdout"`
		Stderr string `yaml:"stderr"`
		Exit   int    `yaml:"exit"`
	} `yaml:"expect"`
}

func readFixture(t *testing.T, path string) fixture {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture %s: %v", path, err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var fx fixture
	if err := decoder.Decode(&fx); err != nil {
		t.Fatalf("decode fixture %s: %v", path, err)
	}
	return fx
}

func collectFixtures(t *testing.T) []string {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.yml"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}
	sort.Strings(paths)
	return paths
}

func TestFixtures(t *testing.T) {
	for _, path := range collectFixtures(t) {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			fx := readFixture(t, path)

			script := filepath.Join(t.TempDir(), name+".lox")
			if err := os.WriteFile(script, []byte(fx.Source), 0o600); err != nil {
				t.Fatalf("write script: %v", err)
			}

			cfg := DefaultConfig()
			cfg.PrintAST = fx.Config.PrintAST
			var stdout, stderr bytes.Buffer
			session := NewSession(cfg, &stdout, &stderr)
			code, err := session.RunFile(script)
			if err != nil {
				t.Fatalf("%s: run file: %v", fx.Name, err)
			}
			if stdout.String() != fx.Expect.Stdout {
				t.Fatalf("%s: stdout = %q, want %q", fx.Name, stdout.String(), fx.Expect.Stdout)
			}
			if stderr.String() != fx.Expect.Stderr {
				t.Fatalf("%s: stderr = %q, want %q", fx.Name, stderr.String(), fx.Expect.Stderr)
			}
			if code != fx.Expect.Exit {
				t.Fatalf("%s: exit = %d, want %d", fx.Name, code, fx.Expect.Exit)
			}
		})
	}
}
