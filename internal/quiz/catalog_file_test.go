package quiz

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalogYAML = `
items:
  - id: yaml_exact
    title: Exact answer
    level: easy
    prompt: What is 2+2?
    hint: four
    checker: exact
    expect: "4"
  - id: yaml_equals
    title: Double it
    level: hard
    prompt: "Given x = 21, write an expression equal to 42."
    hint: multiply
    checker: equals
    env:
      x: "21"
    expect: "42"
  - id: yaml_mutation
    title: Append
    level: hard
    prompt: Append 3 to nums.
    hint: nums.append(3)
    checker: mutation
    env:
      nums: "[1, 2]"
    binding: nums
    expect: "[1, 2, 3]"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, testCatalogYAML))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Items()) != 3 {
		t.Fatalf("loaded %d items, want 3", len(c.Items()))
	}

	it, err := c.ByID("yaml_exact")
	if err != nil {
		t.Fatal(err)
	}
	if v := it.Check("4"); !v.Passed {
		t.Errorf("exact: %s", v.Message)
	}

	it, _ = c.ByID("yaml_equals")
	if v := it.Check("x * 2"); !v.Passed {
		t.Errorf("equals: %s", v.Message)
	}
	if v := it.Check("x"); v.Passed {
		t.Error("wrong value passed")
	}

	it, _ = c.ByID("yaml_mutation")
	if v := it.Check("nums.append(3)"); !v.Passed {
		t.Errorf("mutation: %s", v.Message)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"bad level":   "items:\n  - id: a\n    level: medium\n    checker: exact\n    expect: x\n",
		"bad checker": "items:\n  - id: a\n    level: easy\n    checker: regex\n    expect: x\n",
		"bad expect":  "items:\n  - id: a\n    level: easy\n    checker: equals\n    expect: \"import os\"\n",
		"no items":    "items: []\n",
	}
	for name, content := range cases {
		if _, err := LoadCatalog(writeCatalog(t, content)); err == nil {
			t.Errorf("%s: LoadCatalog succeeded, want error", name)
		}
	}
}
