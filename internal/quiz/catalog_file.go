package quiz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/typedrill/typedrill/internal/sandbox"
)

// itemSpec is the declarative YAML form of an item. Environment bindings and
// expected values are written as sandbox expressions and evaluated once at
// load time, which keeps the file format inside the same closed grammar the
// answers use.
type itemSpec struct {
	ID      string            `yaml:"id"`
	Title   string            `yaml:"title"`
	Level   string            `yaml:"level"`
	Prompt  string            `yaml:"prompt"`
	Hint    string            `yaml:"hint"`
	Checker string            `yaml:"checker"` // exact | choice | text | equals | mutation
	Env     map[string]string `yaml:"env"`
	Binding string            `yaml:"binding"`  // mutation only
	Expect  string            `yaml:"expect"`   // exact/choice: literal text; equals/mutation: expression
	Lines   []string          `yaml:"lines"`    // text only
}

type catalogFile struct {
	Items []itemSpec `yaml:"items"`
}

// LoadCatalog reads a catalog definition from a YAML file. The predicate
// strategy has no declarative form; predicate items exist only in the
// compiled-in set.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	c := &Catalog{}
	for _, spec := range f.Items {
		item, err := buildItem(spec)
		if err != nil {
			return nil, fmt.Errorf("catalog item %s: %w", spec.ID, err)
		}
		c.items = append(c.items, item)
	}
	if len(c.items) == 0 {
		return nil, fmt.Errorf("catalog %s defines no items", path)
	}
	return c, nil
}

func buildItem(spec itemSpec) (Item, error) {
	level := Level(spec.Level)
	if level != LevelEasy && level != LevelHard {
		return Item{}, fmt.Errorf("bad level %q", spec.Level)
	}

	env := Env{}
	for name, expr := range spec.Env {
		v, err := sandbox.Eval(expr, nil)
		if err != nil {
			return Item{}, fmt.Errorf("env %s: %w", name, err)
		}
		env[name] = v
	}

	var check Checker
	switch spec.Checker {
	case "exact":
		check = Exact(spec.Expect)
	case "choice":
		check = Choice(spec.Expect)
	case "text":
		if len(spec.Lines) == 0 {
			return Item{}, fmt.Errorf("text checker needs lines")
		}
		check = TextLines(spec.Lines)
	case "equals":
		want, err := sandbox.Eval(spec.Expect, nil)
		if err != nil {
			return Item{}, fmt.Errorf("expect: %w", err)
		}
		check = EvalEquals(env, want)
	case "mutation":
		if spec.Binding == "" {
			return Item{}, fmt.Errorf("mutation checker needs a binding")
		}
		want, err := sandbox.Eval(spec.Expect, nil)
		if err != nil {
			return Item{}, fmt.Errorf("expect: %w", err)
		}
		check = Mutation(env, spec.Binding, want)
	default:
		return Item{}, fmt.Errorf("unknown checker %q", spec.Checker)
	}

	return Item{
		ID:     spec.ID,
		Title:  spec.Title,
		Level:  level,
		Prompt: spec.Prompt,
		Hint:   spec.Hint,
		Check:  check,
	}, nil
}
