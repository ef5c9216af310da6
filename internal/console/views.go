package console

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"bot-console/internal/model"
)

//go:embed views.yaml
var viewsYAML []byte

// ColumnDef is one table column of a view.
type ColumnDef struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// FilterDef is one filter control rendered above a view's table.
type FilterDef struct {
	Name    string   `yaml:"name"`
	Label   string   `yaml:"label"`
	Kind    string   `yaml:"kind"` // text or select
	Options []string `yaml:"options"`
}

// ActionDef is one row action a view offers. Destructive actions carry a
// confirmation prompt and are never executed without an acknowledgement.
type ActionDef struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Destructive bool   `yaml:"destructive"`
	Confirm     string `yaml:"confirm"`
}

// ViewDef declares a list view: its columns, filter controls and row
// actions. Definitions live in views.yaml and are embedded at build time.
type ViewDef struct {
	Name    string      `yaml:"name"`
	Title   string      `yaml:"title"`
	Columns []ColumnDef `yaml:"columns"`
	Filters []FilterDef `yaml:"filters"`
	Actions []ActionDef `yaml:"actions"`
}

// ColumnLabels returns the header labels in declaration order.
func (v ViewDef) ColumnLabels() []string {
	labels := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Action looks up one of the view's actions by name.
func (v ViewDef) Action(name string) (ActionDef, bool) {
	for _, a := range v.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDef{}, false
}

// Registry holds every declared view keyed by name.
type Registry struct {
	views map[string]ViewDef
	order []string
}

// LoadRegistry parses the embedded view declarations. A duplicate or
// malformed declaration fails loudly at startup rather than at render time.
func LoadRegistry() (*Registry, error) {
	var doc struct {
		Views []ViewDef `yaml:"views"`
	}
	if err := yaml.Unmarshal(viewsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse view declarations: %w", err)
	}

	reg := &Registry{views: make(map[string]ViewDef, len(doc.Views))}
	for _, v := range doc.Views {
		if v.Name == "" || len(v.Columns) == 0 {
			return nil, fmt.Errorf("view %q: missing name or columns", v.Name)
		}
		if _, dup := reg.views[v.Name]; dup {
			return nil, fmt.Errorf("view %q declared twice", v.Name)
		}
		reg.views[v.Name] = v
		reg.order = append(reg.order, v.Name)
	}
	return reg, nil
}

// View returns the named view definition.
func (r *Registry) View(name string) (ViewDef, error) {
	v, ok := r.views[name]
	if !ok {
		return ViewDef{}, fmt.Errorf("view %q: %w", name, model.ErrUnknownView)
	}
	return v, nil
}

// Names returns view names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ActionByName resolves an action across all views.
func (r *Registry) ActionByName(name string) (ActionDef, bool) {
	for _, viewName := range r.order {
		if a, ok := r.views[viewName].Action(name); ok {
			return a, true
		}
	}
	return ActionDef{}, false
}
