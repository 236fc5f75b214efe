package builtin

import "io"

// Func is one builtin command. Builtins run inside the shell process, so
// they receive the writers of the node they appear under instead of
// inheriting descriptors the way a spawned program would; "jobs > f"
// lands in f like any other command's output.
type Func func(args []string, stdout, stderr io.Writer) int

type Manager struct {
	builtins map[string]Func
}

func New() *Manager {
	return &Manager{
		builtins: make(map[string]Func),
	}
}

func (m *Manager) Register(name string, fn Func) {
	m.builtins[name] = fn
}

func (m *Manager) Get(name string) Func {
	return m.builtins[name]
}

func (m *Manager) Exists(name string) bool {
	_, exists := m.builtins[name]
	return exists
}

func (m *Manager) List() []string {
	var names []string
	for name := range m.builtins {
		names = append(names, name)
	}
	return names
}
