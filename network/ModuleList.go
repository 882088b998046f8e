package network

import G "gorgonia.org/gorgonia"

// ModuleList is an ordered container of modules
type ModuleList struct {
	name    string
	modules []Module
}

// NewModuleList returns a new ModuleList holding modules in order
func NewModuleList(name string, modules ...Module) *ModuleList {
	return &ModuleList{
		name:    name,
		modules: modules,
	}
}

// Append adds a module to the end of the list
func (m *ModuleList) Append(module Module) {
	m.modules = append(m.modules, module)
}

// Len returns the number of modules in the list
func (m *ModuleList) Len() int {
	return len(m.modules)
}

// At returns the module at index i
func (m *ModuleList) At(i int) Module {
	return m.modules[i]
}

// Kind returns ContainerList
func (m *ModuleList) Kind() Kind {
	return ContainerList
}

// Name returns the name of the list
func (m *ModuleList) Name() string {
	return m.name
}

// Learnables returns the learnables of all modules in the list, in order
func (m *ModuleList) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, module := range m.modules {
		learnables = append(learnables, module.Learnables()...)
	}
	return learnables
}

// Children returns the modules in the list
func (m *ModuleList) Children() []Module {
	return m.modules
}
