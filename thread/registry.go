package thread

import (
	"log"
	"sort"
	"sync"
)

// A Registry maps plugin paths to PluginFuncs. Paths that are not registered
// are run as executables.
type Registry struct {
	lock    sync.RWMutex
	plugins map[string]PluginFunc
	output  OutputConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]PluginFunc),
	}
}

// WithOutput sets where plugin output goes.
func (r *Registry) WithOutput(output OutputConfig) *Registry {
	r.output = output
	return r
}

// Register binds a plugin function to a path.
func (r *Registry) Register(path string, fn PluginFunc) {
	if path == "" || fn == nil {
		log.Panic("plugin registration requires a path and a function")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, found := r.plugins[path]; found {
		log.Panicf("plugin %s already registered", path)
	}

	r.plugins[path] = fn
}

// Lookup returns the plugin function registered at path.
func (r *Registry) Lookup(path string) (PluginFunc, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	fn, found := r.plugins[path]

	return fn, found
}

// Paths returns the registered paths in order.
func (r *Registry) Paths() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	paths := make([]string, 0, len(r.plugins))
	for p := range r.plugins {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// Factory returns the thread factory for the plugin at path.
func (r *Registry) Factory(path string) Factory {
	if fn, found := r.Lookup(path); found {
		return FactoryFunc(func(id int, sys SysCallHandler) Thread {
			return NewGoThread(id, fn, sys, r.output)
		})
	}

	return FactoryFunc(func(id int, sys SysCallHandler) Thread {
		return NewExecThread(id, sys, r.output)
	})
}
