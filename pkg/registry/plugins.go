package registry

import (
	"regexp"
	"sync"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// ProtectedPluginNames are visible regardless of any allow/deny policy.
var ProtectedPluginNames = map[string]bool{
	"core": true,
}

// pluginNameRe is the shape every plugin name and command name must have
var pluginNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// PluginRegistry validates and stores plugins, enforcing name and
// command-name uniqueness. Registration order is preserved: GetAll and
// GetVisible return plugins in the order they were registered, which the
// loader uses as the deterministic tie-break.
type PluginRegistry struct {
	mu        sync.RWMutex
	byName    map[string]plugins.Plugin
	byCommand map[string]string
	order     []string
}

// NewPluginRegistry creates an empty plugin registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{
		byName:    make(map[string]plugins.Plugin),
		byCommand: make(map[string]string),
	}
}

// Register validates a plugin's descriptor and adds the plugin.
// Registration is all-or-nothing: on any error the registry's contents
// are unchanged.
func (r *PluginRegistry) Register(p plugins.Plugin) error {
	if p == nil {
		return errors.New(errors.ErrPluginValidation, "plugin: a plugin instance is required")
	}

	desc := p.Descriptor()
	if err := validateDescriptor(desc); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[desc.Name]; exists {
		return errors.Newf(errors.ErrPluginDuplicate, "plugin %q is already registered", desc.Name).
			WithDetail("plugin", desc.Name)
	}
	if owner, exists := r.byCommand[desc.CommandName]; exists {
		return errors.Newf(errors.ErrPluginDuplicate,
			"command name %q is already registered by plugin %q", desc.CommandName, owner).
			WithDetail("plugin", desc.Name).
			WithDetail("command_name", desc.CommandName)
	}

	r.byName[desc.Name] = p
	r.byCommand[desc.CommandName] = desc.Name
	r.order = append(r.order, desc.Name)

	logger := logging.GetLogger("registry")
	logger.Debug().
		Str("plugin", desc.Name).
		Str("command", desc.CommandName).
		Bool("heavyweight", desc.Heavyweight).
		Msg("Plugin registered")

	return nil
}

// validateDescriptor checks the descriptor and reports the first
// offending field.
func validateDescriptor(d types.PluginDescriptor) error {
	switch {
	case d.Name == "":
		return validationError(d.Name, "name", "required")
	case !pluginNameRe.MatchString(d.Name):
		return validationError(d.Name, "name", "must be lowercase letters, digits and hyphens, starting with a letter")
	case d.CommandName == "":
		return validationError(d.Name, "command_name", "required")
	case !pluginNameRe.MatchString(d.CommandName):
		return validationError(d.Name, "command_name", "must be lowercase letters, digits and hyphens, starting with a letter")
	case d.Version == "":
		return validationError(d.Name, "version", "required")
	case d.Description == "":
		return validationError(d.Name, "description", "required")
	}

	for i, dep := range d.Dependencies {
		if dep == "" || !pluginNameRe.MatchString(dep) {
			return validationErrorf(d.Name, "dependencies", "element %d (%q) is not a valid plugin name", i, dep)
		}
		if dep == d.Name {
			return validationError(d.Name, "dependencies", "a plugin cannot depend on itself")
		}
	}
	for i, c := range d.Conflicts {
		if c == "" || !pluginNameRe.MatchString(c) {
			return validationErrorf(d.Name, "conflicts", "element %d (%q) is not a valid plugin name", i, c)
		}
	}

	return nil
}

func validationError(plugin, field, problem string) error {
	return errors.Newf(errors.ErrPluginValidation, "invalid plugin descriptor: %s: %s", field, problem).
		WithDetail("plugin", plugin).
		WithDetail("field", field)
}

func validationErrorf(plugin, field, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrPluginValidation, "invalid plugin descriptor: "+field+": "+format, args...).
		WithDetail("plugin", plugin).
		WithDetail("field", field)
}

// Get returns the plugin registered under name.
func (r *PluginRegistry) Get(name string) (plugins.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.byName[name]
	if !exists {
		return nil, errors.Newf(errors.ErrPluginNotFound, "plugin %q is not registered", name).
			WithDetail("plugin", name)
	}
	return p, nil
}

// GetByCommandName returns the plugin owning a command name. Command
// lookup is advisory, so absence is reported with a bare false rather
// than an error.
func (r *PluginRegistry) GetByCommandName(commandName string) (plugins.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, exists := r.byCommand[commandName]
	if !exists {
		return nil, false
	}
	p, exists := r.byName[name]
	return p, exists
}

// GetAll returns every registered plugin in registration order.
func (r *PluginRegistry) GetAll() []plugins.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plugins.Plugin, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the registered plugin names in registration order.
func (r *PluginRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has checks whether a plugin name is registered.
func (r *PluginRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byName[name]
	return exists
}

// Count returns the number of registered plugins.
func (r *PluginRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// GetVisible applies a visibility policy: a non-empty allow list means
// only listed plugins are visible; otherwise the deny list hides listed
// plugins. Protected plugins are visible under every policy. Order is
// registration order.
func (r *PluginRegistry) GetVisible(policy types.PolicyConfig) []plugins.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allow := make(map[string]bool, len(policy.Allow))
	for _, name := range policy.Allow {
		allow[name] = true
	}
	deny := make(map[string]bool, len(policy.Deny))
	for _, name := range policy.Deny {
		deny[name] = true
	}

	out := make([]plugins.Plugin, 0, len(r.order))
	for _, name := range r.order {
		if ProtectedPluginNames[name] {
			out = append(out, r.byName[name])
			continue
		}
		if len(allow) > 0 {
			if allow[name] {
				out = append(out, r.byName[name])
			}
			continue
		}
		if deny[name] {
			continue
		}
		out = append(out, r.byName[name])
	}
	return out
}
