package registry

import (
	"testing"

	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// factoryPlugin is a minimal plugin for factory tests
type factoryPlugin struct {
	desc types.PluginDescriptor
}

func (p *factoryPlugin) Descriptor() types.PluginDescriptor { return p.desc }

func TestRegisterAndGetPluginFactory(t *testing.T) {
	factory := func() plugins.Plugin {
		return &factoryPlugin{desc: types.PluginDescriptor{Name: "test-factory-plugin"}}
	}

	if err := RegisterPluginFactory("test-factory-plugin", factory); err != nil {
		t.Fatalf("RegisterPluginFactory() error = %v", err)
	}
	defer func() { _ = pluginFactoryRegistry.Remove("test-factory-plugin") }()

	retrieved, err := GetPluginFactory("test-factory-plugin")
	if err != nil {
		t.Fatalf("GetPluginFactory() error = %v", err)
	}

	p := retrieved()
	if p.Descriptor().Name != "test-factory-plugin" {
		t.Errorf("factory produced plugin %q, want %q", p.Descriptor().Name, "test-factory-plugin")
	}
}

func TestGetPluginFactory_NotFound(t *testing.T) {
	_, err := GetPluginFactory("non-existent")
	if err == nil {
		t.Fatal("GetPluginFactory() should fail for unknown name")
	}
	if got := err.Error(); got != "plugin factory not found: non-existent" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestMustRegisterPluginFactory_PanicsOnDuplicate(t *testing.T) {
	factory := func() plugins.Plugin { return &factoryPlugin{} }

	MustRegisterPluginFactory("dup-factory", factory)
	defer func() { _ = pluginFactoryRegistry.Remove("dup-factory") }()

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustRegisterPluginFactory() should panic on duplicate registration")
		}
	}()
	MustRegisterPluginFactory("dup-factory", factory)
}

func TestPluginFactoryNames(t *testing.T) {
	_ = RegisterPluginFactory("zz-one", func() plugins.Plugin { return &factoryPlugin{} })
	_ = RegisterPluginFactory("aa-two", func() plugins.Plugin { return &factoryPlugin{} })
	defer func() {
		_ = pluginFactoryRegistry.Remove("zz-one")
		_ = pluginFactoryRegistry.Remove("aa-two")
	}()

	names := PluginFactoryNames()
	idxA, idxZ := -1, -1
	for i, n := range names {
		switch n {
		case "aa-two":
			idxA = i
		case "zz-one":
			idxZ = i
		}
	}
	if idxA == -1 || idxZ == -1 {
		t.Fatalf("PluginFactoryNames() = %v, missing registered names", names)
	}
	if idxA > idxZ {
		t.Error("PluginFactoryNames() should be sorted")
	}
}
