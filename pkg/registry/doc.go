// Package registry provides a generic, type-safe registry system plus
// the validating PluginRegistry the engine is built around. Plugin
// factories support automatic registration through init() functions.
package registry
