// Package config defines the format-agnostic configuration model for a
// benchmark campaign project: the declared factor space, the target system
// description, per-policy scaling parameters, per-model candidate lists and
// the global other-factor value lists.
//
// The config.Model is the single source of truth for the scaling, expand
// and generator packages. Concrete loaders for specific document formats
// (HCL, YAML) live in separate packages behind the Loader interface.
package config
