// Package config loads textmap settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. A configuration file, TOML or YAML chosen by extension
//  3. Environment variables with the TEXTMAP_ prefix
//
// Layers are plain nested maps merged with DeepMerge, then read into a
// typed Settings value.
//
// Example file:
//
//	[overview]
//	minScale = 2
//	maxScale = 3
//
//	[colors]
//	changed = "#ff00ff"
//
//	[theme]
//	name = "monokai"
package config
