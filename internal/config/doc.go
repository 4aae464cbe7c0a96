// Package config loads vipix settings.
//
// Settings come from three places, highest priority first:
//
//	┌─────────────────────────────┐
//	│  3. Command line flags      │  ← bound by cmd/vipix
//	├─────────────────────────────┤
//	│  2. Environment (VIPIX_*)   │  ← VIPIX_CANVAS_WIDTH=32
//	├─────────────────────────────┤
//	│  1. Config file             │  ← --config vipix.yaml
//	├─────────────────────────────┤
//	│  0. Built-in defaults       │
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: keymap files (TOML or YAML) with bindings and palette colors
//   - watcher: fsnotify-based reload of the keymap file
//
// # Example
//
//	# vipix.yaml
//	canvas:
//	  width: 32
//	  height: 32
//	log:
//	  level: debug
//	  file: vipix.log
//	keymap: keymap.toml
//	watch: true
//	palette:
//	  w: "#ffffff"
package config
