// Package config provides user configuration management for the Solis codec tools.
//
// This package manages a YAML configuration file that stores nicknames and
// last-seen information for data loggers, keyed by logger serial number, plus
// application preferences such as the default output format.
//
// # Configuration File Location
//
// Unless a path is given with --config, the file lives at:
//   - Linux: $XDG_CONFIG_HOME/solis/config.yaml or $HOME/.config/solis/config.yaml
//   - macOS: $HOME/.config/solis/config.yaml
//   - Windows: %LOCALAPPDATA%\solis\config.yaml
//
// # Usage Example
//
//	registry, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetNickname(1700000001, "Garage Roof")
//	fmt.Println(registry.DisplayName(1700000001)) // "Garage Roof"
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File reads and writes are serialised by a package mutex. A Registry value
// itself is not safe for concurrent mutation.
package config
