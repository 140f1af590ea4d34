// Package config holds the serpclient configuration.
//
// Values come from three layers, later ones winning:
//  1. NewConfig defaults
//  2. the YAML dotfile (.serpclient in the current or home directory, or
//     config.yaml in the XDG config directory)
//  3. command-line flags
//
// Config is a flat struct passed explicitly to the components that need it;
// there is no package-level state.
package config
