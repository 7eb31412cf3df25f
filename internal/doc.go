// Package internal contains the core implementation packages for zgl.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules.
//
// # Package Organization
//
// The internal packages are organized by pipeline stage:
//
//   - project: package.json introspection, bundle type detection, .env loading
//   - scanner: entry point discovery in the source tree
//   - bundle: configuration synthesis and the override merge
//   - userconfig: zgl.config.* override loading in every supported format
//   - pipeline: the resolver threading a project root through the stages
//   - engine: esbuild translation, builds and the development server
//   - config: settings of the CLI itself, backed by viper
//   - watcher: debounced file watching for serve re-resolution
//   - output: table, JSON and YAML rendering for inspect
//   - errors, logging, validation, version: shared infrastructure
//
// # Data Flow
//
// A resolution reads the manifest once, discovers entries, collects
// environment defines and synthesizes one configuration per target. The user
// override and the explicit CLI settings are then merged into each of them,
// override first. The engine only ever sees the merged result.
//
// Detection problems are logged and replaced by defaults. A broken override
// or a failing engine ends the command with a typed error.
package internal
