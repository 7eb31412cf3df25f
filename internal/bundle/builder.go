package bundle

import "github.com/conneroisu/zgl/internal/types"

// Builder assembles a Config step by step. A Builder is immutable: every
// With method returns a new Builder over a deep copy, so a partially built
// Builder can be shared and extended in different directions safely.
type Builder struct {
	cfg Config
}

// NewBuilder starts a config with the given name and mode.
func NewBuilder(name, mode string) Builder {
	return Builder{cfg: Config{
		Name:   name,
		Mode:   mode,
		Target: "web",
	}}
}

func (b Builder) with(fn func(*Config)) Builder {
	next := b.cfg.Clone()
	fn(&next)
	return Builder{cfg: next}
}

// WithContext sets the base directory entries and loaders resolve from.
func (b Builder) WithContext(dir string) Builder {
	return b.with(func(c *Config) { c.Context = dir })
}

// WithEntry replaces the entry map.
func (b Builder) WithEntry(entries types.EntryMap) Builder {
	return b.with(func(c *Config) { c.Entry = entries.Clone() })
}

// WithOutput replaces the output descriptor.
func (b Builder) WithOutput(out Output) Builder {
	return b.with(func(c *Config) { c.Output = out.clone() })
}

// WithResolve replaces resolution settings.
func (b Builder) WithResolve(r Resolve) Builder {
	return b.with(func(c *Config) {
		c.Resolve = Config{Resolve: r}.Clone().Resolve
	})
}

// WithExperiments replaces the experiment toggles.
func (b Builder) WithExperiments(e Experiments) Builder {
	return b.with(func(c *Config) { c.Experiments = e })
}

// WithRules appends module rules.
func (b Builder) WithRules(rules ...Rule) Builder {
	return b.with(func(c *Config) {
		c.Module.Rules = append(c.Module.Rules, cloneRules(rules)...)
	})
}

// WithPlugins appends plugins.
func (b Builder) WithPlugins(plugins ...Plugin) Builder {
	return b.with(func(c *Config) {
		c.Plugins = append(c.Plugins, clonePlugins(plugins)...)
	})
}

// WithPerformance sets the size hints.
func (b Builder) WithPerformance(p Performance) Builder {
	return b.with(func(c *Config) { c.Performance = &p })
}

// WithOptimization replaces the optimization policy.
func (b Builder) WithOptimization(o Optimization) Builder {
	return b.with(func(c *Config) { c.Optimization = o.clone() })
}

// WithExternals replaces the externals. An empty map clears them.
func (b Builder) WithExternals(e Externals) Builder {
	return b.with(func(c *Config) {
		if len(e) == 0 {
			c.Externals = nil
			return
		}
		c.Externals = e.Clone()
	})
}

// WithDefine replaces the compile-time constants. An empty map clears them.
func (b Builder) WithDefine(define map[string]string) Builder {
	return b.with(func(c *Config) {
		if len(define) == 0 {
			c.Define = nil
			return
		}
		c.Define = Config{Define: define}.Clone().Define
	})
}

// WithDevtool sets the source map style.
func (b Builder) WithDevtool(devtool string) Builder {
	return b.with(func(c *Config) { c.Devtool = Devtool(devtool) })
}

// WithDevServer sets the development server options.
func (b Builder) WithDevServer(d DevServer) Builder {
	return b.with(func(c *Config) { c.DevServer = &d })
}

// Build returns the assembled config.
func (b Builder) Build() Config {
	return b.cfg.Clone()
}
