package cli

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/licensetower/pkg/download"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/integrations/maven"
	"github.com/matzehuels/licensetower/pkg/reconcile"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	defaultSummaryFile       = "src/licenses.xml"
	defaultOutputDirectory   = "target/licenses"
	defaultSummaryOutputFile = "target/licenses.xml"
	defaultPOM               = "pom.xml"
	defaultCacheTTL          = 30 * 24 * time.Hour
)

// configNames are the file names searched by findConfigFile, in order.
var configNames = []string{
	"licensetower.toml",
	".licensetower.toml",
	"licensetower.yaml",
	"licensetower.yml",
	".licensetower.yaml",
	".licensetower.yml",
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// =============================================================================
// Config
// =============================================================================

// Config holds the settings of a download run. Keys mirror the parameter
// names of the Maven goal so existing configuration carries over.
type Config struct {
	SummaryFile       string   `toml:"licensesSummaryFile" yaml:"licensesSummaryFile"`
	OutputDirectory   string   `toml:"licensesOutputDirectory" yaml:"licensesOutputDirectory"`
	SummaryOutputFile string   `toml:"licensesSummaryOutputFile" yaml:"licensesSummaryOutputFile"`
	Quiet             bool     `toml:"quiet" yaml:"quiet"`
	IncludeTransitive bool     `toml:"includeTransitiveDependencies" yaml:"includeTransitiveDependencies"`
	POM               string   `toml:"pom" yaml:"pom"`
	DependencyList    string   `toml:"dependencyList" yaml:"dependencyList"`
	Repositories      []string `toml:"repositories" yaml:"repositories"`
	Concurrency       int      `toml:"concurrency" yaml:"concurrency"`
	DownloadTimeout   Duration `toml:"downloadTimeout" yaml:"downloadTimeout"`
	CacheTTL          Duration `toml:"cacheTTL" yaml:"cacheTTL"`
	RedisAddr         string   `toml:"redisAddr" yaml:"redisAddr"`
	RedisPassword     string   `toml:"redisPassword" yaml:"redisPassword"`
}

// Duration is a time.Duration written as "90s" or "1h30m" in config files.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML).
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// defaultConfig returns the configuration used when neither a file nor a
// flag sets a value.
func defaultConfig() Config {
	return Config{
		SummaryFile:       defaultSummaryFile,
		OutputDirectory:   defaultOutputDirectory,
		SummaryOutputFile: defaultSummaryOutputFile,
		IncludeTransitive: true,
		POM:               defaultPOM,
		Repositories:      []string{maven.DefaultRepository},
		Concurrency:       reconcile.DefaultConcurrency,
		DownloadTimeout:   Duration{download.DefaultTimeout},
		CacheTTL:          Duration{defaultCacheTTL},
	}
}

// options converts the configuration into reconciler options.
func (c Config) options() reconcile.Options {
	return reconcile.Options{
		SummaryFile:       c.SummaryFile,
		OutputDirectory:   c.OutputDirectory,
		SummaryOutputFile: c.SummaryOutputFile,
		Quiet:             c.Quiet,
		IncludeTransitive: c.IncludeTransitive,
		Concurrency:       c.Concurrency,
	}
}

// =============================================================================
// Loading
// =============================================================================

// loadConfigFile decodes the file at path over cfg. Keys absent from the file
// keep their current value. The format is chosen by extension.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

// findConfigFile searches dir and its .config and configs subdirectories for
// a configuration file. It returns "" when none exists.
func findConfigFile(dir string) string {
	locations := []string{
		dir,
		filepath.Join(dir, ".config"),
		filepath.Join(dir, "configs"),
	}
	for _, loc := range locations {
		for _, name := range configNames {
			p := filepath.Join(loc, name)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p
			}
		}
	}
	return ""
}

// applyFlags copies every flag the user set explicitly from set into cfg.
func applyFlags(fs *pflag.FlagSet, set *Config, cfg *Config) {
	changed := fs.Changed
	if changed(flagSummaryFile) {
		cfg.SummaryFile = set.SummaryFile
	}
	if changed(flagOutputDir) {
		cfg.OutputDirectory = set.OutputDirectory
	}
	if changed(flagSummaryOutput) {
		cfg.SummaryOutputFile = set.SummaryOutputFile
	}
	if changed(flagQuiet) {
		cfg.Quiet = set.Quiet
	}
	if changed(flagTransitive) {
		cfg.IncludeTransitive = set.IncludeTransitive
	}
	if changed(flagPOM) {
		cfg.POM = set.POM
	}
	if changed(flagDependencyList) {
		cfg.DependencyList = set.DependencyList
	}
	if changed(flagRepository) {
		cfg.Repositories = set.Repositories
	}
	if changed(flagConcurrency) {
		cfg.Concurrency = set.Concurrency
	}
	if changed(flagDownloadTimeout) {
		cfg.DownloadTimeout = set.DownloadTimeout
	}
	if changed(flagCacheTTL) {
		cfg.CacheTTL = set.CacheTTL
	}
	if changed(flagRedisAddr) {
		cfg.RedisAddr = set.RedisAddr
	}
}

// expandEnv replaces ${VAR} references in every string value. Unset
// variables expand to "" and are reported through warn.
func (c *Config) expandEnv(warn func(string, ...any)) {
	expand := func(raw string) string {
		return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
			name := envVarPattern.FindStringSubmatch(match)[1]
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			warn("environment variable %q is not set", name)
			return ""
		})
	}

	for _, p := range []*string{
		&c.SummaryFile, &c.OutputDirectory, &c.SummaryOutputFile,
		&c.POM, &c.DependencyList, &c.RedisAddr, &c.RedisPassword,
	} {
		*p = expand(*p)
	}
	for i := range c.Repositories {
		c.Repositories[i] = expand(c.Repositories[i])
	}
}

// validate checks that the configuration describes a runnable download.
func (c *Config) validate() error {
	if c.OutputDirectory == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "licensesOutputDirectory is required")
	}
	if c.SummaryOutputFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "licensesSummaryOutputFile is required")
	}
	if c.POM == "" && c.DependencyList == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "either pom or dependencyList must be set")
	}
	if c.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.DownloadTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "downloadTimeout must not be negative")
	}
	if c.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cacheTTL must not be negative")
	}
	for i, repo := range c.Repositories {
		if _, err := errors.ValidateURL(repo); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repositories[%d]", i)
		}
	}
	return nil
}
