package game

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for default/game/pool files inside an fs.FS.
type Paths struct {
	Root string // directory holding games/, "." for the FS root
}

func (p Paths) DefaultPath() string {
	return path.Join(p.Root, "games", "default.yaml")
}
func (p Paths) GamePath(game string) string {
	return path.Join(p.Root, "games", game+".yaml")
}
func (p Paths) PoolPath(game, pool string) string {
	return path.Join(p.Root, "games", game, "pools", pool+".yaml")
}

// Loader reads YAML configs and merges default → game → pool.
type Loader struct {
	fsys  fs.FS
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: "game" or "game/pool" or "$default"
}

// NewLoader creates a config loader over fsys. Use configs.FS for the
// built-in games or os.DirFS for a directory on disk.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:  fsys,
		paths: Paths{Root: "."},
		cache: make(map[string]RawConfig),
	}
}

// Default returns the default layer alone.
func (l *Loader) Default() (RawConfig, error) {
	l.mu.RLock()
	cfg, ok := l.cache["$default"]
	l.mu.RUnlock()
	if ok {
		return cfg, nil
	}
	cfg, err := l.readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	l.mu.Lock()
	l.cache["$default"] = cfg
	l.mu.Unlock()
	return cfg, nil
}

// LoadMerged loads and merges default → game → pool (pool optional).
// It returns the merged RawConfig (without validation).
func (l *Loader) LoadMerged(game, pool string) (RawConfig, error) {
	key := game
	if pool != "" {
		key = game + "/" + pool
	}
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := l.Default()
	if err != nil {
		return RawConfig{}, err
	}
	gameCfg, err := l.readYAML(l.paths.GamePath(game))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read game %s: %w", game, err)
	}
	var poolCfg RawConfig
	if pool != "" {
		if poolCfg, err = l.readYAML(l.paths.PoolPath(game, pool)); err != nil {
			return RawConfig{}, fmt.Errorf("read pool %s/%s: %w", game, pool, err)
		}
	}

	gameMerged := mergeRaw(defCfg, gameCfg)
	// the catalog belongs to the default layer only
	gameMerged.Catalog = nil
	merged := mergeRaw(gameMerged, poolCfg)
	merged.Catalog = nil

	l.mu.Lock()
	l.cache[game] = gameMerged
	l.cache[key] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func (l *Loader) readYAML(name string) (RawConfig, error) {
	var cfg RawConfig
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// mergeRaw performs a deep merge: 'b' overrides 'a' where set.
// Slices in 'b' replace those of 'a' when non-empty.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Name != "" {
		out.Name = b.Name
	}
	if b.Model != "" {
		out.Model = b.Model
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.UpRate != nil {
		out.UpRate = b.UpRate
	}
	if b.SpecificRate != nil {
		out.SpecificRate = b.SpecificRate
	}
	if len(b.Capture) > 0 {
		out.Capture = append([]float64(nil), b.Capture...)
	}
	if b.TypeGap != nil {
		out.TypeGap = b.TypeGap
	}
	if b.Targets != nil {
		out.Targets = b.Targets
	}
	if len(b.Catalog) > 0 {
		out.Catalog = append([]string(nil), b.Catalog...)
	}

	// curve
	switch {
	case b.Curve == nil:
	case out.Curve == nil:
		c := *b.Curve
		out.Curve = &c
	default:
		c := *out.Curve
		if b.Curve.Mode != "" && b.Curve.Mode != c.Mode {
			// a new mode discards the parameters of the old one
			c = CurveConfig{Mode: b.Curve.Mode, Base: c.Base, Pity: c.Pity}
		}
		if b.Curve.Base != nil {
			c.Base = b.Curve.Base
		}
		if b.Curve.Pity != nil {
			c.Pity = b.Curve.Pity
		}
		if b.Curve.StartAt != nil {
			c.StartAt = b.Curve.StartAt
		}
		if b.Curve.StartPct != nil {
			c.StartPct = b.Curve.StartPct
		}
		if b.Curve.Increment != nil {
			c.Increment = b.Curve.Increment
		}
		if b.Curve.Target != nil {
			c.Target = b.Curve.Target
		}
		if b.Curve.Easing != "" {
			c.Easing = b.Curve.Easing
		}
		if len(b.Curve.Ramps) > 0 {
			c.Ramps = append([]RampConfig(nil), b.Curve.Ramps...)
		}
		if len(b.Curve.Table) > 0 {
			c.Table = append([]float64(nil), b.Curve.Table...)
		}
		out.Curve = &c
	}

	// spark
	switch {
	case b.Spark == nil:
	case out.Spark == nil:
		c := *b.Spark
		out.Spark = &c
	default:
		c := *out.Spark
		if b.Spark.Every != nil {
			c.Every = b.Spark.Every
		}
		if b.Spark.Offset != nil {
			c.Offset = b.Spark.Offset
		}
		if b.Spark.FirstCap != nil {
			c.FirstCap = b.Spark.FirstCap
		}
		if b.Spark.BaseModel != "" {
			c.BaseModel = b.Spark.BaseModel
		}
		out.Spark = &c
	}

	if b.Truncation != nil {
		c := *b.Truncation
		out.Truncation = &c
	}

	// tokens
	switch {
	case b.Tokens == nil:
	case out.Tokens == nil:
		c := *b.Tokens
		out.Tokens = &c
	default:
		c := *out.Tokens
		if b.Tokens.Name != "" {
			c.Name = b.Tokens.Name
		}
		if b.Tokens.PerDraw != nil {
			c.PerDraw = b.Tokens.PerDraw
		}
		if b.Tokens.PerTenDraw != nil {
			c.PerTenDraw = b.Tokens.PerTenDraw
		}
		out.Tokens = &c
	}

	// pricing: a store is replaced as a whole
	if b.Pricing != nil {
		c := *b.Pricing
		c.Packs = append([]PackConfig(nil), b.Pricing.Packs...)
		out.Pricing = &c
	}

	return out
}
