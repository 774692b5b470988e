package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var ErrUnknownPool = errors.New("unknown pool")

// Registry maps game/pool keys to resolved entries. It is built once and
// read-only afterwards.
type Registry map[Key]Entry

// Lookup returns the entry for k.
func (r Registry) Lookup(k Key) (Entry, error) {
	e, ok := r[k]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPool, k)
	}
	return e, nil
}

// Keys returns every registered key sorted by game, then pool.
func (r Registry) Keys() []Key {
	keys := make([]Key, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Game != keys[j].Game {
			return keys[i].Game < keys[j].Game
		}
		return keys[i].Pool < keys[j].Pool
	})
	return keys
}

// Build resolves every pool listed in the default layer's catalog.
func Build(l *Loader, log *slog.Logger) (Registry, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	def, err := l.Default()
	if err != nil {
		return nil, err
	}
	if len(def.Catalog) == 0 {
		return nil, fmt.Errorf("%w: default catalog lists no pools", ErrInvalidConfig)
	}
	reg := make(Registry, len(def.Catalog))
	for _, s := range def.Catalog {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		if _, dup := reg[k]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidConfig, k)
		}
		_, e, err := l.Resolve(k.Game, k.Pool, Overrides{})
		if err != nil {
			return nil, err
		}
		reg[k] = e
		log.Debug("pool registered",
			slog.String("game", k.Game),
			slog.String("pool", k.Pool),
			slog.String("kind", string(e.Model.Kind())),
			slog.String("version", e.Version),
		)
	}
	log.Info("registry built", slog.Int("pools", len(reg)))
	return reg, nil
}
