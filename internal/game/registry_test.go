package game

import (
	"errors"
	"math"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/xtding233/gacha-calc/configs"
	"github.com/xtding233/gacha-calc/internal/gacha"
)

func TestBuiltinRegistry(t *testing.T) {
	reg, err := Build(NewLoader(configs.FS), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg) != 16 {
		t.Fatalf("want 16 pools, got %d", len(reg))
	}
	kinds := map[string]gacha.Kind{
		"genshin/character":            gacha.KindCapturingRadiance,
		"genshin/weapon":               gacha.KindDualPity,
		"genshin/weapon_epitomized":    gacha.KindClassBernoulli,
		"wuthering_waves/weapon":       gacha.KindCommon,
		"arknights/standard":           gacha.KindBernoulli,
		"arknights/limited_rotation":   gacha.KindTypePity,
		"arknights/limited_pair":       gacha.KindCollection,
		"arknights_endfield/character": gacha.KindSpark,
		"arknights_endfield/weapon":    gacha.KindSpark,
	}
	for s, want := range kinds {
		k, _ := ParseKey(s)
		e, err := reg.Lookup(k)
		if err != nil {
			t.Fatal(err)
		}
		if e.Model.Kind() != want {
			t.Fatalf("%s: kind %s want %s", s, e.Model.Kind(), want)
		}
	}

	for _, k := range reg.Keys() {
		d, err := reg[k].Model.Call(gacha.Query{Items: 1})
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if math.Abs(d.Mass()-1) > 1e-6 {
			t.Fatalf("%s: mass %v", k, d.Mass())
		}
	}
}

func TestGenshinCharacterEntry(t *testing.T) {
	reg, err := Build(NewLoader(configs.FS), nil)
	if err != nil {
		t.Fatal(err)
	}
	e, err := reg.Lookup(Key{Game: "genshin", Pool: "character"})
	if err != nil {
		t.Fatal(err)
	}
	d, err := e.Model.Call(gacha.Query{Items: 1})
	if err != nil {
		t.Fatal(err)
	}
	// one featured copy costs 1.5 base successes on average
	if m := d.Mean(); m < 93.4 || m > 93.5 {
		t.Fatalf("mean %v", m)
	}
	if e.Token.Name != "Primogem" || e.Token.TokensForDraws(10) != 1600 {
		t.Fatalf("token %+v", e.Token)
	}
	if e.Catalog == nil || e.Catalog.Currency != "USD" || len(e.Catalog.Packs) != 6 {
		t.Fatalf("catalog %+v", e.Catalog)
	}
	if e.Name != "Character Event Wish (5★)" {
		t.Fatalf("name %q", e.Name)
	}
}

func TestRegistryKeysSorted(t *testing.T) {
	reg := Registry{
		{Game: "b", Pool: "a"}: {},
		{Game: "a", Pool: "z"}: {},
		{Game: "a", Pool: "b"}: {},
	}
	keys := reg.Keys()
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() }) {
		t.Fatalf("unsorted keys %v", keys)
	}
	if _, err := reg.Lookup(Key{Game: "c", Pool: "x"}); !errors.Is(err, ErrUnknownPool) {
		t.Fatalf("want ErrUnknownPool, got %v", err)
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("hsr/weapon")
	if err != nil || k != (Key{Game: "hsr", Pool: "weapon"}) {
		t.Fatalf("ParseKey: %v %v", k, err)
	}
	for _, bad := range []string{"hsr", "/weapon", "hsr/", "a/b/c"} {
		if _, err := ParseKey(bad); !errors.Is(err, ErrUnknownPool) {
			t.Fatalf("%q: want ErrUnknownPool, got %v", bad, err)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	fsys := layeredFS()
	fsys["games/default.yaml"] = &fstest.MapFile{Data: []byte("model: common\n")}
	if _, err := Build(NewLoader(fsys), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("empty catalog: %v", err)
	}

	fsys = layeredFS()
	fsys["games/default.yaml"] = &fstest.MapFile{Data: []byte("catalog: [demo/main, demo/main]\nmodel: dual_pity\nup_rate: 0.5\n")}
	if _, err := Build(NewLoader(fsys), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("duplicate key: %v", err)
	}

	reg, err := Build(NewLoader(layeredFS()), nil)
	if err != nil {
		t.Fatal(err)
	}
	side := reg[Key{Game: "demo", Pool: "side"}]
	if side.Model.Kind() != gacha.KindCommon || side.Catalog.Currency != "JPY" || side.Version != "1" {
		t.Fatalf("side entry %+v", side)
	}
}
