package main

import (
	"testing"

	"github.com/xtding233/gacha-calc/internal/game"
)

func TestParseRequest(t *testing.T) {
	r, err := parseRequest("genshin/character:3:42,g,radiance=2")
	if err != nil {
		t.Fatal(err)
	}
	if r.Key != (game.Key{Game: "genshin", Pool: "character"}) || r.Query.Items != 3 || r.Query.Pity != 42 || !r.Query.Guaranteed {
		t.Fatalf("unexpected request %+v", r)
	}
	if r.Query.Extra.Radiance == nil || *r.Query.Extra.Radiance != 2 {
		t.Fatalf("radiance not parsed")
	}

	r, err = parseRequest("arknights/limited_pair,owned=1,type=20,spark=30")
	if err != nil {
		t.Fatal(err)
	}
	if r.Query.Items != 1 || r.Query.Extra.Owned != 1 || r.Query.Extra.TypePulls != 20 || r.Query.Extra.SparkPulls != 30 {
		t.Fatalf("unexpected request %+v", r)
	}
}

func TestParseRequestErrors(t *testing.T) {
	for _, s := range []string{
		"genshin",
		"genshin/character:x",
		"genshin/character:1:y",
		"genshin/character:1:2:3",
		"genshin/character,bogus",
		"genshin/character,g=1",
		"genshin/character,luck=3",
		"genshin/character,owned=many",
	} {
		if _, err := parseRequest(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestParseQuantiles(t *testing.T) {
	qs, err := parseQuantiles("0.5, 0.9")
	if err != nil || len(qs) != 2 || qs[1] != 0.9 {
		t.Fatalf("got %v %v", qs, err)
	}
	if qs, err := parseQuantiles(""); err != nil || qs != nil {
		t.Fatalf("empty: %v %v", qs, err)
	}
	if _, err := parseQuantiles("half"); err == nil {
		t.Fatalf("expected error")
	}
}
