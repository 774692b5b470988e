package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xtding233/gacha-calc/internal/gacha"
	"github.com/xtding233/gacha-calc/internal/game"
)

// request is one banner goal from the command line.
type request struct {
	Key   game.Key
	Query gacha.Query
}

// parseRequest reads
//
//	game/pool[:items[:pity]][,g][,radiance=N][,type=N][,owned=N][,spark=N]
//
// items defaults to 1; "g" marks the next base success as guaranteed.
func parseRequest(s string) (request, error) {
	parts := strings.Split(s, ",")
	head := strings.Split(parts[0], ":")
	if len(head) > 3 {
		return request{}, fmt.Errorf("query %q: too many ':' fields", s)
	}
	k, err := game.ParseKey(head[0])
	if err != nil {
		return request{}, err
	}
	r := request{Key: k, Query: gacha.Query{Items: 1}}
	if len(head) > 1 {
		if r.Query.Items, err = strconv.Atoi(head[1]); err != nil {
			return request{}, fmt.Errorf("query %q: items: %w", s, err)
		}
	}
	if len(head) > 2 {
		if r.Query.Pity, err = strconv.Atoi(head[2]); err != nil {
			return request{}, fmt.Errorf("query %q: pity: %w", s, err)
		}
	}

	for _, opt := range parts[1:] {
		name, val, hasVal := strings.Cut(strings.TrimSpace(opt), "=")
		if name == "g" || name == "guaranteed" {
			if hasVal {
				return request{}, fmt.Errorf("query %q: %s takes no value", s, name)
			}
			r.Query.Guaranteed = true
			continue
		}
		if !hasVal {
			return request{}, fmt.Errorf("query %q: unknown option %q", s, opt)
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return request{}, fmt.Errorf("query %q: %s: %w", s, name, err)
		}
		switch name {
		case "radiance":
			r.Query.Extra.Radiance = &n
		case "type":
			r.Query.Extra.TypePulls = n
		case "owned":
			r.Query.Extra.Owned = n
		case "spark":
			r.Query.Extra.SparkPulls = n
		default:
			return request{}, fmt.Errorf("query %q: unknown option %q", s, name)
		}
	}
	return r, nil
}

// requestList collects repeated -q flags.
type requestList []request

func (l *requestList) String() string {
	keys := make([]string, len(*l))
	for i, r := range *l {
		keys[i] = r.Key.String()
	}
	return strings.Join(keys, " ")
}

func (l *requestList) Set(s string) error {
	r, err := parseRequest(s)
	if err != nil {
		return err
	}
	*l = append(*l, r)
	return nil
}

func parseQuantiles(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	var qs []float64
	for _, f := range strings.Split(s, ",") {
		q, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("quantiles: %w", err)
		}
		qs = append(qs, q)
	}
	return qs, nil
}
