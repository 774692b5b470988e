package gacha

import "fmt"

// The samplers below replay each model's rules one base success at a time
// on top of a PitySystem. They mirror the exact solvers and share none of
// their code.

func (m *CommonModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	total := 0
	for got := 0; got < q.Items; got++ {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (m *DualPityModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	guaranteed := q.Guaranteed
	total := 0
	for got := 0; got < q.Items; {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
		up, err := m.classMatch(&guaranteed, rng)
		if err != nil {
			return 0, err
		}
		if up {
			got++
		}
	}
	return total, nil
}

// classMatch decides one base success under the 50/50 guarantee and updates
// the guarantee flag.
func (m *DualPityModel) classMatch(guaranteed *bool, rng RandomSource) (bool, error) {
	if *guaranteed {
		*guaranteed = false
		return true, nil
	}
	up, err := Draw(m.upRate, rng)
	if err != nil {
		return false, err
	}
	*guaranteed = !up
	return up, nil
}

func (m *BernoulliModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	guaranteed := q.Guaranteed
	total := 0
	for got := 0; got < q.Items; {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
		up := guaranteed
		guaranteed = false
		if !up {
			if up, err = Draw(m.upRate, rng); err != nil {
				return 0, err
			}
		}
		if up {
			got++
		}
	}
	return total, nil
}

func (m *CapturingRadianceModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	state := 1
	if q.Extra.Radiance != nil && !q.Guaranteed {
		state = *q.Extra.Radiance
	}
	guaranteed := q.Guaranteed
	total := 0
	for got := 0; got < q.Items; {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
		if guaranteed {
			guaranteed = false
			got++
			continue
		}
		cr := m.capture[state]
		switch pick(rng, cr, 0.5-cr/2) {
		case 0: // captured
			state = 1
			got++
		case 1: // won the 50/50
			state = max(state-1, 0)
			got++
		default:
			state = min(state+1, 3)
			guaranteed = true
		}
	}
	return total, nil
}

func (m *ClassBernoulliModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.class.layer.Curve(), q.Pity, rng)
	guaranteed := q.Guaranteed
	total := 0
	for got := 0; got < q.Items; {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
		class, err := m.class.classMatch(&guaranteed, rng)
		if err != nil {
			return 0, err
		}
		if !class {
			continue
		}
		hit, err := Draw(m.specific, rng)
		if err != nil {
			return 0, err
		}
		if hit {
			got++
		}
	}
	return total, nil
}

func (m *TypePityModel) sample(q Query, rng RandomSource) (int, error) {
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	t := min(q.Extra.TypePulls, m.gap)
	if q.Guaranteed {
		t = m.gap
	}
	total := 0
	for got := 0; got < q.Items; {
		total++
		hit, err := ps.Draw()
		if err != nil {
			return 0, err
		}
		forced := t >= m.gap
		t = min(t+1, m.gap)
		if !hit {
			continue
		}
		target := forced
		if !target {
			if target, err = Draw(m.upRate, rng); err != nil {
				return 0, err
			}
		}
		if target {
			t = 0
			got++
		}
	}
	return total, nil
}

func (m *CollectionModel) sample(q Query, rng RandomSource) (int, error) {
	if q.Extra.Owned+q.Items > m.targets {
		return 0, fmt.Errorf("%w: owned %d + items %d exceeds %d targets", ErrInvalidQuery, q.Extra.Owned, q.Items, m.targets)
	}
	ps := NewPitySystem(m.layer.Curve(), q.Pity, rng)
	owned := make([]bool, m.targets)
	for i := 0; i < q.Extra.Owned; i++ {
		owned[i] = true
	}
	guaranteed := q.Guaranteed
	total := 0
	for got := 0; got < q.Items; {
		n, err := ps.Next()
		if err != nil {
			return 0, err
		}
		total += n
		featured := guaranteed
		guaranteed = false
		if !featured {
			if featured, err = Draw(m.upRate, rng); err != nil {
				return 0, err
			}
		}
		if !featured {
			continue
		}
		i := min(int(rng.Float64()*float64(m.targets)), m.targets-1)
		if !owned[i] {
			owned[i] = true
			got++
		}
	}
	return total, nil
}

// sample draws independent gacha copy times from the base model and takes,
// for k copies, min over r of max(T[k-r], r-th milestone).
func (m *SparkModel) sample(q Query, rng RandomSource) (int, error) {
	base, ok := m.base.(sampler)
	if !ok {
		return 0, fmt.Errorf("%w: spark base %s", ErrNotSimulable, m.base.Kind())
	}
	if q.Items == 0 {
		return 0, nil
	}
	times := make([]int, q.Items+1)
	for k := 1; k <= q.Items; k++ {
		one := Query{Items: 1}
		if k == 1 {
			one = Query{Items: 1, Pity: q.Pity, Guaranteed: q.Guaranteed, Extra: q.Extra}
		}
		n, err := base.sample(one, rng)
		if err != nil {
			return 0, err
		}
		if limit := m.firstCap - q.Extra.SparkPulls; k == 1 && m.firstCap > 0 && limit > 0 {
			n = min(n, limit)
		}
		times[k] = times[k-1] + n
	}
	rule := m.rule.Shift(q.Extra.SparkPulls)
	best := times[q.Items]
	if rule.Every > 0 {
		for r := 1; r <= q.Items; r++ {
			best = min(best, max(times[q.Items-r], rule.Pos(r)))
		}
	}
	return best, nil
}
