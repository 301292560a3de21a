package quantization

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/vqc/internal/parallel"
)

const (
	// minEntryVectors is the population below which an entry is repaired.
	minEntryVectors = 2

	// repairAttemptsPerEntry bounds repair work per codebook entry and pass.
	repairAttemptsPerEntry = 4
)

// refine runs Generalized Lloyd iterations until the relative distortion
// improvement drops below eps, the distortion becomes NaN or zero, the
// iteration bound is hit, or the distortion increases. On an increase the
// codebook measured by the previous iteration is restored.
//
// An iteration's distortion is measured against the centroids it started
// with, so the codebook it scores is its starting centroids plus whatever
// repair moved, paired with the statistics of that pass.
func (t *training) refine(ctx context.Context, entries []learningEntry, eps float64) ([]learningEntry, error) {
	t.pass++
	prevDist := math.Inf(1)
	var best []learningEntry

	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := copyCentroids(entries)

		infos, err := t.assign(ctx, entries)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].update(&infos[i])
		}
		moved := t.repair(entries, iter)

		dist := averageDistortion(entries)

		if math.IsNaN(dist) {
			t.emit(t.event(EventAnomaly, len(entries), iter, dist, "distortion is NaN, keeping current codebook"))
			return entries, nil
		}

		if best != nil && dist > prevDist {
			t.emit(t.event(EventRegression, len(entries), iter, dist,
				fmt.Sprintf("distortion rose from %g to %g, restoring the codebook of iteration %d", prevDist, dist, iter-1)))
			return best, nil
		}

		t.iterations++
		t.emit(t.event(EventIteration, len(entries), iter, dist, fmt.Sprintf("iteration %d: distortion %g", iter, dist)))

		if dist == 0 || iter >= t.opts.maxIterations {
			return entries, nil
		}

		improvement := (prevDist - dist) / dist
		if math.IsNaN(improvement) || improvement < eps {
			return entries, nil
		}

		best = scoredEntries(entries, start, moved)
		prevDist = dist
	}
}

func (t *training) event(kind EventKind, size, iter int, dist float64, msg string) Event {
	return Event{
		Kind:         kind,
		CodebookSize: size,
		Pass:         t.pass,
		Iteration:    iter,
		Distortion:   dist,
		Entry:        -1,
		Message:      msg,
	}
}

// assign records the nearest entry of every training vector and returns the
// per-entry accumulators, reduced in worker order.
func (t *training) assign(ctx context.Context, entries []learningEntry) ([]entryInfo, error) {
	q := newQuantizer(centroids(entries), t.dist, t.opts.workers)

	return parallel.MapReduce(ctx, len(t.vectors), t.opts.workers,
		func(ctx context.Context, r parallel.Range) ([]entryInfo, error) {
			infos := newEntryInfos(len(entries), t.dims)
			for i := r.Start; i < r.End; i++ {
				if (i-r.Start)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
				}
				v := &t.vectors[i]
				v.entry, v.dist = q.nearest(v.data)
				infos[v.entry].add(v.data, v.dist)
			}
			return infos, nil
		},
		newEntryInfos(len(entries), t.dims),
		mergeEntryInfos)
}

// repair re-seeds every entry holding fewer than minEntryVectors vectors from
// the most populated non-zero entry. It returns the indices of the entries
// whose centroid or statistics it replaced.
func (t *training) repair(entries []learningEntry, iter int) []int {
	budget := repairAttemptsPerEntry * len(entries)
	var moved []int

	for {
		empty := -1
		for i := range entries {
			if entries[i].count < minEntryVectors {
				empty = i
				break
			}
		}
		if empty < 0 {
			return moved
		}

		if budget == 0 {
			t.emit(t.event(EventRepairAbandoned, len(entries), iter, averageDistortion(entries),
				fmt.Sprintf("repair budget exhausted, entry %d keeps %d vectors", empty, entries[empty].count)))
			return moved
		}
		budget--

		donor := -1
		for i := range entries {
			if i == empty || entries[i].count <= minEntryVectors || isZeroVector(entries[i].centroid) {
				continue
			}
			if donor < 0 || entries[i].count > entries[donor].count {
				donor = i
			}
		}
		if donor < 0 {
			t.emit(t.event(EventRepairAbandoned, len(entries), iter, averageDistortion(entries),
				fmt.Sprintf("no donor for entry %d, remaining mass is in zero vectors", empty)))
			return moved
		}

		t.repartition(entries, empty, donor)
		moved = append(moved, empty, donor)

		e := t.event(EventRepair, len(entries), iter, averageDistortion(entries),
			fmt.Sprintf("entry %d re-seeded from entry %d (%d/%d vectors)", empty, donor, entries[empty].count, entries[donor].count))
		e.Entry = empty
		t.emit(e)
	}
}

// repartition moves the centroid of entry empty onto a random vector of donor
// and splits the vectors of both entries between them by nearest distance.
// Ties go to the side holding fewer vectors so far.
func (t *training) repartition(entries []learningEntry, empty, donor int) {
	var members, donorMembers []int
	for i := range t.vectors {
		switch t.vectors[i].entry {
		case donor:
			members = append(members, i)
			donorMembers = append(donorMembers, i)
		case empty:
			members = append(members, i)
		}
	}

	pick := t.vectors[donorMembers[t.opts.rand.Intn(len(donorMembers))]].data
	newCentroid := append([]uint16(nil), pick...)
	donorCentroid := entries[donor].centroid

	donorInfo := newEntryInfo(t.dims)
	emptyInfo := newEntryInfo(t.dims)
	for _, i := range members {
		v := &t.vectors[i]
		dd := t.dist(v.data, donorCentroid)
		de := t.dist(v.data, newCentroid)
		if de < dd || (de == dd && emptyInfo.count < donorInfo.count) {
			v.entry, v.dist = empty, de
			emptyInfo.add(v.data, de)
		} else {
			v.entry, v.dist = donor, dd
			donorInfo.add(v.data, dd)
		}
	}

	entries[empty] = newLearningEntry(newCentroid)
	entries[empty].setStats(&emptyInfo)
	entries[donor].setStats(&donorInfo)
}
