package quantization

import (
	"math"
	"slices"

	"github.com/hupe1980/vqc/internal/conv"
)

// entryInfo accumulates the vectors assigned to one codebook entry during a
// single assignment pass.
type entryInfo struct {
	count   int
	distSum float64
	sum     []uint64
	min     []uint16
	max     []uint16
}

func newEntryInfo(dims int) entryInfo {
	info := entryInfo{
		sum: make([]uint64, dims),
		min: make([]uint16, dims),
		max: make([]uint16, dims),
	}
	for i := range info.min {
		info.min[i] = math.MaxUint16
	}
	return info
}

func newEntryInfos(n, dims int) []entryInfo {
	infos := make([]entryInfo, n)
	for i := range infos {
		infos[i] = newEntryInfo(dims)
	}
	return infos
}

func (e *entryInfo) add(v []uint16, dist float64) {
	e.count++
	e.distSum += dist
	for i, s := range v {
		e.sum[i] += uint64(s)
		if s < e.min[i] {
			e.min[i] = s
		}
		if s > e.max[i] {
			e.max[i] = s
		}
	}
}

func (e *entryInfo) merge(o *entryInfo) {
	if o.count == 0 {
		return
	}
	e.count += o.count
	e.distSum += o.distSum
	for i := range e.sum {
		e.sum[i] += o.sum[i]
		if o.min[i] < e.min[i] {
			e.min[i] = o.min[i]
		}
		if o.max[i] > e.max[i] {
			e.max[i] = o.max[i]
		}
	}
}

// mergeEntryInfos folds part into acc entry by entry.
func mergeEntryInfos(acc, part []entryInfo) []entryInfo {
	for i := range acc {
		acc[i].merge(&part[i])
	}
	return acc
}

// learningEntry is a codeword under training together with the statistics of
// the vectors assigned to it in the last pass.
type learningEntry struct {
	centroid     []uint16
	count        int
	distortion   float64
	perturbation []float64
}

func newLearningEntry(centroid []uint16) learningEntry {
	return learningEntry{
		centroid:     centroid,
		perturbation: make([]float64, len(centroid)),
	}
}

// update moves the centroid to the rounded mean of the assigned vectors and
// refreshes the statistics. An entry without vectors keeps its centroid.
func (e *learningEntry) update(info *entryInfo) {
	if info.count > 0 {
		n := uint64(info.count)
		for i, s := range info.sum {
			e.centroid[i] = uint16((s + n/2) / n)
		}
	}
	e.setStats(info)
}

// setStats refreshes count, distortion and perturbation without moving the centroid.
func (e *learningEntry) setStats(info *entryInfo) {
	e.count = info.count
	if info.count == 0 {
		e.distortion = 0
		clear(e.perturbation)
		return
	}
	e.distortion = info.distSum / float64(info.count)
	for i := range e.perturbation {
		e.perturbation[i] = float64(info.max[i]-info.min[i]) / 4
	}
}

func (e *learningEntry) clone() learningEntry {
	return learningEntry{
		centroid:     append([]uint16(nil), e.centroid...),
		count:        e.count,
		distortion:   e.distortion,
		perturbation: append([]float64(nil), e.perturbation...),
	}
}

// degenerate reports whether splitting along the perturbation vector would
// produce two identical integer children.
func (e *learningEntry) degenerate() bool {
	for _, p := range e.perturbation {
		if p >= 1 {
			return false
		}
	}
	return true
}

// offset returns centroid + sign*perturbation, truncated and clamped to the sample range.
func (e *learningEntry) offset(sign float64) []uint16 {
	out := make([]uint16, len(e.centroid))
	for i, c := range e.centroid {
		out[i] = conv.ClampUint16(float64(c) + sign*e.perturbation[i])
	}
	return out
}

// floorPerturbation returns the perturbation vector rounded down to samples.
func (e *learningEntry) floorPerturbation() []uint16 {
	out := make([]uint16, len(e.perturbation))
	for i, p := range e.perturbation {
		out[i] = conv.ClampUint16(math.Floor(p))
	}
	return out
}

func cloneEntries(entries []learningEntry) []learningEntry {
	out := make([]learningEntry, len(entries))
	for i := range entries {
		out[i] = entries[i].clone()
	}
	return out
}

// copyCentroids returns deep copies of the entries' centroids.
func copyCentroids(entries []learningEntry) [][]uint16 {
	out := make([][]uint16, len(entries))
	for i := range entries {
		out[i] = append([]uint16(nil), entries[i].centroid...)
	}
	return out
}

// scoredEntries pairs the statistics of an assignment pass with the centroids
// they were measured against: start for every entry, except the moved ones,
// whose statistics already refer to their current centroid.
func scoredEntries(entries []learningEntry, start [][]uint16, moved []int) []learningEntry {
	out := cloneEntries(entries)
	for i := range out {
		if !slices.Contains(moved, i) {
			copy(out[i].centroid, start[i])
		}
	}
	return out
}

func centroids(entries []learningEntry) [][]uint16 {
	out := make([][]uint16, len(entries))
	for i := range entries {
		out[i] = entries[i].centroid
	}
	return out
}

// averageDistortion is the mean of all entries' average distortion.
func averageDistortion(entries []learningEntry) float64 {
	var sum float64
	for i := range entries {
		sum += entries[i].distortion
	}
	return sum / float64(len(entries))
}
