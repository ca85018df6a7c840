package service

import (
	"math/rand"

	"github.com/Kotlang/sampledataGo/logger"
	"github.com/thoas/go-funk"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PriorityKey orders candidate targets: more outstanding quota first, then the tie-break.
type PriorityKey struct {
	Quota int
	Tie   float64
}

func (k PriorityKey) Less(other PriorityKey) bool {
	if k.Quota != other.Quota {
		return k.Quota < other.Quota
	}
	return k.Tie < other.Tie
}

// TieBreaker yields the randomized component of a priority key.
type TieBreaker func() float64

// OrderingPolicy computes the priority key of a candidate target.
type OrderingPolicy func(target primitive.ObjectID) PriorityKey

// SelectByPriority returns the index of the candidate with the greatest key, or -1 for an
// empty pool. The first of equal keys wins.
func SelectByPriority(pool []primitive.ObjectID, policy OrderingPolicy) int {
	best := -1
	var bestKey PriorityKey
	for i, candidate := range pool {
		key := policy(candidate)
		if best < 0 || bestKey.Less(key) {
			best, bestKey = i, key
		}
	}
	return best
}

// QuotaAssigner distributes edges from sources to a fixed target pool while steering
// towards targets with outstanding minimum quota.
type QuotaAssigner struct {
	targets []primitive.ObjectID
	quota   map[primitive.ObjectID]int
	rnd     *rand.Rand
	policy  OrderingPolicy
}

func NewQuotaAssigner(targets []primitive.ObjectID, rnd *rand.Rand) *QuotaAssigner {
	a := &QuotaAssigner{
		targets: append([]primitive.ObjectID{}, targets...),
		quota:   map[primitive.ObjectID]int{},
		rnd:     rnd,
	}
	a.policy = a.QuotaFirst(rnd.Float64)
	return a
}

// WithPolicy replaces the ordering policy used by PickTargets.
func (a *QuotaAssigner) WithPolicy(policy OrderingPolicy) *QuotaAssigner {
	a.policy = policy
	return a
}

// QuotaFirst ranks by outstanding quota, breaking ties with tie.
func (a *QuotaAssigner) QuotaFirst(tie TieBreaker) OrderingPolicy {
	return func(target primitive.ObjectID) PriorityKey {
		return PriorityKey{Quota: a.quota[target], Tie: tie()}
	}
}

func (a *QuotaAssigner) SetQuota(target primitive.ObjectID, n int) {
	if n < 0 {
		n = 0
	}
	a.quota[target] = n
}

func (a *QuotaAssigner) Quota(target primitive.ObjectID) int {
	return a.quota[target]
}

// Outstanding is the sum of every unmet quota.
func (a *QuotaAssigner) Outstanding() int {
	total := 0
	for _, n := range a.quota {
		total += n
	}
	return total
}

// PickTargets chooses k distinct targets for one source, k capped at the pool size.
// Each chosen target's quota drops by one, floored at zero.
func (a *QuotaAssigner) PickTargets(k int) []primitive.ObjectID {
	available := append([]primitive.ObjectID{}, a.targets...)
	a.rnd.Shuffle(len(available), func(i, j int) { available[i], available[j] = available[j], available[i] })

	if k > len(available) {
		k = len(available)
	}
	chosen := make([]primitive.ObjectID, 0, k)
	for len(chosen) < k {
		idx := SelectByPriority(available, a.policy)
		candidate := available[idx]
		available = append(available[:idx], available[idx+1:]...)
		chosen = append(chosen, candidate)
		if a.quota[candidate] > 0 {
			a.quota[candidate]--
		}
	}
	return chosen
}

// TopUp forces extra edges until every quota is met. For each target with quota left it
// links a random source that lacks the target; when no such source remains the rest of the
// quota is reported as a shortfall.
func (a *QuotaAssigner) TopUp(assignments *Assignments) []QuotaShortfall {
	shortfalls := []QuotaShortfall{}
	for _, target := range a.targets {
		for a.quota[target] > 0 {
			eligible := funk.Filter(assignments.Sources(), func(src primitive.ObjectID) bool {
				return !assignments.Has(src, target)
			}).([]primitive.ObjectID)

			if len(eligible) == 0 {
				logger.Warn("Quota left unmet, every source already links the target",
					zap.String("target", target.Hex()), zap.Int("unmet", a.quota[target]))
				shortfalls = append(shortfalls, QuotaShortfall{Target: target, Unmet: a.quota[target]})
				break
			}

			src := eligible[a.rnd.Intn(len(eligible))]
			assignments.Add(src, target)
			a.quota[target]--
		}
	}
	return shortfalls
}

// Assignments is the source -> targets edge set, keeping insertion order.
type Assignments struct {
	sources []primitive.ObjectID
	targets map[primitive.ObjectID][]primitive.ObjectID
}

func NewAssignments() *Assignments {
	return &Assignments{targets: map[primitive.ObjectID][]primitive.ObjectID{}}
}

// AddSource registers src with its initial targets. Duplicate targets are dropped.
func (as *Assignments) AddSource(src primitive.ObjectID, targets []primitive.ObjectID) {
	if _, ok := as.targets[src]; !ok {
		as.sources = append(as.sources, src)
		as.targets[src] = []primitive.ObjectID{}
	}
	for _, target := range targets {
		as.Add(src, target)
	}
}

// Add links src to target. It refuses pairs already present and unknown sources.
func (as *Assignments) Add(src, target primitive.ObjectID) bool {
	current, ok := as.targets[src]
	if !ok || funk.Contains(current, target) {
		return false
	}
	as.targets[src] = append(current, target)
	return true
}

func (as *Assignments) Has(src, target primitive.ObjectID) bool {
	return funk.Contains(as.targets[src], target)
}

func (as *Assignments) Sources() []primitive.ObjectID {
	return as.sources
}

func (as *Assignments) Targets(src primitive.ObjectID) []primitive.ObjectID {
	return as.targets[src]
}

// Edges counts every (source, target) pair.
func (as *Assignments) Edges() int {
	total := 0
	for _, targets := range as.targets {
		total += len(targets)
	}
	return total
}
