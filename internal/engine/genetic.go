package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/piwi3910/BoxPack/internal/model"
)

// GeneticConfig holds parameters for the ordering search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// SearchResult is the best ordering found and the packing it produces.
type SearchResult struct {
	Order   []model.Item
	Result  model.PackingResult
	Fitness float64
}

// chromosome is a permutation of item indices.
type chromosome struct {
	genes   []int
	fitness float64
}

type orderingSearch struct {
	config    GeneticConfig
	container model.Container
	items     []model.Item
	rng       *rand.Rand
}

// SearchOrdering runs a seeded genetic search over item orderings and
// returns the one whose packing places the most volume. The same seed and
// inputs always give the same answer.
func SearchOrdering(container model.Container, items []model.Item, config GeneticConfig) (SearchResult, error) {
	if !container.Valid() {
		return SearchResult{}, fmt.Errorf("%w: %gx%gx%g", ErrInvalidContainer,
			container.Width, container.Height, container.Depth)
	}
	if config.PopulationSize < 2 {
		config.PopulationSize = 2
	}
	if config.TournamentSize < 1 {
		config.TournamentSize = 1
	}

	s := &orderingSearch{
		config:    config,
		container: container,
		items:     items,
		rng:       rand.New(rand.NewSource(config.Seed)),
	}
	best := s.run()

	order := s.decode(best)
	result, err := Pack(container, order)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Order: order, Result: result, Fitness: best.fitness}, nil
}

func (s *orderingSearch) run() chromosome {
	population := s.initPopulation()
	for i := range population {
		population[i].fitness = s.evaluate(population[i])
	}
	if len(s.items) < 2 {
		return population[0]
	}

	for gen := 0; gen < s.config.Generations; gen++ {
		sortByFitness(population)

		newPop := make([]chromosome, 0, s.config.PopulationSize)

		eliteCount := s.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, population[i].clone())
		}

		for len(newPop) < s.config.PopulationSize {
			p1 := s.tournamentSelect(population)
			p2 := s.tournamentSelect(population)

			child := s.orderCrossover(p1, p2)
			s.mutate(&child)

			child.fitness = s.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sortByFitness(population)
	return population[0]
}

// initPopulation seeds the caller's order and the volume-descending order,
// then fills the rest with random permutations.
func (s *orderingSearch) initPopulation() []chromosome {
	n := len(s.items)
	population := make([]chromosome, s.config.PopulationSize)

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	population[0] = chromosome{genes: identity}

	byVolume := append([]int(nil), identity...)
	sort.SliceStable(byVolume, func(i, j int) bool {
		return s.items[byVolume[i]].BoundingDims().Volume() > s.items[byVolume[j]].BoundingDims().Volume()
	})
	population[1] = chromosome{genes: byVolume}

	for i := 2; i < len(population); i++ {
		population[i] = chromosome{genes: s.rng.Perm(n)}
	}
	return population
}

// evaluate scores an ordering by its utilization, with a small bonus per
// placed item so that equal volume with more items wins.
func (s *orderingSearch) evaluate(c chromosome) float64 {
	result, err := Pack(s.container, s.decode(c))
	if err != nil {
		return 0
	}
	bonus := 0.0
	if len(s.items) > 0 {
		bonus = 0.001 * float64(len(result.Placed)) / float64(len(s.items))
	}
	return result.Utilization + bonus
}

func (s *orderingSearch) decode(c chromosome) []model.Item {
	out := make([]model.Item, len(c.genes))
	for i, idx := range c.genes {
		out[i] = s.items[idx]
	}
	return out
}

func (s *orderingSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[s.rng.Intn(len(population))]
	for i := 1; i < s.config.TournamentSize; i++ {
		candidate := population[s.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best.clone()
}

// orderCrossover is OX1: keep a slice of parent1 and fill the remaining
// positions with parent2's genes in their original order.
func (s *orderingSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return parent1.clone()
	}

	point1 := s.rng.Intn(n)
	point2 := s.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}
	inSegment := make(map[int]bool, point2-point1+1)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, g := range parent2.genes {
		if !inSegment[g] {
			child.genes[childIdx] = g
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

func (s *orderingSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	// Swap
	if s.rng.Float64() < s.config.MutationRate {
		i, j := s.rng.Intn(n), s.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion, half as often
	if s.rng.Float64() < s.config.MutationRate*0.5 {
		i, j := s.rng.Intn(n), s.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (c chromosome) clone() chromosome {
	return chromosome{genes: append([]int(nil), c.genes...), fitness: c.fitness}
}

// sortByFitness sorts descending. Stable so ties keep population order.
func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}
