package ga

// Options is the token form of Config, as read from flags or files.
type Options struct {
	ChromosomeSize               int
	PopulationSize               int
	Generations                  int
	Crossover                    string
	ParentSelection              string
	SurvivorSelection            string
	MutationSelectionProbability float64
	MutationGeneProbability      float64
	Min                          float64
	Max                          float64
}

// ParseConfig resolves the operator tokens in o. The result still has to be
// validated, which New does.
func ParseConfig(o Options) (Config, error) {
	crossover, err := ParseCrossover(o.Crossover)
	if err != nil {
		return Config{}, err
	}
	parent, err := ParseSelection(o.ParentSelection)
	if err != nil {
		return Config{}, err
	}
	survivor, err := ParseSelection(o.SurvivorSelection)
	if err != nil {
		return Config{}, err
	}
	return Config{
		ChromosomeSize:    o.ChromosomeSize,
		PopulationSize:    o.PopulationSize,
		Generations:       o.Generations,
		Crossover:         crossover,
		ParentSelection:   parent,
		SurvivorSelection: survivor,
		Mutation: Mutation{
			SelectionProbability: o.MutationSelectionProbability,
			GeneProbability:      o.MutationGeneProbability,
		},
		Bounds: Bounds{Min: o.Min, Max: o.Max},
	}, nil
}
