package scoring

// Input carries the qualification attributes a score is derived from.
// Pointer fields mirror the nullable lead columns; nil means absent.
type Input struct {
	BudgetMin    *int64
	Timeline     *string
	ProjectType  *string
	PropertyType *string
	Source       string
	Email        *string
	Phone        *string
	Description  *string
}

// Scorer computes scores against one weight table. It holds no other state
// and is safe for concurrent use.
type Scorer struct {
	table WeightTable
}

// NewScorer returns a scorer over the given weight table.
func NewScorer(table WeightTable) *Scorer {
	return &Scorer{table: table}
}

// Score returns the lead's priority score together with the per-factor
// breakdown. Only factors that contributed points appear in the breakdown.
// The function is deterministic and performs no I/O; calling it twice with
// the same input yields the same result.
func (s *Scorer) Score(in Input) (int, map[string]int) {
	factors := map[string]int{}

	add := func(name string, points int) {
		if points > 0 {
			factors[name] = points
		}
	}

	add("budget", s.budgetPoints(in.BudgetMin))
	add("timeline", lookup(s.table.Timeline, in.Timeline))
	add("project_type", lookup(s.table.ProjectType, in.ProjectType))
	add("property_type", lookup(s.table.PropertyType, in.PropertyType))
	add("source", s.table.Source[in.Source])

	if present(in.Email) {
		add("email", s.table.Contact.Email)
	}
	if present(in.Phone) {
		add("phone", s.table.Contact.Phone)
	}
	if present(in.Description) {
		add("description", s.table.Contact.Description)
	}

	total := 0
	for _, points := range factors {
		total += points
	}
	return total, factors
}

// budgetPoints awards the first tier whose threshold the minimum budget
// meets. Tiers are held sorted by descending threshold.
func (s *Scorer) budgetPoints(min *int64) int {
	if min == nil || *min <= 0 {
		return 0
	}
	for _, tier := range s.table.Budget.Tiers {
		if *min >= tier.Min {
			return tier.Points
		}
	}
	return 0
}

func lookup(weights map[string]int, value *string) int {
	if value == nil {
		return 0
	}
	return weights[*value]
}

func present(value *string) bool {
	return value != nil && *value != ""
}
