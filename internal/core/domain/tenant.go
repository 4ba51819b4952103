package domain

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// FreePlanNoteLimit is the maximum number of notes a free-plan tenant may hold.
const FreePlanNoteLimit = 3

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// ParsePlan converts a raw string into a Plan, defaulting invalid input to free.
func ParsePlan(s string) Plan {
	if p := Plan(s); p.Valid() {
		return p
	}
	return PlanFree
}

// Tenant is an isolated organization; the unit of data partitioning.
// Every note and user belongs to exactly one tenant.
type Tenant struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	Plan Plan   `json:"plan"`
}

// CanCreateNote reports whether a tenant at noteCount notes may create another.
func (t *Tenant) CanCreateNote(noteCount int64) bool {
	if t.Plan == PlanPro {
		return true
	}
	return noteCount < FreePlanNoteLimit
}
