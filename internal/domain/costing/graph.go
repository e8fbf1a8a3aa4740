package costing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"procura/internal/core/apperror"
	"procura/internal/core/id"
	"procura/internal/domain/catalogs/unit"
)

var one = decimal.NewFromInt(1)

// Graph is an immutable view of the unit catalog keyed by ID.
// Build a new Graph to change it; readers never observe partial updates.
type Graph struct {
	units map[id.ID]unit.Unit
	order []id.ID
}

// NewGraph indexes units. Duplicate IDs keep the last occurrence.
func NewGraph(units []unit.Unit) *Graph {
	g := &Graph{
		units: make(map[id.ID]unit.Unit, len(units)),
		order: make([]id.ID, 0, len(units)),
	}
	for _, u := range units {
		if _, dup := g.units[u.ID]; !dup {
			g.order = append(g.order, u.ID)
		}
		g.units[u.ID] = u
	}
	return g
}

// FindUnit looks up a unit by ID.
func (g *Graph) FindUnit(unitID id.ID) (unit.Unit, bool) {
	u, ok := g.units[unitID]
	return u, ok
}

// Len returns the number of distinct units.
func (g *Graph) Len() int {
	return len(g.units)
}

// Units returns all units ordered by code, then ID.
func (g *Graph) Units() []unit.Unit {
	out := make([]unit.Unit, 0, len(g.order))
	for _, uid := range g.order {
		out = append(out, g.units[uid])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Path is the result of a successful traversal.
type Path struct {
	// Factor is the product of the conversion factors applied along the way.
	Factor decimal.Decimal
	// Units lists the visited unit IDs from the start unit to the target.
	// Empty when start and target are the same unit.
	Units []id.ID
	// Warnings holds factors that were replaced by 1.
	Warnings []Warning
}

// TraverseUp follows BaseUnitID links from `from` until `to` is reached,
// multiplying conversion factors.
//
// Each unit is visited at most once, so the walk ends after at most Len()
// steps. A non-positive factor counts as 1 and is reported on the path.
// Failures are AppErrors with codes CodeUnitNotFound (start unit or a
// dangling base reference), CodeConversionPathNotFound (reached a base unit)
// or CodeCyclicUnitGraph (details["path"] holds the loop).
func (g *Graph) TraverseUp(from, to id.ID) (Path, error) {
	if from == to {
		return Path{Factor: one}, nil
	}

	cur, ok := g.units[from]
	if !ok {
		return Path{}, apperror.NewConversion(apperror.CodeUnitNotFound, "unit not found").
			WithDetail("unitId", from.String())
	}

	factor := one
	visited := map[id.ID]struct{}{from: {}}
	path := []id.ID{from}
	var warnings []Warning

	for {
		if cur.IsBase() {
			return Path{}, apperror.NewConversion(apperror.CodeConversionPathNotFound, "no conversion path between units").
				WithDetail("from", from.String()).
				WithDetail("to", to.String()).
				WithDetail("path", idStrings(path))
		}

		f := cur.ConversionFactor
		if !f.IsPositive() {
			warnings = append(warnings, Warning{
				Code:    apperror.CodeNonPositiveFactor,
				Message: "conversion factor is not positive, treated as 1",
				Details: map[string]any{"unitId": cur.ID.String(), "factor": f.String()},
			})
			f = one
		}
		factor = factor.Mul(f)

		next := cur.BaseID()
		if _, seen := visited[next]; seen {
			return Path{}, apperror.NewConversion(apperror.CodeCyclicUnitGraph, "unit base references form a cycle").
				WithDetail("from", from.String()).
				WithDetail("path", idStrings(append(path, next)))
		}
		path = append(path, next)

		if next == to {
			return Path{Factor: factor, Units: path, Warnings: warnings}, nil
		}

		visited[next] = struct{}{}
		cur, ok = g.units[next]
		if !ok {
			return Path{}, apperror.NewConversion(apperror.CodeUnitNotFound, "base unit not found").
				WithDetail("unitId", next.String()).
				WithDetail("path", idStrings(path))
		}
	}
}

// Diagnose reports data problems in the whole graph: non-positive factors,
// dangling base references and cycles. Each cycle is reported once.
// Resolution works regardless; this is for operators.
func (g *Graph) Diagnose() []Warning {
	var out []Warning
	seenCycles := make(map[string]struct{})

	for _, u := range g.Units() {
		if u.IsBase() {
			continue
		}

		if !u.ConversionFactor.IsPositive() {
			out = append(out, Warning{
				Code:    apperror.CodeNonPositiveFactor,
				Message: "conversion factor is not positive, treated as 1",
				Details: map[string]any{"unitId": u.ID.String(), "code": u.Code, "factor": u.ConversionFactor.String()},
			})
		}

		if _, ok := g.units[u.BaseID()]; !ok {
			out = append(out, Warning{
				Code:    apperror.CodeUnitNotFound,
				Message: "base unit not found",
				Details: map[string]any{"unitId": u.ID.String(), "code": u.Code, "baseUnitId": u.BaseID().String()},
			})
			continue
		}

		_, err := g.TraverseUp(u.ID, id.Nil())
		if !apperror.HasCode(err, apperror.CodeCyclicUnitGraph) {
			continue
		}
		appErr, _ := apperror.AsAppError(err)
		path, _ := appErr.Details["path"].([]string)
		members := cycleMembers(path)
		key := strings.Join(members, ",")
		if _, dup := seenCycles[key]; dup {
			continue
		}
		seenCycles[key] = struct{}{}
		out = append(out, Warning{
			Code:    apperror.CodeCyclicUnitGraph,
			Message: "unit base references form a cycle",
			Details: map[string]any{"units": members},
		})
	}

	return out
}

// cycleMembers extracts the loop from a traversal path ending at a repeated
// unit, sorted so that every entry point yields the same key.
func cycleMembers(path []string) []string {
	if len(path) < 2 {
		return path
	}
	last := path[len(path)-1]
	start := 0
	for i, p := range path[:len(path)-1] {
		if p == last {
			start = i
			break
		}
	}
	members := append([]string(nil), path[start:len(path)-1]...)
	sort.Strings(members)
	return members
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}
