package stats

import "github.com/echoes-intel/playint/internal/domain"

// DefaultTopN is the number of children kept at each rollup level
const DefaultTopN = 5

// locationTally is the count tree folded from event rows.
// maxSystem is the largest system count across the whole dataset and scales
// the heat color at every level.
type locationTally struct {
	regions   map[string]*regionTally
	maxSystem int
}

type regionTally struct {
	count          int
	constellations map[string]*constellationTally
}

type constellationTally struct {
	count   int
	systems map[string]int
}

func tally(rows []domain.EventRow) locationTally {
	t := locationTally{regions: make(map[string]*regionTally)}

	for _, row := range rows {
		reg, ok := t.regions[row.Region]
		if !ok {
			reg = &regionTally{constellations: make(map[string]*constellationTally)}
			t.regions[row.Region] = reg
		}
		reg.count++

		con, ok := reg.constellations[row.Constellation]
		if !ok {
			con = &constellationTally{systems: make(map[string]int)}
			reg.constellations[row.Constellation] = con
		}
		con.count++

		con.systems[row.System]++
		if n := con.systems[row.System]; n > t.maxSystem {
			t.maxSystem = n
		}
	}
	return t
}

// Aggregate builds the region → constellation → system rollup of rows.
// Each level keeps the topN largest children; a negative topN keeps all.
func Aggregate(rows []domain.EventRow, topN int) []domain.RegionNode {
	t := tally(rows)
	total := len(rows)

	regions := make([]domain.RegionNode, 0, len(t.regions))
	for regionName, reg := range t.regions {
		constellations := make([]domain.ConstellationNode, 0, len(reg.constellations))
		for conName, con := range reg.constellations {
			systems := make([]domain.SystemNode, 0, len(con.systems))
			for sysName, n := range con.systems {
				systems = append(systems, domain.SystemNode{
					Name:    sysName,
					Count:   n,
					Percent: Percent(n, total),
					Color:   HeatColor(n, t.maxSystem),
				})
			}

			constellations = append(constellations, domain.ConstellationNode{
				Name:    conName,
				Count:   con.count,
				Percent: Percent(con.count, total),
				Color:   HeatColor(con.count, t.maxSystem),
				Systems: TopN(systems, topN, systemCount, systemName),
			})
		}

		regions = append(regions, domain.RegionNode{
			Name:           regionName,
			Count:          reg.count,
			Percent:        Percent(reg.count, total),
			Color:          HeatColor(reg.count, t.maxSystem),
			Constellations: TopN(constellations, topN, constellationCount, constellationName),
		})
	}

	return TopN(regions, topN, regionCount, regionName)
}

// FilterByDate keeps rows whose timestamp falls in r. With no bound set the
// rows are returned as-is; otherwise rows without a parseable timestamp are dropped.
func FilterByDate(rows []domain.EventRow, r domain.DateRange) []domain.EventRow {
	if !r.Active() {
		return rows
	}
	out := make([]domain.EventRow, 0, len(rows))
	for _, row := range rows {
		if !row.HasTime {
			continue
		}
		if r.Contains(row.OccurredAt) {
			out = append(out, row)
		}
	}
	return out
}

func systemCount(n domain.SystemNode) int { return n.Count }

func systemName(n domain.SystemNode) string { return n.Name }

func constellationCount(n domain.ConstellationNode) int { return n.Count }

func constellationName(n domain.ConstellationNode) string { return n.Name }

func regionCount(n domain.RegionNode) int { return n.Count }

func regionName(n domain.RegionNode) string { return n.Name }
