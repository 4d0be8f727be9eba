// Package report builds the read-only aggregate views over the cleaned
// layoff records: dataset maxima, full-loss events, grouped totals, monthly
// rolling totals, and a per-year company ranking.
//
// The sections are independent, so Build computes them concurrently. All
// aggregation happens in memory over the cleaned record slice; nothing here
// touches storage.
package report

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"layoffs/pkg/records"
)

// DefaultTopN is the per-year company ranking cutoff when the config does
// not set one.
const DefaultTopN = 5

// Summary is the full report over one cleaned dataset.
type Summary struct {
	// MaxTotalLaidOff is the largest single-event layoff count.
	MaxTotalLaidOff int
	// MaxPercentage is the largest percentage_laid_off value (1 means the
	// whole company).
	MaxPercentage float64

	// FullLoss lists events where the entire workforce was laid off,
	// ordered by layoff count descending, then funds raised descending.
	FullLoss []Event

	// ByCompany, ByIndustry, ByCountry, ByStage are layoff totals grouped
	// by the respective column, ordered by total descending then key
	// ascending.
	ByCompany  []GroupTotal
	ByIndustry []GroupTotal
	ByCountry  []GroupTotal
	ByStage    []GroupTotal

	// ByYear is the layoff total per calendar year, most recent first.
	ByYear []YearTotal

	// Monthly is the per-month total plus a running cumulative sum, in
	// chronological order.
	Monthly []MonthTotal

	// TopCompanies ranks companies by layoff total within each year using
	// dense ranks. Ties at the cutoff are kept, so a year may list more
	// than TopN companies.
	TopCompanies []CompanyYearRank
}

// Event is one layoff event as it appears in report sections.
type Event struct {
	Company  string
	Location string
	Industry string

	TotalLaidOff int
	HasTotal     bool

	PercentageLaidOff float64

	Date    time.Time
	HasDate bool

	Stage   string
	Country string

	FundsRaised int
	HasFunds    bool
}

// GroupTotal is a layoff sum for one grouping key.
type GroupTotal struct {
	Key   string
	Total int
}

// YearTotal is a layoff sum for one calendar year.
type YearTotal struct {
	Year  int
	Total int
}

// MonthTotal is a layoff sum for one calendar month plus the cumulative sum
// of all months up to and including it.
type MonthTotal struct {
	// Month is formatted "2006-01".
	Month   string
	Total   int
	Rolling int
}

// CompanyYearRank is one row of the per-year company ranking.
type CompanyYearRank struct {
	Year    int
	Company string
	Total   int
	Rank    int
}

// Build computes all report sections over the cleaned records. topN caps the
// per-year company ranking; values < 1 fall back to DefaultTopN.
//
// Records missing event_date are excluded from the time-based sections but
// still count toward the others. Records missing total_laid_off contribute
// nothing to sums but are still visible in FullLoss when their percentage
// says the whole company went.
func Build(ctx context.Context, recs []records.Record, topN int) (*Summary, error) {
	if topN < 1 {
		topN = DefaultTopN
	}

	s := &Summary{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.MaxTotalLaidOff, s.MaxPercentage = maxima(recs)
		return nil
	})
	g.Go(func() error {
		s.FullLoss = fullLoss(recs)
		return nil
	})
	g.Go(func() error {
		s.ByCompany = groupTotals(recs, records.FieldCompany)
		return nil
	})
	g.Go(func() error {
		s.ByIndustry = groupTotals(recs, records.FieldIndustry)
		return nil
	})
	g.Go(func() error {
		s.ByCountry = groupTotals(recs, records.FieldCountry)
		return nil
	})
	g.Go(func() error {
		s.ByStage = groupTotals(recs, records.FieldStage)
		return nil
	})
	g.Go(func() error {
		s.ByYear = yearTotals(recs)
		return nil
	})
	g.Go(func() error {
		s.Monthly = monthlyRolling(recs)
		return nil
	})
	g.Go(func() error {
		s.TopCompanies = topCompaniesPerYear(recs, topN)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

func maxima(recs []records.Record) (maxTotal int, maxPct float64) {
	for _, r := range recs {
		if n, ok := r.Int(records.FieldTotalLaidOff); ok && n > maxTotal {
			maxTotal = n
		}
		if p, ok := r.Float(records.FieldPercentageLaidOff); ok && p > maxPct {
			maxPct = p
		}
	}
	return maxTotal, maxPct
}

// fullLoss selects events where percentage_laid_off is 1 (the whole
// company). Missing counts sort after present ones.
func fullLoss(recs []records.Record) []Event {
	var out []Event
	for _, r := range recs {
		p, ok := r.Float(records.FieldPercentageLaidOff)
		if !ok || p != 1 {
			continue
		}
		out = append(out, eventFromRecord(r))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		at, bt := sortableInt(a.TotalLaidOff, a.HasTotal), sortableInt(b.TotalLaidOff, b.HasTotal)
		if at != bt {
			return at > bt
		}
		af, bf := sortableInt(a.FundsRaised, a.HasFunds), sortableInt(b.FundsRaised, b.HasFunds)
		return af > bf
	})
	return out
}

// sortableInt maps a possibly-missing value onto a total order where
// missing sorts after every present value.
func sortableInt(v int, ok bool) int {
	if !ok {
		return -1
	}
	return v
}

func eventFromRecord(r records.Record) Event {
	var e Event
	e.Company, _ = r.String(records.FieldCompany)
	e.Location, _ = r.String(records.FieldLocation)
	e.Industry, _ = r.String(records.FieldIndustry)
	e.Stage, _ = r.String(records.FieldStage)
	e.Country, _ = r.String(records.FieldCountry)
	e.TotalLaidOff, e.HasTotal = r.Int(records.FieldTotalLaidOff)
	e.PercentageLaidOff, _ = r.Float(records.FieldPercentageLaidOff)
	e.Date, e.HasDate = r.Time(records.FieldEventDate)
	e.FundsRaised, e.HasFunds = r.Int(records.FieldFundsRaisedMillions)
	return e
}

// groupTotals sums total_laid_off per distinct value of field. Records with
// a missing key are grouped under the empty string; records with a missing
// total contribute zero but still surface their group.
func groupTotals(recs []records.Record, field string) []GroupTotal {
	sums := make(map[string]int)
	for _, r := range recs {
		key, _ := r.String(field)
		n, _ := r.Int(records.FieldTotalLaidOff)
		sums[key] += n
	}

	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func yearTotals(recs []records.Record) []YearTotal {
	sums := make(map[int]int)
	for _, r := range recs {
		t, ok := r.Time(records.FieldEventDate)
		if !ok {
			continue
		}
		n, _ := r.Int(records.FieldTotalLaidOff)
		sums[t.Year()] += n
	}

	out := make([]YearTotal, 0, len(sums))
	for y, v := range sums {
		out = append(out, YearTotal{Year: y, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func monthlyRolling(recs []records.Record) []MonthTotal {
	sums := make(map[string]int)
	for _, r := range recs {
		t, ok := r.Time(records.FieldEventDate)
		if !ok {
			continue
		}
		n, _ := r.Int(records.FieldTotalLaidOff)
		sums[t.Format("2006-01")] += n
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthTotal, 0, len(months))
	running := 0
	for _, m := range months {
		running += sums[m]
		out = append(out, MonthTotal{Month: m, Total: sums[m], Rolling: running})
	}
	return out
}

// topCompaniesPerYear ranks companies by layoff total within each year.
// Ranks are dense: companies with equal totals share a rank and the next
// distinct total gets the next rank, so ties at the cutoff survive it.
func topCompaniesPerYear(recs []records.Record, topN int) []CompanyYearRank {
	type yc struct {
		year    int
		company string
	}
	sums := make(map[yc]int)
	for _, r := range recs {
		t, ok := r.Time(records.FieldEventDate)
		if !ok {
			continue
		}
		company, _ := r.String(records.FieldCompany)
		n, _ := r.Int(records.FieldTotalLaidOff)
		sums[yc{t.Year(), company}] += n
	}

	perYear := make(map[int][]CompanyYearRank)
	for k, v := range sums {
		perYear[k.year] = append(perYear[k.year], CompanyYearRank{
			Year: k.year, Company: k.company, Total: v,
		})
	}

	years := make([]int, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []CompanyYearRank
	for _, y := range years {
		rows := perYear[y]
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Total != rows[j].Total {
				return rows[i].Total > rows[j].Total
			}
			return rows[i].Company < rows[j].Company
		})

		rank := 0
		prevTotal := -1
		for i := range rows {
			if i == 0 || rows[i].Total != prevTotal {
				rank++
				prevTotal = rows[i].Total
			}
			if rank > topN {
				break
			}
			rows[i].Rank = rank
			out = append(out, rows[i])
		}
	}
	return out
}
