package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// Render writes the summary as aligned text tables, one section per
// heading. It is the default output of a report-enabled run.
func Render(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "== Maxima ==")
	fmt.Fprintf(tw, "max total_laid_off\t%d\n", s.MaxTotalLaidOff)
	fmt.Fprintf(tw, "max percentage_laid_off\t%s\n", strconv.FormatFloat(s.MaxPercentage, 'f', -1, 64))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "== Full-loss events ==")
	fmt.Fprintln(tw, "company\tcountry\tdate\ttotal_laid_off\tfunds_raised_millions")
	for _, e := range s.FullLoss {
		date := ""
		if e.HasDate {
			date = e.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Company, e.Country, date,
			optInt(e.TotalLaidOff, e.HasTotal),
			optInt(e.FundsRaised, e.HasFunds))
	}
	fmt.Fprintln(tw)

	renderGroup(tw, "By company", "company", s.ByCompany)
	renderGroup(tw, "By industry", "industry", s.ByIndustry)
	renderGroup(tw, "By country", "country", s.ByCountry)
	renderGroup(tw, "By stage", "stage", s.ByStage)

	fmt.Fprintln(tw, "== By year ==")
	fmt.Fprintln(tw, "year\ttotal_laid_off")
	for _, y := range s.ByYear {
		fmt.Fprintf(tw, "%d\t%d\n", y.Year, y.Total)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "== Monthly rolling total ==")
	fmt.Fprintln(tw, "month\ttotal\trolling")
	for _, m := range s.Monthly {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", m.Month, m.Total, m.Rolling)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "== Top companies per year ==")
	fmt.Fprintln(tw, "year\trank\tcompany\ttotal_laid_off")
	for _, r := range s.TopCompanies {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\n", r.Year, r.Rank, r.Company, r.Total)
	}

	return tw.Flush()
}

func renderGroup(w io.Writer, title, keyName string, rows []GroupTotal) {
	fmt.Fprintf(w, "== %s ==\n", title)
	fmt.Fprintf(w, "%s\ttotal_laid_off\n", keyName)
	for _, g := range rows {
		key := g.Key
		if key == "" {
			key = "(none)"
		}
		fmt.Fprintf(w, "%s\t%d\n", key, g.Total)
	}
	fmt.Fprintln(w)
}

func optInt(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}
