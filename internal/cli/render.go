package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/matchcast/internal/domain/types"
)

const percentageMultiplier = 100

type renderer struct {
	w      io.Writer
	output string
}

func newRenderer(w io.Writer, output string) *renderer {
	return &renderer{w: w, output: output}
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) table(header string, rows func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*percentageMultiplier)
}

func (r *renderer) health() error {
	if r.output == OutputJSON {
		return r.writeJSON(map[string]string{"status": "ok"})
	}
	_, err := fmt.Fprintln(r.w, "ok")
	return err
}

func (r *renderer) competitions(list []types.CompetitionEntry) error {
	if r.output == OutputJSON {
		return r.writeJSON(list)
	}
	return r.table("CODE\tNAME", func(tw *tabwriter.Writer) {
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\n", c.Code, c.Name)
		}
	})
}

func (r *renderer) matches(list []types.MatchSummary) error {
	if r.output == OutputJSON {
		return r.writeJSON(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(r.w, "no matches available")
		return err
	}
	return r.table("ID\tSTATUS\tMATCH", func(tw *tabwriter.Writer) {
		for _, m := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, m.Status, m.Label)
		}
	})
}

func (r *renderer) formRows(rows []types.FormRow) {
	_ = r.table("DATE\tOPPONENT\tRESULT\tSCORE", func(tw *tabwriter.Writer) {
		for _, row := range rows {
			result := string(row.Outcome)
			if result == "" {
				result = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Date, row.Opponent, result, row.Score)
		}
	})
}

func (r *renderer) insight(in types.MatchInsight) error {
	if r.output == OutputJSON {
		return r.writeJSON(in)
	}
	p := in.Prediction
	home, away := in.HomeTeam.DisplayName(), in.AwayTeam.DisplayName()

	fmt.Fprintf(r.w, "%s vs %s\n", home, away)
	fmt.Fprintf(r.w, "Kickoff:   %s UTC (%s)\n", in.Kickoff, in.Status)
	fmt.Fprintf(r.w, "Venue:     %s (%.4f, %.4f)\n", in.Venue.Query, in.Venue.Lat, in.Venue.Lng)
	fmt.Fprintf(r.w, "Weather:   %s, %.1f °C, humidity %d%%\n",
		in.Weather.Description, in.Weather.TemperatureC, in.Weather.Humidity)
	fmt.Fprintf(r.w, "xG:        %.2f - %.2f", p.Rates.Home, p.Rates.Away)
	if p.WeatherDampened {
		fmt.Fprint(r.w, " (weather dampened)")
	}
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "Outcome:   %s %s | draw %s | %s %s\n",
		home, pct(p.Outcome.Home), pct(p.Outcome.Draw), away, pct(p.Outcome.Away))
	fmt.Fprintf(r.w, "Scoreline: %d - %d\n\n", p.Scoreline.Home, p.Scoreline.Away)

	fmt.Fprintf(r.w, "%s recent form\n", home)
	r.formRows(in.HomeRecent)
	fmt.Fprintf(r.w, "\n%s recent form\n", away)
	r.formRows(in.AwayRecent)
	return nil
}

func (r *renderer) form(tf types.TeamForm) error {
	if r.output == OutputJSON {
		return r.writeJSON(tf)
	}
	s := tf.Summary
	fmt.Fprintf(r.w, "Team %d over %d matches: GF %.2f  GA %.2f  PPG %.2f  form %+.2f\n\n",
		tf.TeamID, s.Matches, s.GoalsForPerGame, s.GoalsAgainstPerGame, s.PointsPerGame, s.FormValue)
	r.formRows(tf.Table)
	return nil
}

func (r *renderer) slate(entries []SlateEntry) error {
	if r.output == OutputJSON {
		return r.writeJSON(entries)
	}
	return r.table("ID\tMATCH\tHOME\tDRAW\tAWAY\tSCORE\tWEATHER", func(tw *tabwriter.Writer) {
		for _, e := range entries {
			if e.Error != "" {
				fmt.Fprintf(tw, "%d\t%s\terror: %s\t\t\t\t\n", e.MatchID, e.Label, e.Error)
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.MatchID, e.Label, pct(e.Home), pct(e.Draw), pct(e.Away), e.Score, e.Weather)
		}
	})
}
