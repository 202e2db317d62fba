// Package report renders engine results as text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"

	"github.com/timo-eberl/spotify-history-analysis/internal/app/analysis"
	"github.com/timo-eberl/spotify-history-analysis/internal/app/enrich"
	"github.com/timo-eberl/spotify-history-analysis/internal/domain/rank"
)

// Render writes the full analysis report. The genres map may be nil when
// enrichment is disabled or degraded; the genre section is then omitted.
func Render(w io.Writer, res *analysis.Result, genres map[string][]string) error {
	fmt.Fprintf(w, "History analysis from %s to %s\n",
		res.Window.Start.Format(time.DateOnly), res.Window.End.Format(time.DateOnly))
	fmt.Fprintf(w, "Events analyzed: %d\n", res.EventCount)
	fmt.Fprintf(w, "Total listening time: %s\n", fmtHours(res.TotalPlaytime))

	sections := []struct {
		title  string
		render func(io.Writer) error
	}{
		{"Top songs by playtime", func(w io.Writer) error {
			return renderStringRanking(w, res.TopTracksByPlaytime, "Song", "Minutes", true)
		}},
		{"Top songs by play count (excluding skipped plays)", func(w io.Writer) error {
			return renderStringRanking(w, res.TopTracksByPlayCount, "Song", "Plays", false)
		}},
		{"Top songs in incognito mode by play count", func(w io.Writer) error {
			return renderStringRanking(w, res.TopIncognitoTracks, "Song", "Plays", false)
		}},
		{"Most skipped songs", func(w io.Writer) error {
			return renderStringRanking(w, res.MostSkipped, "Song", "Skips", false)
		}},
		{"Top artists by playtime", func(w io.Writer) error {
			return renderStringRanking(w, res.TopArtistsByPlaytime, "Artist", "Minutes", true)
		}},
		{"Longest listening streaks", func(w io.Writer) error {
			return renderStreaks(w, res)
		}},
		{"Listening streaks over duration thresholds", func(w io.Writer) error {
			return renderThresholds(w, res.StreakThresholds)
		}},
		{"Listening time by hour of day", func(w io.Writer) error {
			return renderHours(w, res.PlaytimeByHour)
		}},
		{"Average listening time by month of year", func(w io.Writer) error {
			return renderMonths(w, res.AvgPlaytimeByMonth)
		}},
		{"Monthly highlights", func(w io.Writer) error {
			return renderMonthly(w, res.Monthly)
		}},
		{"Most plays of a single song in one day", func(w io.Writer) error {
			return renderSingleDay(w, res.TopSingleDayPlays)
		}},
		{"Most plays of a single song in one week", func(w io.Writer) error {
			return renderSingleWeek(w, res.TopSingleWeekPlays)
		}},
		{"Songs often listened to together", func(w io.Writer) error {
			return renderCoListens(w, res)
		}},
	}

	for _, section := range sections {
		fmt.Fprintf(w, "\n%s:\n", section.title)
		if err := section.render(w); err != nil {
			return errors.Wrapf(err, "rendering section %q", section.title)
		}
	}

	fmt.Fprintf(w, "\nUnique artists in window: %d\n", res.UniqueArtists)
	fmt.Fprintf(w, "Unique songs in window: %d\n", res.UniqueTracks)

	if len(genres) > 0 {
		fmt.Fprintf(w, "\nGenres across top artists:\n")
		if err := renderStringRanking(w, enrich.GenreBreakdown(genres, len(res.TopArtistsByPlaytime)), "Genre", "Artists", false); err != nil {
			return errors.Wrap(err, "rendering genre section")
		}
	}

	return nil
}

func renderStringRanking(w io.Writer, entries []rank.Entry[string], itemHeader, metricHeader string, metricIsMillis bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", itemHeader, metricHeader})
	for i, entry := range entries {
		metric := strconv.FormatInt(entry.Metric, 10)
		if metricIsMillis {
			metric = fmtMinutes(time.Duration(entry.Metric) * time.Millisecond)
		}
		if err := table.Append([]string{strconv.Itoa(i + 1), entry.Item, metric}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderStreaks(w io.Writer, res *analysis.Result) error {
	if res.LongestStreak != nil {
		fmt.Fprintf(w, "Longest by playtime: %s played over %d songs, starting %s\n",
			fmtHours(res.LongestStreak.TotalPlayed),
			len(res.LongestStreak.Events),
			res.LongestStreak.Start.Format("2006-01-02 15:04"))
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Duration", "From", "To"})
	for i, streak := range res.TopStreaks {
		err := table.Append([]string{
			strconv.Itoa(i + 1),
			fmtHours(streak.Span()),
			streak.Start.Format("2006-01-02 15:04"),
			streak.End.Format("2006-01-02 15:04"),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderThresholds(w io.Writer, thresholds []analysis.StreakThreshold) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Threshold", "Count"})
	for _, th := range thresholds {
		if err := table.Append([]string{fmtHours(th.Min), strconv.Itoa(th.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderHours(w io.Writer, hist analysis.HourHistogram) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Hour", "Minutes"})
	for hour, total := range hist {
		if err := table.Append([]string{fmt.Sprintf("%02d:00", hour), fmtMinutes(total)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderMonths(w io.Writer, hist analysis.MonthHistogram) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "Avg Minutes"})
	for i, total := range hist {
		month := time.Month(i + 1).String()
		if err := table.Append([]string{month, fmtMinutes(total)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderMonthly(w io.Writer, months []analysis.MonthlyHighlight) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "Favorite Song", "Minutes", "Unique Artists", "Unique Songs"})
	for _, m := range months {
		err := table.Append([]string{
			m.Month,
			m.FavoriteTrack,
			fmtMinutes(m.FavoritePlaytime),
			strconv.Itoa(m.UniqueArtists),
			strconv.Itoa(m.UniqueTracks),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderSingleDay(w io.Writer, entries []rank.Entry[analysis.TrackDay]) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Plays", "Song", "Day"})
	for _, entry := range entries {
		err := table.Append([]string{
			strconv.FormatInt(entry.Metric, 10),
			entry.Item.Track,
			entry.Item.Day.Format(time.DateOnly),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderSingleWeek(w io.Writer, entries []rank.Entry[analysis.TrackWeek]) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Plays", "Song", "Week"})
	for _, entry := range entries {
		err := table.Append([]string{
			strconv.FormatInt(entry.Metric, 10),
			entry.Item.Track,
			fmt.Sprintf("week %d of %d", entry.Item.Week, entry.Item.Year),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderCoListens(w io.Writer, res *analysis.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Pair", "Together"})
	for _, entry := range res.TopCoListens {
		if err := table.Append([]string{entry.Item.ID(), strconv.FormatInt(entry.Metric, 10)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	// neighbor lists for the top songs
	for _, top := range res.TopTracksByPlaytime {
		neighbors := analysis.Neighbors(res.CoListenCounts, top.Item, 3)
		if len(neighbors) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", top.Item)
		for _, n := range neighbors {
			fmt.Fprintf(w, "  - %s (%d times)\n", n.Item, n.Metric)
		}
	}
	return nil
}

func fmtMinutes(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Minutes())
}

func fmtHours(d time.Duration) string {
	total := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
