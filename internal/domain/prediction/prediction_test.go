package prediction_test

import (
	"math"
	"testing"

	"github.com/okian/matchcast/internal/domain/form"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func summary(gf, ga float64) form.Summary {
	return form.Summary{GoalsForPerGame: gf, GoalsAgainstPerGame: ga, PointsPerGame: 1.5, Matches: 5}
}

func TestEstimate(t *testing.T) {
	Convey("Given a strong home side and a weaker away side", t, func() {
		home := summary(2.0, 1.0)
		away := summary(1.0, 1.5)

		Convey("When the weather is clear", func() {
			r := prediction.Estimate(home, away, "clear")

			Convey("Then the home rate should blend attack and defence with home advantage", func() {
				So(r.Home, ShouldAlmostEqual, (0.65*2.0+0.35*1.5)*1.12, tolerance)
				So(r.Home, ShouldAlmostEqual, 2.044, tolerance)
			})

			Convey("And the away rate should carry no advantage", func() {
				So(r.Away, ShouldAlmostEqual, 1.0, tolerance)
			})
		})

		Convey("When it rains", func() {
			clear := prediction.Estimate(home, away, "clear")
			wet := prediction.Estimate(home, away, "rain shower")

			Convey("Then both rates should be dampened by 5%", func() {
				So(wet.Home, ShouldAlmostEqual, 0.95*clear.Home, tolerance)
				So(wet.Away, ShouldAlmostEqual, 0.95*clear.Away, tolerance)
			})
		})

		Convey("When the first word is capitalised snow", func() {
			clear := prediction.Estimate(home, away, "clear")
			snow := prediction.Estimate(home, away, "Snow")

			Convey("Then matching should be case-insensitive", func() {
				So(snow.Home, ShouldAlmostEqual, 0.95*clear.Home, tolerance)
			})
		})

		Convey("When rain is not the first word", func() {
			clear := prediction.Estimate(home, away, "clear")
			light := prediction.Estimate(home, away, "light rain")

			Convey("Then no dampening should apply", func() {
				So(light, ShouldResemble, clear)
			})
		})
	})

	Convey("Given teams that never score", t, func() {
		zero := summary(0, 0)

		Convey("Then rates should be floored", func() {
			r := prediction.Estimate(zero, zero, "clear")
			So(r.Home, ShouldAlmostEqual, 0.2*1.12, tolerance)
			So(r.Away, ShouldAlmostEqual, prediction.MinRate, tolerance)
		})

		Convey("And the floor should still hold in snow", func() {
			r := prediction.Estimate(zero, zero, "snow")
			So(r.Away, ShouldEqual, prediction.MinRate)
			So(r.Home, ShouldBeGreaterThanOrEqualTo, prediction.MinRate)
		})
	})

	Convey("Given extreme attacking form", t, func() {
		strong := summary(9.0, 8.0)

		Convey("Then rates should be capped", func() {
			r := prediction.Estimate(strong, strong, "clear")
			So(r.Home, ShouldEqual, prediction.MaxRate)
			So(r.Away, ShouldEqual, prediction.MaxRate)
		})
	})

	Convey("Given a grid of form inputs", t, func() {
		Convey("Then every rate should stay within bounds", func() {
			for _, gf := range []float64{0, 0.3, 1.2, 2.5, 6} {
				for _, ga := range []float64{0, 0.7, 1.1, 4} {
					for _, w := range []string{"", "clear", "rain", "snow storm"} {
						r := prediction.Estimate(summary(gf, ga), summary(ga, gf), w)
						So(r.Home, ShouldBeBetweenOrEqual, prediction.MinRate, prediction.MaxRate)
						So(r.Away, ShouldBeBetweenOrEqual, prediction.MinRate, prediction.MaxRate)
					}
				}
			}
		})
	})
}

func TestIsAdverseWeather(t *testing.T) {
	Convey("Given weather descriptions", t, func() {
		So(prediction.IsAdverseWeather("rain"), ShouldBeTrue)
		So(prediction.IsAdverseWeather("  RAIN and wind"), ShouldBeTrue)
		So(prediction.IsAdverseWeather("snow"), ShouldBeTrue)
		So(prediction.IsAdverseWeather("light rain"), ShouldBeFalse)
		So(prediction.IsAdverseWeather("rainy"), ShouldBeFalse)
		So(prediction.IsAdverseWeather(""), ShouldBeFalse)
		So(prediction.IsAdverseWeather("unknown"), ShouldBeFalse)
	})
}

func finished(homeID, awayID, hg, ag int) model.Match {
	w := model.WinnerDraw
	switch {
	case hg > ag:
		w = model.WinnerHome
	case ag > hg:
		w = model.WinnerAway
	}
	return model.Match{
		HomeTeam: model.Team{ID: homeID},
		AwayTeam: model.Team{ID: awayID},
		Score: model.Score{
			Winner:   model.WinnerOf(w),
			FullTime: &model.FullTime{Home: model.Goals(hg), Away: model.Goals(ag)},
		},
	}
}

func TestEngine_PredictFromForm(t *testing.T) {
	Convey("Given the default engine", t, func() {
		e := prediction.New()

		Convey("When the home side has materially higher expected goals", func() {
			p, err := e.PredictFromForm(summary(2.0, 1.0), summary(1.0, 1.5), "clear")

			Convey("Then the home win should be more likely than the away win", func() {
				So(err, ShouldBeNil)
				So(p.Rates.Home, ShouldAlmostEqual, 2.044, tolerance)
				So(p.Rates.Away, ShouldAlmostEqual, 1.0, tolerance)
				So(p.Outcome.Home, ShouldBeGreaterThan, p.Outcome.Away)
			})

			Convey("And the probabilities should sum to one", func() {
				So(p.Outcome.Home+p.Outcome.Draw+p.Outcome.Away, ShouldAlmostEqual, 1.0, tolerance)
			})

			Convey("And the grid should use the default cap", func() {
				So(p.Grid, ShouldHaveLength, 7)
				So(p.WeatherDampened, ShouldBeFalse)
			})

			Convey("And the scoreline should be the grid maximum", func() {
				best := p.Grid[p.Scoreline.Home][p.Scoreline.Away]
				for _, row := range p.Grid {
					for _, v := range row {
						So(v, ShouldBeLessThanOrEqualTo, best)
					}
				}
			})
		})

		Convey("When the weather is adverse", func() {
			p, err := e.PredictFromForm(form.DefaultSummary, form.DefaultSummary, "snow")

			Convey("Then the prediction should be flagged", func() {
				So(err, ShouldBeNil)
				So(p.WeatherDampened, ShouldBeTrue)
			})
		})
	})
}

func TestEngine_Predict(t *testing.T) {
	Convey("Given raw match windows", t, func() {
		const home, away = 1, 2
		homeMatches := []model.Match{
			finished(home, 10, 3, 0),
			finished(11, home, 1, 2),
			finished(home, 12, 2, 2),
		}

		Convey("When the away side has no history", func() {
			p, err := prediction.New().Predict(prediction.Input{
				HomeTeamID:  home,
				AwayTeamID:  away,
				HomeMatches: homeMatches,
				Weather:     "clear",
			})

			Convey("Then it should use the default summary", func() {
				So(err, ShouldBeNil)
				So(p.AwayForm, ShouldResemble, form.DefaultSummary)
				So(p.HomeForm.Matches, ShouldEqual, 3)
				So(p.HomeForm.GoalsForPerGame, ShouldAlmostEqual, 7.0/3.0, tolerance)
			})
		})

		Convey("When the form window is smaller than the history", func() {
			e := prediction.New(prediction.WithFormWindow(1))
			p, err := e.Predict(prediction.Input{HomeTeamID: home, AwayTeamID: away, HomeMatches: homeMatches})

			Convey("Then only the most recent matches should count", func() {
				So(err, ShouldBeNil)
				So(p.HomeForm.Matches, ShouldEqual, 1)
				So(p.HomeForm.GoalsForPerGame, ShouldEqual, 3.0)
				So(e.FormWindow(), ShouldEqual, 1)
			})
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given engine options", t, func() {
		Convey("When the cap and advantage are set", func() {
			e := prediction.New(prediction.WithMaxGoals(10), prediction.WithHomeAdvantage(1.0))
			p, err := e.PredictFromForm(summary(1.0, 1.0), summary(1.0, 1.0), "clear")

			Convey("Then the grid and rates should follow them", func() {
				So(err, ShouldBeNil)
				So(e.MaxGoals(), ShouldEqual, 10)
				So(p.Grid, ShouldHaveLength, 11)
				So(p.Rates.Home, ShouldAlmostEqual, p.Rates.Away, tolerance)
				So(math.Abs(p.Outcome.Home-p.Outcome.Away), ShouldBeLessThan, 1e-9)
			})
		})

		Convey("When invalid values are given", func() {
			e := prediction.New(prediction.WithMaxGoals(0), prediction.WithHomeAdvantage(-1), prediction.WithFormWindow(-2))

			Convey("Then the defaults should be kept", func() {
				So(e.MaxGoals(), ShouldEqual, 6)
				So(e.FormWindow(), ShouldEqual, prediction.DefaultFormWindow)
			})
		})

		Convey("When the cap is far above the supported limit", func() {
			e := prediction.New(prediction.WithMaxGoals(700))
			p, err := e.PredictFromForm(summary(5.0, 5.0), summary(5.0, 5.0), "clear")

			Convey("Then the default cap should be kept and probabilities stay finite", func() {
				So(err, ShouldBeNil)
				So(e.MaxGoals(), ShouldEqual, 6)
				So(math.IsNaN(p.Outcome.Home), ShouldBeFalse)
				So(p.Outcome.Home+p.Outcome.Draw+p.Outcome.Away, ShouldAlmostEqual, 1.0, tolerance)
			})
		})

		Convey("When the cap sits at the limit", func() {
			e := prediction.New(prediction.WithMaxGoals(20))

			Convey("Then it should be accepted", func() {
				So(e.MaxGoals(), ShouldEqual, 20)
			})
		})
	})
}
