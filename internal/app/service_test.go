package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	service "github.com/okian/matchcast/internal/app"
	"github.com/okian/matchcast/internal/domain/form"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/prediction"
	"github.com/okian/matchcast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	arsenal = 57
	chelsea = 61
)

type fakeMatches struct {
	configured bool
	match      model.Match
	matchErr   error
	recent     map[int][]model.Match
	recentErr  error
	calls      int
	limits     []int
}

func (f *fakeMatches) Configured() bool { return f.configured }

func (f *fakeMatches) Competitions(context.Context) ([]model.Competition, error) {
	f.calls++
	return []model.Competition{{Name: "Premier League", Code: "PL", Plan: "TIER_ONE"}}, nil
}

func (f *fakeMatches) Matches(_ context.Context, code string) ([]model.Match, error) {
	f.calls++
	if code != "PL" {
		return nil, upstream.ErrNotFound
	}
	return []model.Match{f.match}, nil
}

func (f *fakeMatches) Match(_ context.Context, id int) (model.Match, error) {
	f.calls++
	if f.matchErr != nil {
		return model.Match{}, f.matchErr
	}
	return f.match, nil
}

func (f *fakeMatches) TeamMatches(_ context.Context, teamID, limit int) ([]model.Match, error) {
	f.calls++
	f.limits = append(f.limits, limit)
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent[teamID], nil
}

type fakeLocator struct {
	err   error
	teams []string
}

func (f *fakeLocator) Locate(_ context.Context, team string) (model.Location, error) {
	f.teams = append(f.teams, team)
	if f.err != nil {
		return model.Location{}, f.err
	}
	return model.Location{Lat: 51.5549, Lng: -0.1084, Query: "Emirates Stadium London"}, nil
}

func (f *fakeLocator) MapURL(model.Location) string { return "https://maps.example/embed" }

type fakeWeather struct{ w model.Weather }

func (f fakeWeather) Current(context.Context, model.Location) model.Weather { return f.w }

func result(homeID, awayID, hg, ag int) model.Match {
	w := model.WinnerDraw
	switch {
	case hg > ag:
		w = model.WinnerHome
	case ag > hg:
		w = model.WinnerAway
	}
	return model.Match{
		UTCDate:  "2025-05-01T15:00:00Z",
		HomeTeam: model.Team{ID: homeID, Name: "Home"},
		AwayTeam: model.Team{ID: awayID, Name: "Away"},
		Score: model.Score{
			Winner:   model.WinnerOf(w),
			FullTime: &model.FullTime{Home: model.Goals(hg), Away: model.Goals(ag)},
		},
	}
}

func fixture() model.Match {
	return model.Match{
		ID:       1001,
		UTCDate:  "2025-05-18T14:00:00Z",
		Status:   "TIMED",
		HomeTeam: model.Team{ID: arsenal, Name: "Arsenal FC"},
		AwayTeam: model.Team{ID: chelsea, Name: "Chelsea FC"},
	}
}

func newService(m *fakeMatches, l *fakeLocator, w fakeWeather, opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithMatchSource(m),
		service.WithLocator(l),
		service.WithWeatherSource(w),
	}, opts...)
	return service.New(opts...)
}

func TestService_Start(t *testing.T) {
	Convey("Given a service without providers", t, func() {
		svc := service.New()

		Convey("When starting", func() {
			err := svc.Start(context.Background())

			Convey("Then it should refuse", func() {
				So(errors.Is(err, service.ErrNotConfigured), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a configured service", t, func() {
		svc := newService(&fakeMatches{configured: true}, &fakeLocator{}, fakeWeather{})

		Convey("When calling before start", func() {
			_, err := svc.Competitions(context.Background())

			Convey("Then ErrNotStarted should be returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting and stopping", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Listings(t *testing.T) {
	Convey("Given a started service", t, func() {
		fm := &fakeMatches{configured: true, match: fixture()}
		svc := newService(fm, &fakeLocator{}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When listing competitions", func() {
			comps, err := svc.Competitions(ctx)

			Convey("Then they should be labelled", func() {
				So(err, ShouldBeNil)
				So(comps, ShouldHaveLength, 1)
				So(comps[0].Label, ShouldEqual, "Premier League (PL)")
			})
		})

		Convey("When listing matches with a lowercase code", func() {
			matches, err := svc.Matches(ctx, " pl ")

			Convey("Then the code should be normalized and matches labelled", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 1)
				So(matches[0].Label, ShouldEqual, "Arsenal FC vs Chelsea FC — 2025-05-18")
			})
		})

		Convey("When the competition code is empty", func() {
			_, err := svc.Matches(ctx, "  ")

			Convey("Then it should be rejected before any call", func() {
				So(errors.Is(err, service.ErrInvalidArgument), ShouldBeTrue)
				So(fm.calls, ShouldEqual, 0)
			})
		})

		Convey("When the provider does not know the competition", func() {
			_, err := svc.Matches(ctx, "XX")

			Convey("Then the provider error should be returned and counted", func() {
				So(errors.Is(err, upstream.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["upstreamFailures"], ShouldEqual, int64(1))
			})
		})
	})

	Convey("Given a service without a football data key", t, func() {
		fm := &fakeMatches{configured: false}
		svc := newService(fm, &fakeLocator{}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then every match endpoint should fail before calling the provider", func() {
			_, err := svc.Competitions(context.Background())
			So(errors.Is(err, upstream.ErrMissingAPIKey), ShouldBeTrue)
			_, err = svc.Insight(context.Background(), 1)
			So(errors.Is(err, upstream.ErrMissingAPIKey), ShouldBeTrue)
			So(fm.calls, ShouldEqual, 0)
		})
	})
}

func TestService_Insight(t *testing.T) {
	Convey("Given a fixture with recent history", t, func() {
		fm := &fakeMatches{
			configured: true,
			match:      fixture(),
			recent: map[int][]model.Match{
				arsenal: {
					result(arsenal, 1, 2, 0),
					result(2, arsenal, 1, 2),
					result(arsenal, 3, 2, 1),
					result(4, arsenal, 1, 1),
					result(arsenal, 5, 3, 0),
					result(6, arsenal, 0, 2),
				},
				chelsea: {
					result(chelsea, 7, 1, 1),
					result(8, chelsea, 2, 1),
				},
			},
		}
		fl := &fakeLocator{}
		svc := newService(fm, fl, fakeWeather{w: model.Weather{Description: "rain", TemperatureC: 9, Humidity: 90}})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When building the insight", func() {
			in, err := svc.Insight(context.Background(), 1001)

			Convey("Then the header and venue should be filled", func() {
				So(err, ShouldBeNil)
				So(in.MatchID, ShouldEqual, 1001)
				So(in.Kickoff, ShouldEqual, "2025-05-18 14:00")
				So(in.Venue.Lat, ShouldEqual, 51.5549)
				So(in.Venue.MapURL, ShouldEqual, "https://maps.example/embed")
				So(fl.teams, ShouldResemble, []string{"Arsenal FC"})
			})

			Convey("And the prediction should favour the in-form home side", func() {
				p := in.Prediction
				So(p.ID, ShouldNotBeEmpty)
				So(p.Outcome.Home, ShouldBeGreaterThan, p.Outcome.Away)
				So(p.Outcome.Home+p.Outcome.Draw+p.Outcome.Away, ShouldAlmostEqual, 1.0, 1e-9)
				So(p.WeatherDampened, ShouldBeTrue)
				So(p.HomeForm.Matches, ShouldEqual, 6)
				So(p.Grid, ShouldBeNil)
			})

			Convey("And the recent tables should be capped", func() {
				So(in.HomeRecent, ShouldHaveLength, 5)
				So(in.AwayRecent, ShouldHaveLength, 2)
				So(in.HomeRecent[0].Score, ShouldEqual, "2 - 0")
			})

			Convey("And the form window should be requested", func() {
				So(fm.limits, ShouldResemble, []int{prediction.DefaultFormWindow, prediction.DefaultFormWindow})
				So(svc.GetStats()["insights"], ShouldEqual, int64(1))
				So(svc.GetStats()["weatherDampened"], ShouldEqual, int64(1))
			})
		})
	})

	Convey("Given a fixture whose away team is undecided", t, func() {
		m := fixture()
		m.AwayTeam = model.Team{}
		fm := &fakeMatches{configured: true, match: m, recent: map[int][]model.Match{}}
		svc := newService(fm, &fakeLocator{}, fakeWeather{w: model.UnknownWeather})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When building the insight", func() {
			in, err := svc.Insight(context.Background(), 1001)

			Convey("Then the away side should use the default form without a lookup", func() {
				So(err, ShouldBeNil)
				So(in.Prediction.AwayForm, ShouldResemble, form.DefaultSummary)
				So(in.AwayRecent, ShouldBeEmpty)
				So(fm.limits, ShouldHaveLength, 1)
				So(svc.GetStats()["formFallbacks"], ShouldEqual, int64(2))
			})
		})
	})

	Convey("Given a failing geocoder", t, func() {
		fm := &fakeMatches{configured: true, match: fixture()}
		svc := newService(fm, &fakeLocator{err: upstream.ErrMissingAPIKey}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the insight should halt with the geocoding error", func() {
			_, err := svc.Insight(context.Background(), 1001)
			So(errors.Is(err, upstream.ErrMissingAPIKey), ShouldBeTrue)
			So(fm.limits, ShouldBeEmpty)
		})
	})

	Convey("Given failing team lookups", t, func() {
		fm := &fakeMatches{configured: true, match: fixture(), recentErr: upstream.ErrUpstream}
		svc := newService(fm, &fakeLocator{}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then both sides should degrade to the default form", func() {
			in, err := svc.Insight(context.Background(), 1001)
			So(err, ShouldBeNil)
			So(in.Prediction.HomeForm, ShouldResemble, form.DefaultSummary)
			So(in.Prediction.AwayForm, ShouldResemble, form.DefaultSummary)
		})
	})

	Convey("Given an invalid match id", t, func() {
		svc := newService(&fakeMatches{configured: true}, &fakeLocator{}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then it should be rejected", func() {
			_, err := svc.Insight(context.Background(), 0)
			So(errors.Is(err, service.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestService_TeamForm(t *testing.T) {
	Convey("Given a team with history", t, func() {
		fm := &fakeMatches{
			configured: true,
			recent: map[int][]model.Match{
				arsenal: {result(arsenal, 1, 3, 0), result(2, arsenal, 0, 0), result(arsenal, 3, 0, 1)},
			},
		}
		svc := newService(fm, &fakeLocator{}, fakeWeather{})
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When asking for two rows", func() {
			tf, err := svc.TeamForm(context.Background(), arsenal, 2)

			Convey("Then the summary should use the window and the table the limit", func() {
				So(err, ShouldBeNil)
				So(tf.Summary.Matches, ShouldEqual, 3)
				So(tf.Summary.PointsPerGame, ShouldAlmostEqual, 4.0/3.0, 1e-9)
				So(tf.Table, ShouldHaveLength, 2)
				So(fm.limits[0], ShouldEqual, prediction.DefaultFormWindow)
			})
		})

		Convey("When the team id is invalid", func() {
			_, err := svc.TeamForm(context.Background(), -1, 0)
			So(errors.Is(err, service.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestService_Predict(t *testing.T) {
	Convey("Given a started service with grids enabled", t, func() {
		fm := &fakeMatches{configured: false}
		svc := newService(fm, &fakeLocator{}, fakeWeather{}, service.WithGrid(true))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("When predicting from posted matches", func() {
			v, err := svc.Predict(context.Background(), prediction.Input{
				HomeTeamID:  arsenal,
				AwayTeamID:  chelsea,
				HomeMatches: []model.Match{result(arsenal, 1, 4, 0), result(arsenal, 2, 3, 1)},
				AwayMatches: []model.Match{result(3, chelsea, 2, 0)},
				Weather:     "clear",
			})

			Convey("Then no provider should be called even without keys", func() {
				So(err, ShouldBeNil)
				So(fm.calls, ShouldEqual, 0)
				So(v.Grid, ShouldHaveLength, 7)
				So(v.Outcome.Home, ShouldBeGreaterThan, v.Outcome.Away)
				So(svc.GetStats()["predictions"], ShouldEqual, int64(1))
			})
		})

		Convey("When the posted scores carry negative goals", func() {
			v, err := svc.Predict(context.Background(), prediction.Input{
				HomeTeamID:  arsenal,
				AwayTeamID:  chelsea,
				HomeMatches: []model.Match{result(arsenal, 1, -3, -1)},
				AwayMatches: []model.Match{result(3, chelsea, 2, -2)},
				Weather:     "clear",
			})

			Convey("Then both sides should fall back to the default form", func() {
				So(err, ShouldBeNil)
				So(v.HomeForm, ShouldResemble, form.DefaultSummary)
				So(v.AwayForm, ShouldResemble, form.DefaultSummary)
				So(v.Rates.Home, ShouldBeGreaterThanOrEqualTo, prediction.MinRate)
			})
		})
	})
}
