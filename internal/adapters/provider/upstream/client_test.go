package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	. "github.com/smartystreets/goconvey/convey"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestClient_GetJSON(t *testing.T) {
	Convey("Given an upstream server", t, func() {
		var gotHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Auth-Token")
			switch r.URL.Path {
			case "/ok":
				_, _ = w.Write([]byte(`{"name":"PL","count":3}`))
			case "/missing":
				http.NotFound(w, r)
			case "/broken":
				_, _ = w.Write([]byte(`{"name":`))
			case "/slow":
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{}`))
			default:
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
			}
		}))
		defer srv.Close()

		c := upstream.New("test", upstream.WithTimeout(50*time.Millisecond))
		ctx := context.Background()

		Convey("When the body is valid JSON", func() {
			var out payload
			err := c.GetJSON(ctx, srv.URL+"/ok", map[string]string{"X-Auth-Token": "secret"}, &out)

			Convey("Then it should decode and send the headers", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, payload{Name: "PL", Count: 3})
				So(gotHeader, ShouldEqual, "secret")
				So(c.Provider(), ShouldEqual, "test")
			})
		})

		Convey("When the resource is missing", func() {
			err := c.GetJSON(ctx, srv.URL+"/missing", nil, &payload{})

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, upstream.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the provider rejects the request", func() {
			err := c.GetJSON(ctx, srv.URL+"/limited", nil, &payload{})

			Convey("Then ErrUpstream should carry the status", func() {
				So(errors.Is(err, upstream.ErrUpstream), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "status=429")
			})
		})

		Convey("When the body is malformed", func() {
			err := c.GetJSON(ctx, srv.URL+"/broken", nil, &payload{})

			Convey("Then ErrDecode should be returned", func() {
				So(errors.Is(err, upstream.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When the provider is slower than the timeout", func() {
			err := c.GetJSON(ctx, srv.URL+"/slow?key=hidden", nil, &payload{})

			Convey("Then the call should fail once without leaking the url", func() {
				So(errors.Is(err, upstream.ErrUpstream), ShouldBeTrue)
				So(err.Error(), ShouldNotContainSubstring, "hidden")
			})
		})
	})
}
