package openweather

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetForecast(tt *testing.T) {
	body := `{
		"current": {"dt": 1700000000, "temp": 14.2, "humidity": 60,
		            "wind_speed": 4.1, "visibility": 9000,
		            "rain": {"1h": 0.3},
		            "weather": [{"description": "light rain"}]},
		"minutely": [{"dt": 1700000000, "precipitation": 0.3}],
		"hourly": [{"dt": 1700000000, "temp": 14, "pop": 0.4}],
		"daily": [{"dt": 1700000000, "temp": {"day": 16, "night": 8}, "pop": 0.2}]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") == "" || q.Get("units") != "metric" {
			w.WriteHeader(400)
			return
		}
		io.WriteString(w, body)
	}))
	defer srv.Close()

	c := New(ApiKeyOption("key"), BaseUrlOption(srv.URL))
	p, err := c.GetForecast(context.Background(), 50.1, 8.7)
	if err != nil {
		tt.Fatalf("unexpected error: %v", err)
	}
	if p.Current == nil || p.Current.Temp != 14.2 {
		tt.Fatalf("current = %+v", p.Current)
	}
	if p.Current.Rain == nil || p.Current.Rain.OneHour != 0.3 {
		tt.Errorf("rain accumulation = %+v", p.Current.Rain)
	}
	if len(p.Minutely) != 1 || p.Minutely[0].Precipitation != 0.3 {
		tt.Errorf("minutely = %+v", p.Minutely)
	}
	if len(p.Hourly) != 1 || p.Hourly[0].Pop != 0.4 {
		tt.Errorf("hourly = %+v", p.Hourly)
	}
	if len(p.Daily) != 1 || p.Daily[0].Temp.Day != 16 {
		tt.Errorf("daily = %+v", p.Daily)
	}
}
