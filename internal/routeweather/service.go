// Package routeweather is the service tying the pipeline together: geocode
// the endpoints, route the trip, decode the section geometry, time the
// waypoints, resolve each one against the forecast payload, and assemble
// the route weather report.
package routeweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teja-rm/weather-route-map/internal/forecast"
	gc "github.com/teja-rm/weather-route-map/internal/geocode"
	ow "github.com/teja-rm/weather-route-map/internal/openweather"
	"github.com/teja-rm/weather-route-map/internal/polyline"
	"github.com/teja-rm/weather-route-map/internal/report"
	"github.com/teja-rm/weather-route-map/internal/route"
	"github.com/teja-rm/weather-route-map/internal/routing"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

const maxWaypoints = 10

type RouteRequest struct {
	from       string
	to         string
	mode       string
	delay      int64
	reverseGeo bool
}

type RouteResponse struct {
	Error    string                `json:"error,omitempty"`
	Duration float64               `json:"duration,omitempty"`
	Distance float64               `json:"distance,omitempty"`
	Geometry []polyline.Coordinate `json:"geometry,omitempty"`
	Report   *report.Report        `json:"report,omitempty"`
}

type CodeError struct {
	code int
	msg  string
}

func (c CodeError) Error() string {
	return c.msg
}

type Service struct {
	routing      *routing.Client
	gc           *gc.Client
	ow           *ow.Client
	rc           *redis.Client
	disableRedis bool

	cache *forecast.Cache
	agg   *report.Aggregator
	now   func() time.Time

	Logger *zap.SugaredLogger
}

func New() *Service {
	s := &Service{}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	s.Logger = baseLogger.Sugar()

	s.gc = gc.New(
		gc.ApiKeyOption(os.Getenv("geocode_apikey")),
		gc.BaseUrlOption(os.Getenv("geocode_baseurl")),
	)

	s.routing = routing.New(
		routing.ApiKeyOption(os.Getenv("routing_apikey")),
		routing.BaseUrlOption(os.Getenv("routing_baseurl")),
	)

	s.ow = ow.New(
		ow.ApiKeyOption(os.Getenv("openweather_apikey")),
		ow.BaseUrlOption(os.Getenv("openweather_baseurl")),
	)

	s.rc = redis.NewClient(&redis.Options{
		Addr: os.Getenv("redis_address"),
	})

	disableRedis, err := strconv.ParseBool(os.Getenv("disable_redis"))
	if err == nil {
		s.disableRedis = disableRedis
	}

	s.now = time.Now
	s.cache = forecast.NewCache(forecast.DefaultCacheTTL, s.now)
	s.agg = report.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	return s
}

func (s *Service) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", s.RouteHandler)

	_ = http.ListenAndServe(":80", mux)
}

func (s *Service) RouteHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.RouteWeather(r.Context(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, resp)
}

func (s *Service) RouteWeather(ctx context.Context, r *http.Request) (*RouteResponse, error) {
	req, err := s.parseRequest(r)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripCoordinates(ctx, req)
	if err != nil {
		return nil, err
	}

	rt, err := s.tripRoute(ctx, trip, req.mode)
	if err != nil {
		return nil, err
	}

	geometry, waypoints, err := s.waypoints(rt)
	if err != nil {
		return nil, err
	}

	departure := s.now().Add(time.Duration(req.delay) * time.Second)
	waypoints = route.ComputeTimings(waypoints, rt.Duration, departure)

	points := s.weather(ctx, waypoints)
	if req.reverseGeo {
		s.locationNames(ctx, points, trip)
	}

	return &RouteResponse{
		Duration: rt.Duration,
		Distance: rt.Distance,
		Geometry: geometry,
		Report:   s.agg.BuildReport(points),
	}, nil
}

func (s *Service) parseRequest(r *http.Request) (*RouteRequest, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		return nil, CodeError{code: 400, msg: "Missing 'from' query parameter in request"}
	} else if to == "" {
		return nil, CodeError{code: 400, msg: "Missing 'to' query parameter in request"}
	}
	req := &RouteRequest{
		from: from,
		to:   to,
		mode: "car",
	}
	if mode := r.URL.Query().Get("mode"); mode != "" {
		req.mode = mode
	}
	reverseGeo, err := strconv.ParseBool(r.URL.Query().Get("reverseGeo"))
	if err == nil {
		req.reverseGeo = reverseGeo
	}

	if r.URL.Query().Get("delay") != "" {
		delay, err := strconv.ParseInt(r.URL.Query().Get("delay"), 10, 64)
		if err != nil || delay > 43200 {
			return nil, CodeError{code: 400, msg: "'delay' parameter must be an integer less than 43200 (12 hours)"}
		}
		req.delay = delay
	}

	return req, nil
}

func (s *Service) tripCoordinates(ctx context.Context, req *RouteRequest) (*t.Trip, error) {
	var fromCoord, toCoord *t.Coordinates
	g := new(errgroup.Group)

	g.Go(func() error {
		var err error
		fromCoord, err = s.geoCode(ctx, req.from)
		return err
	})
	g.Go(func() error {
		var err error
		toCoord, err = s.geoCode(ctx, req.to)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t.Trip{
		From: fromCoord,
		To:   toCoord,
	}, nil
}

func (s *Service) geoCode(ctx context.Context, address string) (*t.Coordinates, error) {
	coord, err := s.gc.GeoCode(ctx, address)
	if err != nil {
		s.Logger.Errorw(err.Error(),
			"address", address, "action", "GeoCode")
		return nil, CodeError{code: 500, msg: fmt.Sprintf("Internal error geocoding address '%v'.", address)}
	} else if coord == nil {
		return nil, CodeError{code: 400, msg: fmt.Sprintf("Unrecognized address '%v'. Check spelling or be more specific.", address)}
	}
	return coord, nil
}

func (s *Service) tripRoute(ctx context.Context, trip *t.Trip, mode string) (*t.Route, error) {
	rt, err := s.routing.Route(ctx, trip, mode)
	if err != nil {
		s.Logger.Errorf("Error routing trip (%v,%v) to (%v,%v): %v",
			trip.From.Latitude, trip.From.Longitude, trip.To.Latitude, trip.To.Longitude, err.Error())
		return nil, CodeError{code: 500, msg: "Internal error retrieving trip route."}
	}
	return rt, nil
}

// waypoints decodes each section's polyline and samples waypoints across
// the sections, budgeted by section share of the total distance. The first
// waypoint of every section after the first marks a mode transition.
func (s *Service) waypoints(rt *t.Route) ([]polyline.Coordinate, []t.Waypoint, error) {
	var geometry []polyline.Coordinate
	var waypoints []t.Waypoint
	var offset float64

	for si, sec := range rt.Sections {
		coords, _, err := polyline.Decode(sec.Geometry)
		if err != nil {
			s.Logger.Errorw(err.Error(), "action", "DecodeGeometry", "section", si)
			return nil, nil, CodeError{code: 502, msg: "Routing provider returned unreadable geometry."}
		}
		geometry = append(geometry, coords...)

		budget := maxWaypoints
		if rt.Distance > 0 && len(rt.Sections) > 1 {
			budget = int(float64(maxWaypoints)*sec.Distance/rt.Distance) + 2
		}
		wps := route.SampleWaypoints(coords, budget)
		for wi := range wps {
			wps[wi].Mode = sec.Mode
			wps[wi].DistanceFromStartM += offset
		}
		if si > 0 && len(wps) > 0 {
			wps[0].Type = t.WaypointModeTransition
		}
		if si < len(rt.Sections)-1 && len(wps) > 0 {
			wps[len(wps)-1].Type = t.WaypointIntermediate
		}
		offset += sec.Distance
		waypoints = append(waypoints, wps...)
	}
	if len(waypoints) > 0 {
		waypoints[0].Type = t.WaypointOrigin
		waypoints[len(waypoints)-1].Type = t.WaypointDestination
	}
	return geometry, waypoints, nil
}

// weather resolves a sample for every waypoint concurrently. Lookups go
// through the in-process cache, then the shared redis cache, then the
// provider. A waypoint whose lookup fails keeps a nil sample; the
// aggregator substitutes synthetic data so the report is still complete.
func (s *Service) weather(ctx context.Context, waypoints []t.Waypoint) []report.WaypointWeather {
	points := make([]report.WaypointWeather, len(waypoints))
	g := new(errgroup.Group)

	for i, wp := range waypoints {
		i, wp := i, wp
		points[i].Waypoint = wp
		g.Go(func() error {
			points[i].Sample = s.waypointSample(ctx, wp)
			return nil
		})
	}
	_ = g.Wait()
	return points
}

func (s *Service) waypointSample(ctx context.Context, wp t.Waypoint) *forecast.Sample {
	if sample, ok := s.cache.Get(wp.Latitude, wp.Longitude, wp.EstimatedArrivalEpoch); ok {
		return sample
	}
	if sample := s.redisSample(ctx, wp); sample != nil {
		s.cache.Put(wp.Latitude, wp.Longitude, wp.EstimatedArrivalEpoch, sample)
		return sample
	}

	payload, err := s.ow.GetForecast(ctx, wp.Latitude, wp.Longitude)
	if err != nil {
		s.Logger.Warnf("Error getting forecast for (%v, %v): %v",
			wp.Latitude, wp.Longitude, err.Error())
		return nil
	}
	choice, err := forecast.SelectBand(s.now(), time.Unix(wp.EstimatedArrivalEpoch, 0), payload)
	if err != nil {
		s.Logger.Warnf("No usable forecast band for (%v, %v): %v",
			wp.Latitude, wp.Longitude, err.Error())
		return nil
	}
	sample := forecast.BuildSample(payload, choice)
	s.cache.Put(wp.Latitude, wp.Longitude, wp.EstimatedArrivalEpoch, sample)
	s.storeRedisSample(ctx, wp, sample)
	return sample
}

// The shared redis cache buckets samples by arrival hour and looks them up
// by proximity, so nearby waypoints of other trips reuse them.
func (s *Service) redisSample(ctx context.Context, wp t.Waypoint) *forecast.Sample {
	if s.disableRedis {
		return nil
	}
	hourKey := strconv.FormatInt(wp.EstimatedArrivalEpoch/3600*3600, 10)
	geoResponse := s.rc.GeoRadius(ctx, hourKey, wp.Longitude, wp.Latitude,
		&redis.GeoRadiusQuery{
			Radius:    10,
			Unit:      "km",
			WithCoord: true,
			WithDist:  true,
			Count:     1,
			Sort:      "ASC",
		})
	locations, err := geoResponse.Result()
	if err != nil {
		s.Logger.Errorf("Redis error when fetching GeoRadius for (%v, %v): %v",
			wp.Latitude, wp.Longitude, err.Error())
		return nil
	}
	if len(locations) == 0 {
		return nil
	}
	var sample forecast.Sample
	if err := json.Unmarshal([]byte(locations[0].Name), &sample); err != nil {
		s.Logger.Errorf("Error unmarshalling redis sample for (%v, %v): %v",
			wp.Latitude, wp.Longitude, err.Error())
		return nil
	}
	return &sample
}

func (s *Service) storeRedisSample(ctx context.Context, wp t.Waypoint, sample *forecast.Sample) {
	if s.disableRedis {
		return
	}
	hourKey := strconv.FormatInt(wp.EstimatedArrivalEpoch/3600*3600, 10)
	body, err := json.Marshal(sample)
	if err != nil {
		return
	}
	if err := s.rc.GeoAdd(ctx, hourKey, &redis.GeoLocation{
		Name:      string(body),
		Longitude: wp.Longitude,
		Latitude:  wp.Latitude,
	}).Err(); err != nil {
		s.Logger.Errorf("Redis error when storing sample for (%v, %v): %v",
			wp.Latitude, wp.Longitude, err.Error())
		return
	}
	s.rc.Expire(ctx, hourKey, 2*time.Hour)
}

// locationNames reverse geocodes the retained points so the aggregator can
// merge waypoints resolving to the same place. Endpoints reuse the labels
// from forward geocoding.
func (s *Service) locationNames(ctx context.Context, points []report.WaypointWeather, trip *t.Trip) {
	wg := new(sync.WaitGroup)
	for i := range points {
		switch points[i].Waypoint.Type {
		case t.WaypointOrigin:
			points[i].LocationName = trip.From.Label
			continue
		case t.WaypointDestination:
			points[i].LocationName = trip.To.Label
			continue
		}
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			loc, err := s.gc.ReverseGeoCode(ctx, points[i].Waypoint.Latitude, points[i].Waypoint.Longitude)
			if err != nil {
				s.Logger.Warnf("Error reverse geocoding (%v,%v): %v",
					points[i].Waypoint.Latitude, points[i].Waypoint.Longitude, err.Error())
				return
			}
			if loc != nil {
				points[i].LocationName = loc.Label
			}
		}()
	}
	wg.Wait()
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	codeErr, ok := err.(CodeError)
	if ok {
		bodyBytes, _ := json.Marshal(RouteResponse{Error: codeErr.Error()})
		w.WriteHeader(codeErr.code)
		io.WriteString(w, string(bodyBytes[:]))
	} else {
		w.WriteHeader(500)
		io.WriteString(w, "Internal server error")
	}
}

func (s *Service) writeResponse(w http.ResponseWriter, resp *RouteResponse) {
	bodyBytes, _ := json.Marshal(resp)
	w.WriteHeader(200)
	io.WriteString(w, string(bodyBytes[:]))
}
