package search

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kisanportal/mandi-cli/internal/directions"
	"github.com/kisanportal/mandi-cli/internal/geo"
	"github.com/kisanportal/mandi-cli/internal/geospatial"
	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/normalize"
	"github.com/kisanportal/mandi-cli/pkg/datagov"
	"github.com/kisanportal/mandi-cli/pkg/geocode"
)

// AllStates is the dashboard's "no state filter" choice.
const AllStates = "All States"

// Defaults for Options fields left at zero.
const (
	DefaultMaxCandidates    = 50
	DefaultBrowseLimit      = 100
	DefaultBrowseFetchLimit = 500
)

// Origin sources reported in Result.OriginSource.
const (
	OriginDevice   = "device"
	OriginGeocoded = "geocoded"
)

// Options tunes the search pipeline.
type Options struct {
	MaxDistanceKm    float64
	Limit            int
	MaxCandidates    int
	FetchLimit       int
	BrowseLimit      int
	BrowseFetchLimit int
}

func (o Options) withDefaults() Options {
	if o.MaxDistanceKm <= 0 {
		o.MaxDistanceKm = geo.DefaultMaxDistanceKm
	}
	if o.Limit <= 0 {
		o.Limit = geo.DefaultRankLimit
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.FetchLimit <= 0 {
		o.FetchLimit = datagov.DefaultLimit
	}
	if o.BrowseLimit <= 0 {
		o.BrowseLimit = DefaultBrowseLimit
	}
	if o.BrowseFetchLimit <= 0 {
		o.BrowseFetchLimit = DefaultBrowseFetchLimit
	}
	return o
}

// Query is a nearest-market search request.
type Query struct {
	State    string
	Location string
	// Device is the position reported by the user's device, if any.
	Device *model.Coordinate
	// DeviceDenied marks a client that refused to share its position.
	DeviceDenied bool
	Limit        int
	SessionID    string
}

// Market is a ranked record with its directions link.
type Market struct {
	model.PriceRecord `yaml:",inline"`
	DirectionsURL     string `json:"directions_url" yaml:"directions_url"`
}

// Result is the outcome of a nearest-market search.
type Result struct {
	ID           string           `json:"id" yaml:"id"`
	Markets      []Market         `json:"data" yaml:"data"`
	Origin       model.Coordinate `json:"location" yaml:"location"`
	OriginSource string           `json:"location_source" yaml:"location_source"`
	Notices      []string         `json:"notices" yaml:"notices"`
	Candidates   int              `json:"candidates" yaml:"candidates"`
	Geocoded     int              `json:"geocoded" yaml:"geocoded"`
}

// Records returns the ranked records without their links.
func (r *Result) Records() []model.PriceRecord {
	out := make([]model.PriceRecord, len(r.Markets))
	for i, m := range r.Markets {
		out[i] = m.PriceRecord
	}
	return out
}

// BrowseResult is the state/crop browse view. Each market links to
// directions without an origin.
type BrowseResult struct {
	Markets []Market            `json:"data" yaml:"data"`
	Crops   []string            `json:"crops" yaml:"crops"`
	Total   int                 `json:"total" yaml:"total"`
}

// Service runs searches against the price feed.
type Service struct {
	prices   datagov.Client
	geocoder geocode.Client
	queue    *geospatial.GeocodeQueue
	links    *directions.Builder
	tracker  *Tracker
	opts     Options
}

// NewService wires a Service. links may be nil to use the default Maps URL.
func NewService(prices datagov.Client, geocoder geocode.Client, queue *geospatial.GeocodeQueue, links *directions.Builder, opts Options) *Service {
	if links == nil {
		links = directions.NewBuilder(directions.DefaultBaseURL)
	}
	if queue == nil {
		queue = geospatial.NewGeocodeQueue(geocoder, geospatial.QueueOptions{})
	}
	return &Service{
		prices:   prices,
		geocoder: geocoder,
		queue:    queue,
		links:    links,
		tracker:  NewTracker(),
		opts:     opts.withDefaults(),
	}
}

// Tracker exposes the session tracker.
func (s *Service) Tracker() *Tracker { return s.tracker }

// Validate checks a query before any network work.
func Validate(q Query) error {
	if isAllStates(q.State) {
		return ErrStateRequired
	}
	if strings.TrimSpace(q.Location) == "" && (q.Device == nil || !q.Device.Valid()) {
		return ErrLocationRequired
	}
	return nil
}

// Nearest finds the markets closest to the user in the requested state.
func (s *Service) Nearest(ctx context.Context, q Query) (*Result, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	ctx, tok := s.tracker.Begin(ctx, q.SessionID)
	defer s.tracker.Finish(tok)

	res := &Result{ID: uuid.NewString(), Notices: []string{}}
	log := zap.L().With(zap.String("search_id", res.ID), zap.String("state", q.State))

	var resp *datagov.Response
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.prices.Prices(gctx, datagov.Query{State: strings.TrimSpace(q.State), Limit: s.opts.FetchLimit})
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	g.Go(func() error {
		origin, source, notice, err := s.locate(gctx, q)
		if notice != "" {
			res.Notices = append(res.Notices, notice)
		}
		if err != nil {
			return err
		}
		res.Origin = origin
		res.OriginSource = source
		return nil
	})
	if err := g.Wait(); err != nil {
		if !s.tracker.Current(tok) {
			return nil, ErrSuperseded
		}
		return nil, err
	}
	if err := s.tracker.Check(tok); err != nil {
		return nil, err
	}

	candidates := Candidates(normalize.NormalizeAll(resp.Records), s.opts.MaxCandidates)
	res.Candidates = len(candidates)

	candidates, res.Geocoded = s.resolve(ctx, candidates)
	if err := s.tracker.Check(tok); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.opts.Limit
	}
	ranked := geo.Rank(res.Origin, candidates, geo.RankOptions{MaxDistanceKm: s.opts.MaxDistanceKm, Limit: limit})

	res.Markets = make([]Market, len(ranked))
	for i, rec := range ranked {
		res.Markets[i] = Market{PriceRecord: rec, DirectionsURL: s.links.ForRecord(rec, &res.Origin)}
	}

	log.Info("search: nearest complete",
		zap.Int("records", len(resp.Records)),
		zap.Int("candidates", res.Candidates),
		zap.Int("geocoded", res.Geocoded),
		zap.Int("results", len(res.Markets)),
		zap.String("origin_source", res.OriginSource),
	)
	return res, nil
}

// locate resolves the user position, preferring the device and falling back
// to geocoding the typed location. The notice is non-empty when the device
// could not be used.
func (s *Service) locate(ctx context.Context, q Query) (model.Coordinate, string, string, error) {
	var loc Locator = NewStaticLocator(q.Device)
	if q.DeviceDenied {
		loc = DeniedLocator()
	}

	var notice string
	c, err := loc.Locate(ctx)
	if err == nil {
		return c, OriginDevice, "", nil
	}
	if q.Device != nil || q.DeviceDenied {
		notice = "Could not get your current location: " + err.Error() + ". Using the entered location instead."
		zap.L().Warn("search: device location failed, falling back to geocoding", zap.Error(err))
	}

	location := strings.TrimSpace(q.Location)
	if location == "" {
		return model.Coordinate{}, "", notice, ErrLocationRequired
	}

	result, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		zap.L().Warn("search: geocode user location", zap.String("location", location), zap.Error(err))
		return model.Coordinate{}, "", notice, ErrLocationUnresolved
	}
	c, ok := result.Coordinate()
	if !ok {
		return model.Coordinate{}, "", notice, ErrLocationUnresolved
	}
	return c, OriginGeocoded, notice, nil
}

// resolve geocodes candidates lacking coordinates through the queue and
// returns the updated slice with the number of successful lookups.
func (s *Service) resolve(ctx context.Context, recs []model.PriceRecord) ([]model.PriceRecord, int) {
	var tasks []geospatial.Task
	for i, rec := range recs {
		if _, ok := rec.Coordinate(); ok {
			continue
		}
		query := normalize.LocationQuery(rec)
		if query == "" {
			continue
		}
		tasks = append(tasks, geospatial.Task{Index: i, Query: query})
	}
	if len(tasks) == 0 {
		return recs, 0
	}

	out := make([]model.PriceRecord, len(recs))
	copy(out, recs)
	resolved := 0
	for _, o := range s.queue.Run(ctx, tasks) {
		if !o.OK {
			continue
		}
		out[o.Index] = out[o.Index].WithCoordinate(o.Coord)
		resolved++
	}
	return out, resolved
}

// Candidates keeps records with a known market and a positive modal price,
// in input order, up to limit.
func Candidates(recs []model.PriceRecord, limit int) []model.PriceRecord {
	out := make([]model.PriceRecord, 0, min(len(recs), limit))
	for _, rec := range recs {
		if len(out) >= limit {
			break
		}
		if rec.MarketName == model.UnknownName || rec.ModalPrice <= 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Browse returns normalized records for state filtered by crop, with the
// sorted list of crops available in the state.
func (s *Service) Browse(ctx context.Context, state, crop string) (*BrowseResult, error) {
	state = strings.TrimSpace(state)
	if isAllStates(state) {
		state = ""
	}

	resp, err := s.prices.Prices(ctx, datagov.Query{State: state, Limit: s.opts.BrowseFetchLimit})
	if err != nil {
		return nil, eris.Wrap(err, "search: browse")
	}

	recs := FilterCrop(normalize.NormalizeAll(resp.Records), crop)
	total := len(recs)
	if len(recs) > s.opts.BrowseLimit {
		recs = recs[:s.opts.BrowseLimit]
	}

	markets := make([]Market, len(recs))
	for i, rec := range recs {
		markets[i] = Market{PriceRecord: rec, DirectionsURL: s.links.ForRecord(rec, nil)}
	}

	return &BrowseResult{
		Markets: markets,
		Crops:   normalize.UniqueCommodities(resp.Records),
		Total:   total,
	}, nil
}

func isAllStates(state string) bool {
	state = strings.TrimSpace(state)
	return state == "" || state == AllStates
}
