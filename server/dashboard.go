package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aouyang1/go-forecast-dashboard/config"
	"github.com/aouyang1/go-forecast-dashboard/forecaster"
	"github.com/aouyang1/go-forecast-dashboard/indicator"
	"github.com/aouyang1/go-forecast-dashboard/modelstore"
	"github.com/aouyang1/go-forecast-dashboard/predict"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templates embed.FS

// Predictor forecasts every indicator for a date. *predict.Cache satisfies it.
type Predictor interface {
	Predict(t time.Time) (*predict.Result, error)
	Horizon(t time.Time, years int) ([]*predict.Result, error)
	Metrics() []indicator.Metric
}

// ModelCatalog describes the loaded models. *modelstore.Store satisfies it.
type ModelCatalog interface {
	Info() ([]modelstore.Info, error)
	Loaded() bool
}

type ForecastRequest struct {
	Date string `query:"date" json:"date" default:"2030-01-01" validate:"required,datetime=2006-01-02"`
}

type ChartRequest struct {
	Date  string `query:"date" json:"date" default:"2030-01-01" validate:"required,datetime=2006-01-02"`
	Years int    `query:"years" json:"years" validate:"gte=1,lte=50"` // preset from the dashboard config
}

// MetricForecast is the forecast of one indicator
type MetricForecast struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Title   string  `json:"title"`
	Unit    string  `json:"unit"`
	Value   float64 `json:"value"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Display string  `json:"display"`
}

type ForecastResponse struct {
	Date    string             `json:"date"`
	Values  map[string]float64 `json:"values"`
	Metrics []MetricForecast   `json:"metrics"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// Dashboard serves the forecast page, the horizon chart and the JSON API
type Dashboard struct {
	predictor Predictor
	models    ModelCatalog
	cfg       config.Dashboard
	logger    zerolog.Logger
	tmpl      *template.Template
}

func NewDashboard(p Predictor, m ModelCatalog, cfg config.Dashboard, l zerolog.Logger) (*Dashboard, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		predictor: p,
		models:    m,
		cfg:       cfg,
		logger:    l,
		tmpl:      tmpl,
	}, nil
}

func (d *Dashboard) RegisterRoutes(e *echo.Echo) {
	e.GET("/", d.Index)
	e.GET("/chart", d.Chart)
	e.GET("/healthz", d.Health)

	g := e.Group("/api/v1")
	g.GET("/forecast", d.Forecast)
	g.GET("/models", d.Models)
	g.GET("/models/:key", d.Model)
}

type card struct {
	Title string
	Value string
	Lower string
	Upper string
}

type page struct {
	Title        string
	Date         string
	HorizonYears int
	Error        string
	Cards        []card
	ChartURL     string
	Terms        []indicator.Metric
	Footer       string
}

// Index renders the dashboard. Forecast cards are only shown once a date is submitted.
func (d *Dashboard) Index(c echo.Context) error {
	p := page{
		Title:        d.cfg.Title,
		Date:         d.cfg.DefaultDate,
		HorizonYears: d.cfg.HorizonYears,
		Terms:        d.predictor.Metrics(),
		Footer:       d.cfg.Footer,
	}
	if !c.QueryParams().Has("date") {
		return d.render(c, http.StatusOK, p)
	}

	req := &ForecastRequest{Date: d.cfg.DefaultDate}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		p.Error = verr[0].Message
		return d.render(c, http.StatusBadRequest, p)
	}
	p.Date = req.Date

	res, err := d.predict(req.Date)
	if err != nil {
		d.logger.Error().Err(err).Str("date", req.Date).Msg("forecast failed")
		p.Error = "Unable to generate forecast for the selected date."
		return d.render(c, errorStatus(err), p)
	}

	for _, m := range d.predictor.Metrics() {
		b := res.Bounds[m.Label]
		p.Cards = append(p.Cards, card{
			Title: m.Title,
			Value: m.Format(res.Values[m.Label]),
			Lower: m.Format(b.Lower),
			Upper: m.Format(b.Upper),
		})
	}
	p.ChartURL = "/chart?" + url.Values{
		"date":  []string{req.Date},
		"years": []string{strconv.Itoa(d.cfg.HorizonYears)},
	}.Encode()
	return d.render(c, http.StatusOK, p)
}

func (d *Dashboard) render(c echo.Context, status int, p page) error {
	var b bytes.Buffer
	if err := d.tmpl.ExecuteTemplate(&b, "dashboard.html", p); err != nil {
		return err
	}
	return c.HTMLBlob(status, b.Bytes())
}

// Chart renders the yearly forecast of every indicator starting at the requested date
func (d *Dashboard) Chart(c echo.Context) error {
	req := &ChartRequest{Date: d.cfg.DefaultDate, Years: d.cfg.HorizonYears}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	from, _ := time.Parse(time.DateOnly, req.Date)

	horizon, err := d.predictor.Horizon(from, req.Years)
	if err != nil {
		d.logger.Error().Err(err).Str("date", req.Date).Msg("horizon forecast failed")
		return AppErrorResponse(c, toAppError(err))
	}

	metrics := d.predictor.Metrics()
	titles := make([]string, 0, len(metrics))
	series := make(map[string]*forecaster.Results, len(metrics))
	for _, m := range metrics {
		r := &forecaster.Results{
			T:        make([]time.Time, 0, len(horizon)),
			Forecast: make([]float64, 0, len(horizon)),
			Upper:    make([]float64, 0, len(horizon)),
			Lower:    make([]float64, 0, len(horizon)),
		}
		for _, res := range horizon {
			r.T = append(r.T, res.Date)
			r.Forecast = append(r.Forecast, res.Values[m.Label])
			r.Upper = append(r.Upper, res.Bounds[m.Label].Upper)
			r.Lower = append(r.Lower, res.Bounds[m.Label].Lower)
		}
		titles = append(titles, m.Label)
		series[m.Label] = r
	}

	var b bytes.Buffer
	if err := forecaster.PlotForecast(&b, titles, series); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, b.Bytes())
}

// Forecast returns the forecast of every indicator for the requested date
func (d *Dashboard) Forecast(c echo.Context) error {
	req := &ForecastRequest{Date: d.cfg.DefaultDate}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}

	res, err := d.predict(req.Date)
	if err != nil {
		d.logger.Error().Err(err).Str("date", req.Date).Msg("forecast failed")
		return AppErrorResponse(c, toAppError(err))
	}

	resp := ForecastResponse{
		Date:   res.Day(),
		Values: res.Values,
	}
	for _, m := range d.predictor.Metrics() {
		b := res.Bounds[m.Label]
		resp.Metrics = append(resp.Metrics, MetricForecast{
			Key:     m.Key,
			Label:   m.Label,
			Title:   m.Title,
			Unit:    m.Unit,
			Value:   res.Values[m.Label],
			Lower:   b.Lower,
			Upper:   b.Upper,
			Display: m.Format(res.Values[m.Label]),
		})
	}
	return SuccessResponse(c, resp)
}

// Models describes the loaded model of every indicator
func (d *Dashboard) Models(c echo.Context) error {
	infos, err := d.models.Info()
	if err != nil {
		d.logger.Error().Err(err).Msg("model info failed")
		return AppErrorResponse(c, toAppError(err))
	}
	return SuccessResponse(c, infos)
}

// Model describes the loaded model of one indicator
func (d *Dashboard) Model(c echo.Context) error {
	m, exists := indicator.ByKey(c.Param("key"))
	if !exists {
		return AppErrorResponse(c, NotFoundError(fmt.Sprintf("unknown indicator %q", c.Param("key"))))
	}

	infos, err := d.models.Info()
	if err != nil {
		d.logger.Error().Err(err).Msg("model info failed")
		return AppErrorResponse(c, toAppError(err))
	}
	for _, info := range infos {
		if info.Key == m.Key {
			return SuccessResponse(c, info)
		}
	}
	return AppErrorResponse(c, NotFoundError(fmt.Sprintf("no model loaded for %s", m.Key)))
}

func (d *Dashboard) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		ModelsLoaded: d.models.Loaded(),
	})
}

func (d *Dashboard) predict(date string) (*predict.Result, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, err
	}
	return d.predictor.Predict(t)
}

func toAppError(err error) *AppError {
	if errors.Is(err, modelstore.ErrModelNotFound) || errors.Is(err, modelstore.ErrInvalidModel) {
		return ServiceUnavailableError("forecast models are unavailable").WithError(err)
	}
	return InternalError("unable to generate forecast").WithError(err)
}

func errorStatus(err error) int {
	return toAppError(err).Status
}
