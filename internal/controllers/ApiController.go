package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"vehlog/internal/activity"
	"vehlog/internal/models"
	"vehlog/internal/providers"
	"vehlog/internal/services"
	"vehlog/internal/structures"

	json "github.com/goccy/go-json"
)

const (
	maxUploadSize = 32 << 20 // 32 MB
	maxRecordSize = 64 << 10

	defaultUploadName = "upload.csv"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ApiController serves the working set and the views computed from it.
type ApiController struct {
	logger     providers.Logger
	workingSet services.WorkingSetServiceInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
	separator  string
}

type loadResponse struct {
	Count      int                     `json:"count"`
	Total      int                     `json:"total"`
	FileStats  models.FileStats        `json:"file_stats"`
	Validation models.ValidationResult `json:"validation"`
}

func NewApiController(conf *structures.Config, logger providers.Logger, workingSet services.WorkingSetServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	sep, err := activity.ParseSeparator(conf.Export.Separator)
	if err != nil {
		logger.Warnf(providers.TypeApp, "export.separator: %s, using %q", err, activity.DefaultSeparator)
		sep = activity.DefaultSeparator
	}
	return &ApiController{
		logger:     logger,
		workingSet: workingSet,
		cache:      cache,
		metrics:    metrics,
		separator:  sep,
	}
}

// serveFromCacheOrCompute keys every entry by the working set version, so a
// mutation makes older entries unreachable.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, view string, compute func(records []models.Record) (any, error)) {
	cacheKey := providers.ViewKey(view, ac.workingSet.Version())
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute(ac.workingSet.Records())
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Computing %s failed: %s", view, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func criteriaFromQuery(r *http.Request) models.Criteria {
	q := r.URL.Query()
	return models.Criteria{
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		User:     q.Get("user"),
		Vehicle:  q.Get("vehicle"),
		SCAC:     q.Get("scac"),
		VRID:     q.Get("vrid"),
	}
}

func recordIndex(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get("index"))
}

// LoadRecords parses the raw request body into the working set.
// ?mode=append keeps existing records, ?clean=1 normalizes the new ones.
func (ac *ApiController) LoadRecords(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultUploadName
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	src, err := activity.ReadSource(r.Body, name)
	if err == nil && strings.TrimSpace(src.Content) == "" {
		err = &activity.InputError{Source: src.Name, Err: activity.ErrNoContent}
	}
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "Rejected upload: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode != "" && mode != services.ModeReplace && mode != services.ModeAppend {
		http.Error(w, fmt.Sprintf("unknown mode %q", mode), http.StatusBadRequest)
		return
	}

	count, err := ac.workingSet.Load(src.Content, mode, queryFlag(r, "clean"))
	if err != nil {
		var parseErr *activity.ParseError
		if errors.As(err, &parseErr) {
			ac.logger.Errorf(providers.TypePost, "Parse failure: %s", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.metrics.AddParsedRecords("http", count)

	records := ac.workingSet.Records()
	writeJSON(w, http.StatusCreated, loadResponse{
		Count:      count,
		Total:      len(records),
		FileStats:  activity.FileStats(records),
		Validation: activity.Validate(records),
	})
}

func (ac *ApiController) GetRecords(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r)
	if err := activity.ValidateCriteria(criteria); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "records?"+r.URL.RawQuery, func(records []models.Record) (any, error) {
		return activity.Filter(records, criteria), nil
	})
}

func (ac *ApiController) decodeRecord(w http.ResponseWriter, r *http.Request) (models.Record, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordSize)
	var rec models.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return rec, false
	}
	return rec, true
}

func (ac *ApiController) AddRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := ac.decodeRecord(w, r)
	if !ok {
		return
	}
	ac.workingSet.AddRecord(rec)
	writeJSON(w, http.StatusCreated, map[string]int{"total": ac.workingSet.Len()})
}

func (ac *ApiController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	index, err := recordIndex(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rec, ok := ac.decodeRecord(w, r)
	if !ok {
		return
	}
	if err := ac.workingSet.UpdateRecord(index, rec); err != nil {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	index, err := recordIndex(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.workingSet.DeleteRecord(index); err != nil {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) CleanRecords(w http.ResponseWriter, r *http.Request) {
	ac.workingSet.Clean()
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "categories", func(records []models.Record) (any, error) {
		return activity.Categorize(records), nil
	})
}

func (ac *ApiController) GetGrouped(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "grouped", func(records []models.Record) (any, error) {
		return activity.BuildGroupedViews(records).Rows(), nil
	})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func(records []models.Record) (any, error) {
		return activity.ComputeStats(records), nil
	})
}

func (ac *ApiController) GetValidation(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "validate", func(records []models.Record) (any, error) {
		return activity.Validate(records), nil
	})
}

func (ac *ApiController) GetPeriods(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = activity.PeriodDay
	}
	if err := activity.ValidatePeriod(period); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "periods:"+period, func(records []models.Record) (any, error) {
		return activity.GroupByPeriod(records, period)
	})
}

// Export writes the working set as delimited text (default) or as an XLSX
// workbook with one sheet per category.
func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	records := ac.workingSet.Records()

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		sep := ac.separator
		if raw := r.URL.Query().Get("sep"); raw != "" {
			var err error
			if sep, err = activity.ParseSeparator(raw); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="vehlog.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, activity.Export(records, sep))
	case "xlsx":
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="vehlog.xlsx"`)
		if err := activity.WriteXLSX(w, records, activity.Categorize(records)); err != nil {
			ac.logger.Errorf(providers.TypeGet, "XLSX export failed: %s", err)
		}
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
	}
}
