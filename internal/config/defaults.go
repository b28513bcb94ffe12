package config

// Defaults used by WithDefaults.
const (
	DefaultJob            = "firecalls"
	DefaultNamespace      = "fire_response_db"
	DefaultTable          = "fire_service_calls_tbl"
	DefaultCacheName      = "fire_service_cal_tbl_cache"
	DefaultWarehouse      = "warehouse"
	DefaultDatePattern    = "yyyy-MM-dd"
	DefaultYear           = 2018
	DefaultDelayThreshold = 5.0
	DefaultTopN           = 10
	DefaultBatchSize      = 5000
	DefaultQueryWorkers   = 4
)

// DefaultZipcodes are the neighborhood lookup zip codes.
var DefaultZipcodes = []int64{94102, 94103}

// WithDefaults returns a copy of w with every zero-valued setting replaced by
// its default. Booleans are left as decoded.
func (w Workflow) WithDefaults() Workflow {
	setS := func(p *string, v string) {
		if *p == "" {
			*p = v
		}
	}
	setI := func(p *int, v int) {
		if *p == 0 {
			*p = v
		}
	}

	setS(&w.Job, DefaultJob)
	setS(&w.Source.Kind, "file")
	setS(&w.Parser.Kind, "csv")
	if w.Parser.Options == nil {
		w.Parser.Options = Options{}
	}
	setS(&w.Storage.Kind, "sqlite")
	setS(&w.Storage.DB.Namespace, DefaultNamespace)
	setS(&w.Storage.DB.Table, DefaultTable)
	setS(&w.Storage.DB.CacheName, DefaultCacheName)
	if w.Storage.Kind == "sqlite" {
		setS(&w.Storage.DB.Warehouse, DefaultWarehouse)
	}

	q := &w.Queries
	setS(&q.DatePattern, DefaultDatePattern)
	setI(&q.Year, DefaultYear)
	if q.DelayThreshold == nil {
		v := DefaultDelayThreshold
		q.DelayThreshold = &v
	}
	if len(q.Zipcodes) == 0 {
		q.Zipcodes = append([]int64(nil), DefaultZipcodes...)
	}
	setI(&q.TopN, DefaultTopN)

	setI(&w.Runtime.BatchSize, DefaultBatchSize)
	setI(&w.Runtime.QueryWorkers, DefaultQueryWorkers)
	return w
}
