package query

import (
	"fmt"

	"firecalls/internal/config"
	"firecalls/internal/schema"
	"firecalls/internal/storage"
)

// Names of the default queries, in registry order.
const (
	DistinctCallTypeCount       = "distinct_call_type_count"
	DistinctCallTypes           = "distinct_call_types"
	LongDelayCalls              = "long_delay_calls"
	TopCallTypes                = "top_call_types"
	CallsByZipAndType           = "calls_by_zip_and_type"
	NeighborhoodsInZipcodes     = "neighborhoods_in_zipcodes"
	DelayStats                  = "delay_stats"
	DistinctYearCount           = "distinct_year_count"
	BusiestWeek                 = "busiest_week"
	WorstResponseByNeighborhood = "worst_response_by_neighborhood"
)

// Options parameterizes the default queries.
type Options struct {
	DatePattern    storage.DatePattern
	Year           int
	DelayThreshold float64
	Zipcodes       []int64
	TopN           int

	// CorrectIntent replaces the literal forms of distinct_year_count,
	// busiest_week and worst_response_by_neighborhood with the ones their
	// questions ask for: no ordering of the single count, busiest week
	// first, and one worst delay per neighborhood.
	CorrectIntent bool
}

// DefaultOptions mirrors config defaults.
func DefaultOptions() Options {
	return Options{
		DatePattern:    storage.MustDatePattern(storage.DefaultDatePattern),
		Year:           config.DefaultYear,
		DelayThreshold: config.DefaultDelayThreshold,
		Zipcodes:       append([]int64(nil), config.DefaultZipcodes...),
		TopN:           config.DefaultTopN,
	}
}

// OptionsFrom converts the queries block of a defaulted workflow config.
func OptionsFrom(q config.Queries) (Options, error) {
	p, err := storage.ParseDatePattern(q.DatePattern)
	if err != nil {
		return Options{}, fmt.Errorf("query: %w", err)
	}
	threshold := config.DefaultDelayThreshold
	if q.DelayThreshold != nil {
		threshold = *q.DelayThreshold
	}
	return Options{
		DatePattern:    p,
		Year:           q.Year,
		DelayThreshold: threshold,
		Zipcodes:       append([]int64(nil), q.Zipcodes...),
		TopN:           q.TopN,
		CorrectIntent:  q.CorrectIntent,
	}, nil
}

// Default builds the ten call-response queries.
func Default(opt Options) *Registry {
	var (
		callType     = Col(schema.ColCallType)
		callNumber   = Col(schema.ColCallNumber)
		delay        = Col(schema.ColDelay)
		zipcode      = Col(schema.ColZipcode)
		neighborhood = Col(schema.ColNeighborhood)
		callDate     = ParseDate(Col(schema.ColCallDate), opt.DatePattern)
		inYear       = Eq(Year(callDate), Int(int64(opt.Year)))
	)
	zips := make([]Expr, len(opt.Zipcodes))
	for i, z := range opt.Zipcodes {
		zips[i] = Int(z)
	}

	specs := []Spec{
		{
			Name:     DistinctCallTypeCount,
			Question: "How many distinct types of calls were made to the fire department?",
			Select:   []Selection{{CountDistinct(callType), "distinct_call_types"}},
			Where:    []Predicate{NotNull(callType)},
		},
		{
			Name:     DistinctCallTypes,
			Question: "What are the distinct types of calls made to the fire department?",
			Select:   []Selection{{callType, "Distinct_call_types_list"}},
			Distinct: true,
		},
		{
			Name:     LongDelayCalls,
			Question: fmt.Sprintf("Which calls had a response delay above %g minutes?", opt.DelayThreshold),
			Select:   []Selection{{callNumber, ""}, {delay, ""}},
			Where:    []Predicate{Gt(delay, Float(opt.DelayThreshold))},
		},
		{
			Name:     TopCallTypes,
			Question: "What were the most common call types?",
			Select:   []Selection{{callType, ""}, {Count(callType), "count"}},
			Where:    []Predicate{NotNull(callType)},
			GroupBy:  []Expr{callType},
			OrderBy:  []Order{{Alias("count"), true}},
			Limit:    opt.TopN,
		},
		{
			Name:     CallsByZipAndType,
			Question: "Which zip codes accounted for the most common calls?",
			Select:   []Selection{{zipcode, ""}, {callType, ""}, {Count(callType), "count"}},
			Where:    []Predicate{NotNull(callType)},
			GroupBy:  []Expr{callType, zipcode},
			OrderBy:  []Order{{Alias("count"), true}},
		},
		{
			Name:     NeighborhoodsInZipcodes,
			Question: "Which neighborhoods are in the selected zip codes?",
			Select:   []Selection{{neighborhood, ""}, {zipcode, ""}},
			Where:    []Predicate{In(zipcode, zips...)},
		},
		{
			Name:     DelayStats,
			Question: "What was the sum of alarms and the average, minimum and maximum delay?",
			Select: []Selection{
				{Sum(Col(schema.ColNumAlarms)), "total_alarms"},
				{Avg(delay), "avg_delay"},
				{Min(delay), "min_delay"},
				{Max(delay), "max_delay"},
			},
		},
		distinctYears(callDate, opt.CorrectIntent),
		busiestWeek(callDate, inYear, opt),
		worstResponse(neighborhood, delay, inYear, opt),
	}

	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

func distinctYears(callDate Expr, intent bool) Spec {
	s := Spec{
		Name:     DistinctYearCount,
		Question: "How many distinct years of data are in the dataset?",
		Select:   []Selection{{CountDistinct(Year(callDate)), "year_num"}},
	}
	if !intent {
		s.OrderBy = []Order{{Alias("year_num"), false}}
	}
	return s
}

func busiestWeek(callDate Expr, inYear Predicate, opt Options) Spec {
	week := ISOWeek(callDate)
	return Spec{
		Name:     BusiestWeek,
		Question: fmt.Sprintf("Which week of %d had the most calls?", opt.Year),
		Select:   []Selection{{week, "week_year"}, {CountAll(), "count"}},
		Where:    []Predicate{inYear},
		GroupBy:  []Expr{week},
		OrderBy:  []Order{{Alias("count"), opt.CorrectIntent}},
	}
}

func worstResponse(neighborhood, delay Expr, inYear Predicate, opt Options) Spec {
	s := Spec{
		Name:     WorstResponseByNeighborhood,
		Question: fmt.Sprintf("Which neighborhoods had the worst response times in %d?", opt.Year),
		Where:    []Predicate{inYear},
	}
	if opt.CorrectIntent {
		s.Select = []Selection{{neighborhood, ""}, {Max(delay), "worst_delay"}}
		s.GroupBy = []Expr{neighborhood}
		s.OrderBy = []Order{{Alias("worst_delay"), true}}
		return s
	}
	s.Select = []Selection{{neighborhood, ""}, {delay, ""}}
	s.OrderBy = []Order{{delay, true}}
	return s
}
