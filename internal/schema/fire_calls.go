package schema

// Default object names used when the workflow config leaves them empty.
const (
	DefaultNamespace = "fire_response_db"
	DefaultTable     = "fire_service_calls_tbl"
	DefaultCacheName = "fire_service_cal_tbl_cache"
)

// Column names referenced by the analytic queries.
const (
	ColCallNumber   = "CallNumber"
	ColCallType     = "CallType"
	ColCallDate     = "CallDate"
	ColZipcode      = "Zipcode"
	ColNumAlarms    = "NumAlarms"
	ColNeighborhood = "Neighborhood"
	ColDelay        = "Delay"
)

// FireServiceCalls is the declared 28-column layout of the call-response
// table. The CSV header must list the same columns in the same order.
var FireServiceCalls = []Column{
	{Name: "CallNumber", Type: Int, Nullable: true},
	{Name: "UnitID", Type: Text, Nullable: true},
	{Name: "IncidentNumber", Type: Int, Nullable: true},
	{Name: "CallType", Type: Text, Nullable: true},
	{Name: "CallDate", Type: Text, Nullable: true},
	{Name: "WatchDate", Type: Text, Nullable: true},
	{Name: "CallFinalDisposition", Type: Text, Nullable: true},
	{Name: "AvailableDtTm", Type: Text, Nullable: true},
	{Name: "Address", Type: Text, Nullable: true},
	{Name: "City", Type: Text, Nullable: true},
	{Name: "Zipcode", Type: Int, Nullable: true},
	{Name: "Battalion", Type: Text, Nullable: true},
	{Name: "StationArea", Type: Text, Nullable: true},
	{Name: "Box", Type: Text, Nullable: true},
	{Name: "OriginalPriority", Type: Text, Nullable: true},
	{Name: "Priority", Type: Text, Nullable: true},
	{Name: "FinalPriority", Type: Int, Nullable: true},
	{Name: "ALSUnit", Type: Bool, Nullable: true},
	{Name: "CallTypeGroup", Type: Text, Nullable: true},
	{Name: "NumAlarms", Type: Int, Nullable: true},
	{Name: "UnitType", Type: Text, Nullable: true},
	{Name: "UnitSequenceInCallDispatch", Type: Int, Nullable: true},
	{Name: "FirePreventionDistrict", Type: Text, Nullable: true},
	{Name: "SupervisorDistrict", Type: Text, Nullable: true},
	{Name: "Neighborhood", Type: Text, Nullable: true},
	{Name: "Location", Type: Text, Nullable: true},
	{Name: "RowID", Type: Text, Nullable: true},
	{Name: "Delay", Type: Float, Nullable: true},
}

// FireServiceCall is one dispatch record. Pointer fields are nullable; the
// csv tags match the source header so the struct can be encoded or decoded
// with csvutil.
type FireServiceCall struct {
	CallNumber                 *int64   `csv:"CallNumber,omitempty"`
	UnitID                     string   `csv:"UnitID"`
	IncidentNumber             *int64   `csv:"IncidentNumber,omitempty"`
	CallType                   string   `csv:"CallType"`
	CallDate                   string   `csv:"CallDate"`
	WatchDate                  string   `csv:"WatchDate"`
	CallFinalDisposition       string   `csv:"CallFinalDisposition"`
	AvailableDtTm              string   `csv:"AvailableDtTm"`
	Address                    string   `csv:"Address"`
	City                       string   `csv:"City"`
	Zipcode                    *int64   `csv:"Zipcode,omitempty"`
	Battalion                  string   `csv:"Battalion"`
	StationArea                string   `csv:"StationArea"`
	Box                        string   `csv:"Box"`
	OriginalPriority           string   `csv:"OriginalPriority"`
	Priority                   string   `csv:"Priority"`
	FinalPriority              *int64   `csv:"FinalPriority,omitempty"`
	ALSUnit                    *bool    `csv:"ALSUnit,omitempty"`
	CallTypeGroup              string   `csv:"CallTypeGroup"`
	NumAlarms                  *int64   `csv:"NumAlarms,omitempty"`
	UnitType                   string   `csv:"UnitType"`
	UnitSequenceInCallDispatch *int64   `csv:"UnitSequenceInCallDispatch,omitempty"`
	FirePreventionDistrict     string   `csv:"FirePreventionDistrict"`
	SupervisorDistrict         string   `csv:"SupervisorDistrict"`
	Neighborhood               string   `csv:"Neighborhood"`
	Location                   string   `csv:"Location"`
	RowID                      string   `csv:"RowID"`
	Delay                      *float64 `csv:"Delay,omitempty"`
}
