package tracker

// TypeOfWorkNormal is the tracker's classification code for ordinary work
// entries. Every worklog this tool submits uses it.
const TypeOfWorkNormal = 6

// Identity is the authenticated user behind a credential.
type Identity struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Project is an assignable project from the remote catalog.
type Project struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// UserRate is one record from the user-rate endpoint. Only the nested data
// block is meaningful to us.
type UserRate struct {
	Data RateData `json:"data"`
}

type RateData struct {
	BusyRate        float64 `json:"busy_rate"`
	UtilizationRate float64 `json:"utilization_rate"`
	WorkLogRate     float64 `json:"work_log_rate"`
}

// DayOverview is one calendar day of the timesheet overview: what was
// allocated and what has already been logged. Either summary may be absent.
type DayOverview struct {
	Date      string             `json:"date"`
	IsWeekend bool               `json:"isWeekend"`
	IsHoliday bool               `json:"isHoliday"`
	Allocated *AllocationSummary `json:"allocated"`
	WorkLogs  *WorkLogSummary    `json:"workLogs"`
}

type AllocationSummary struct {
	Detail []AllocationDetail `json:"detail"`
}

type AllocationDetail struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type WorkLogSummary struct {
	TotalHours float64         `json:"totalHours"`
	Detail     []WorkLogDetail `json:"detail"`
}

// WorkLogDetail is one already-logged record. Done carries the project code.
type WorkLogDetail struct {
	Done  string  `json:"done"`
	Hours float64 `json:"hours"`
}

// SubmissionPayload is the body of the worklog submission call. Built right
// before the request, never persisted.
type SubmissionPayload struct {
	WorkLogs []WorkLogEntry `json:"workLogs"`
}

type WorkLogEntry struct {
	Date        string  `json:"date"`
	Description *string `json:"description"`
	WorkHours   float64 `json:"workHours"`
	TypeOfWork  int     `json:"typeOfWork"`
	ProjectId   int     `json:"projectId"`
}

// Confirmation is the tracker's response to a submission. Some deployments
// answer 204 with no body; the client synthesizes a confirmation then.
type Confirmation struct {
	Message   string `json:"message"`
	ReceiptId string `json:"receiptId,omitempty"`
	Response  string `json:"response,omitempty"`
}
