package dto

// SubjectInput is one subject row supplied directly as JSON.
type SubjectInput struct {
	Code        string   `json:"code" validate:"required"`
	Credit      float64  `json:"credit" validate:"gte=0,lte=20"`
	Teacher     string   `json:"teacher"`
	Weight      float64  `json:"weight"`
	Group       string   `json:"group" validate:"required"`
	ActualRooms []string `json:"actualRooms" validate:"omitempty,dive,required"`
}

// BuildingInput maps a building letter to its numeric prefix.
type BuildingInput struct {
	Letter string `json:"letter" validate:"required"`
	Number int    `json:"number" validate:"min=0"`
}

// ImportDatasetRequest imports a dataset from a published Google Sheet.
type ImportDatasetRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	SheetURL    string `json:"sheetUrl" validate:"required,url"`
	SubjectGID  string `json:"subjectGid" validate:"required,numeric"`
	BuildingGID string `json:"buildingGid" validate:"omitempty,numeric"`
	// Refresh bypasses the cached sheet payload.
	Refresh bool `json:"refresh"`
}

// CreateDatasetRequest creates a dataset from inline subjects.
type CreateDatasetRequest struct {
	Name      string          `json:"name" validate:"required,max=200"`
	Subjects  []SubjectInput  `json:"subjects" validate:"required,min=1,dive"`
	Buildings []BuildingInput `json:"buildings" validate:"omitempty,dive"`
}

// DatasetResponse describes a stored dataset.
type DatasetResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Source       string   `json:"source"`
	SheetURL     string   `json:"sheetUrl,omitempty"`
	SubjectCount int      `json:"subjectCount"`
	Groups       []string `json:"groups,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

// CreateLockRequest reserves a slot for the listed groups.
type CreateLockRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Rooms   string `json:"rooms" validate:"required"`
	Day     string `json:"day" validate:"required"`
	Periods string `json:"periods" validate:"required"`
}

// LockResponse is a stored lock with its expansion.
type LockResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Rooms   string   `json:"rooms"`
	Groups  []string `json:"groups"`
	Day     string   `json:"day"`
	Periods []int    `json:"periods"`
}

// GenerateTimetableRequest controls a generation run. Groups, when given,
// fixes the scheduling order; otherwise every group of the dataset is
// scheduled in room order.
type GenerateTimetableRequest struct {
	Groups []string `json:"groups" validate:"omitempty,dive,required"`
}

// TimetableCell is one slot of a group's table.
type TimetableCell struct {
	Slot      string `json:"slot"`
	Day       string `json:"day"`
	Period    int    `json:"period"`
	Kind      string `json:"kind"`
	Label     string `json:"label,omitempty"`
	Code      string `json:"code,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Room      string `json:"room,omitempty"`
	RoomLabel string `json:"roomLabel,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// UnplacedTask is a task left over after every slot was tried.
type UnplacedTask struct {
	Code    string  `json:"code"`
	Teacher string  `json:"teacher"`
	Weight  float64 `json:"weight"`
}

// GroupTimetable is the weekly table of one group.
type GroupTimetable struct {
	Group       string          `json:"group"`
	TotalCredit float64         `json:"totalCredit"`
	Placed      int             `json:"placed"`
	Cells       []TimetableCell `json:"cells"`
	Unplaced    []UnplacedTask  `json:"unplaced"`
}

// TimetableSummary aggregates a run.
type TimetableSummary struct {
	Groups     int   `json:"groups"`
	Placements int   `json:"placements"`
	Unplaced   int   `json:"unplaced"`
	DurationMs int64 `json:"durationMs"`
}

// TimetableResponse is the outcome of a generation run.
type TimetableResponse struct {
	DatasetID string           `json:"datasetId"`
	Groups    []GroupTimetable `json:"groups"`
	Summary   TimetableSummary `json:"summary"`
}

// ExportTimetableQuery selects the export format and optionally one group.
type ExportTimetableQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf xlsx"`
	Group  string `form:"group"`
}
