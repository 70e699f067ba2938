package models

import "time"

// DatasetSource records where a dataset's subjects came from.
type DatasetSource string

const (
	DatasetSourceSheet  DatasetSource = "SHEET"
	DatasetSourceManual DatasetSource = "MANUAL"
)

// Dataset is one imported set of scheduling inputs: subjects, building order
// and locks. Generated timetables are derived from it on demand.
type Dataset struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Source       DatasetSource `db:"source" json:"source"`
	SheetURL     string        `db:"sheet_url" json:"sheet_url,omitempty"`
	SubjectGID   string        `db:"subject_gid" json:"subject_gid,omitempty"`
	BuildingGID  string        `db:"building_gid" json:"building_gid,omitempty"`
	SubjectCount int           `db:"subject_count" json:"subject_count"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// DatasetFilter captures listing options for datasets.
type DatasetFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
