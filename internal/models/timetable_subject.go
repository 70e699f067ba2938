package models

import (
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// SubjectRecord is one subject row of a dataset, already split per group.
type SubjectRecord struct {
	ID          string         `db:"id" json:"id"`
	DatasetID   string         `db:"dataset_id" json:"dataset_id"`
	Position    int            `db:"position" json:"position"`
	Code        string         `db:"code" json:"code"`
	Credit      float64        `db:"credit" json:"credit"`
	Teacher     string         `db:"teacher" json:"teacher"`
	Weight      float64        `db:"weight" json:"weight"`
	GroupName   string         `db:"group_name" json:"group"`
	ActualRooms pq.StringArray `db:"actual_rooms" json:"actual_rooms"`
}

// Subject converts the record into the scheduling engine's form.
func (r SubjectRecord) Subject() timetable.Subject {
	return timetable.Subject{
		Code:        r.Code,
		Credit:      r.Credit,
		Teacher:     r.Teacher,
		Weight:      r.Weight,
		Group:       r.GroupName,
		ActualRooms: append([]string(nil), r.ActualRooms...),
	}
}

// SubjectRecordFrom builds a record for persistence.
func SubjectRecordFrom(datasetID string, position int, s timetable.Subject) SubjectRecord {
	return SubjectRecord{
		DatasetID:   datasetID,
		Position:    position,
		Code:        s.Code,
		Credit:      s.Credit,
		Teacher:     s.Teacher,
		Weight:      s.Weight,
		GroupName:   s.Group,
		ActualRooms: pq.StringArray(append([]string{}, s.ActualRooms...)),
	}
}

// BuildingRecord maps a building letter to its numeric prefix for a dataset.
type BuildingRecord struct {
	DatasetID string `db:"dataset_id" json:"-"`
	Letter    string `db:"letter" json:"letter"`
	Number    int    `db:"number" json:"number"`
}

// BuildingMap folds records into the engine's lookup.
func BuildingMap(records []BuildingRecord) timetable.BuildingMap {
	buildings := make(timetable.BuildingMap, len(records))
	for _, r := range records {
		buildings[r.Letter] = r.Number
	}
	return buildings
}
