package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// LockRecord stores a lock spec together with its expansion. One record can
// cover several periods of the same day.
type LockRecord struct {
	ID        string         `db:"id" json:"id"`
	DatasetID string         `db:"dataset_id" json:"dataset_id"`
	Name      string         `db:"name" json:"name"`
	Rooms     string         `db:"rooms" json:"rooms"`
	Groups    pq.StringArray `db:"groups" json:"groups"`
	Day       int            `db:"day" json:"day"`
	Periods   pq.Int64Array  `db:"periods" json:"periods"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Locks expands the record into one engine lock per period.
func (r LockRecord) Locks() []timetable.Lock {
	locks := make([]timetable.Lock, 0, len(r.Periods))
	for _, period := range r.Periods {
		locks = append(locks, timetable.Lock{
			Name:   r.Name,
			Groups: append([]string(nil), r.Groups...),
			Day:    timetable.Day(r.Day),
			Period: int(period),
		})
	}
	return locks
}

// LockRecordFrom collapses the expansion of one LockSpec into a record. All locks
// must share name, groups and day, which is what a LockSpec expands to.
func LockRecordFrom(datasetID, rooms string, locks []timetable.Lock) LockRecord {
	record := LockRecord{DatasetID: datasetID, Rooms: rooms}
	for i, lock := range locks {
		if i == 0 {
			record.Name = lock.Name
			record.Groups = pq.StringArray(append([]string{}, lock.Groups...))
			record.Day = int(lock.Day)
		}
		record.Periods = append(record.Periods, int64(lock.Period))
	}
	return record
}
