// Package schedule defines the lookup store of study-session schedules read
// by database_query nodes.
package schedule

import (
	"context"
	"sort"

	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
)

// Schedule is a single study session.
type Schedule struct {
	ID      int    `json:"-" yaml:"id"`
	Date    string `json:"tanggal" yaml:"tanggal"`
	Time    string `json:"waktu" yaml:"waktu"`
	Speaker string `json:"ustadz" yaml:"ustadz"`
	Topic   string `json:"tema" yaml:"tema"`
	Place   string `json:"lokasi" yaml:"lokasi"`
	Active  bool   `json:"-" yaml:"active"`
}

// Field exposes filterable attributes.
func (s *Schedule) Field() criteria.Field {
	return func(name string) (interface{}, bool) {
		switch name {
		case "Active":
			return s.Active, true
		case "Date":
			return s.Date, true
		case "Speaker":
			return s.Speaker, true
		}
		return nil, false
	}
}

// Store is the schedule lookup store.
type Store interface {
	dao.Service[int, Schedule]
	// Active returns active sessions ordered by date.
	Active(ctx context.Context) ([]*Schedule, error)
}

// Samples are the development seed rows.
func Samples() []*Schedule {
	return []*Schedule{
		{Date: "2024-01-15", Time: "19:30", Speaker: "Ahmad Dahlan", Topic: "Akhlak dalam Islam", Place: "Aula Masjid", Active: true},
		{Date: "2024-01-22", Time: "20:00", Speaker: "Muhammad Ridwan", Topic: "Fiqh Muamalah", Place: "Aula Masjid", Active: true},
		{Date: "2024-01-29", Time: "19:30", Speaker: "Abdullah Syukur", Topic: "Tafsir Al-Quran", Place: "Aula Masjid", Active: true},
	}
}

// SortByDate orders sessions by date, then id.
func SortByDate(schedules []*Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].Date != schedules[j].Date {
			return schedules[i].Date < schedules[j].Date
		}
		return schedules[i].ID < schedules[j].ID
	})
}
