package repositories

import (
	"github.com/yigit/schoolsite/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	AdmissionRepository *AdmissionRepository
	UserRepository      *UserRepository
	ClassRepository     *ClassRepository
	NoticeRepository    *NoticeRepository
	SiteRepository      *SiteRepository
	StatsRepository     *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		AdmissionRepository: NewAdmissionRepository(q),
		UserRepository:      NewUserRepository(q),
		ClassRepository:     NewClassRepository(q),
		NoticeRepository:    NewNoticeRepository(q),
		SiteRepository:      NewSiteRepository(q),
		StatsRepository:     NewStatsRepository(q),
	}
}
