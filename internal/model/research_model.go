package model

type ResearchRun struct {
	Id        string `gorm:"type:varchar(64);primaryKey"`
	Question  string `gorm:"type:text;not null"`
	Status    string `gorm:"type:varchar(32);not null;index"`
	CreatedAt int64  `gorm:"column:created_at;not null"`
}

func (ResearchRun) TableName() string {
	return "research_runs"
}

type ResearchSource struct {
	RunId    string  `gorm:"column:run_id;type:varchar(64);primaryKey"`
	RefId    string  `gorm:"column:ref_id;type:varchar(128);primaryKey"`
	Title    *string `gorm:"type:varchar(512)"`
	URL      *string `gorm:"type:varchar(2048)"`
	Pinned   bool    `gorm:"default:false"`
	Excluded bool    `gorm:"default:false"`
}

func (ResearchSource) TableName() string {
	return "research_sources"
}
