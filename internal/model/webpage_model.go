package model

type WebPage struct {
	URL       string  `gorm:"column:url;type:varchar(2048);primaryKey"`
	Title     *string `gorm:"type:varchar(512)"`
	Domain    *string `gorm:"type:varchar(255);index"`
	Content   string  `gorm:"type:text"`
	FetchedAt int64   `gorm:"column:fetched_at;not null"`
	Status    string  `gorm:"type:varchar(32)"`
}

func (WebPage) TableName() string {
	return "web_pages"
}

type WebChunk struct {
	Id         int64   `gorm:"primaryKey;autoIncrement"`
	URL        string  `gorm:"column:url;type:varchar(2048);not null;index"`
	ChunkIndex int     `gorm:"column:chunk_index;not null"`
	Text       string  `gorm:"type:text"`
	Emb        []byte  `gorm:"column:emb"`
	Norm       float64 `gorm:"column:norm"`
}

func (WebChunk) TableName() string {
	return "web_chunks"
}
