package sqlite

import (
	"time"

	"github.com/poiesic/tenderidx/core"
)

// proposalRow is the GORM model backing the proposal_index table.
// Slice fields are stored as JSON columns. The ID is stored as int64
// because database/sql rejects uint64 values with the high bit set,
// and blake2b-derived IDs use the full 64-bit range.
type proposalRow struct {
	Id               int64     `gorm:"column:id"`
	FolderName       string    `gorm:"column:folder_name;primaryKey"`
	TenderNumber     string    `gorm:"column:tender_number"`
	Title            string    `gorm:"column:title"`
	Client           string    `gorm:"column:client"`
	Sector           string    `gorm:"column:sector;index"`
	Country          string    `gorm:"column:country"`
	TechnicalSummary string    `gorm:"column:technical_summary"`
	PricingSummary   string    `gorm:"column:pricing_summary"`
	FullSummary      string    `gorm:"column:full_summary"`
	TotalPrice       float64   `gorm:"column:total_price"`
	MarginInfo       string    `gorm:"column:margin_info"`
	Technologies     []string  `gorm:"column:technologies;serializer:json"`
	Keywords         []string  `gorm:"column:keywords;serializer:json"`
	FileCount        int       `gorm:"column:file_count"`
	FileList         []string  `gorm:"column:file_list;serializer:json"`
	IndexedAt        time.Time `gorm:"column:indexed_at;index"`
}

func (proposalRow) TableName() string {
	return "proposal_index"
}

func rowFromEntry(entry *core.ProposalIndexEntry) *proposalRow {
	return &proposalRow{
		Id:               int64(entry.Id),
		FolderName:       entry.FolderName,
		TenderNumber:     entry.TenderNumber,
		Title:            entry.Title,
		Client:           entry.Client,
		Sector:           entry.Sector,
		Country:          entry.Country,
		TechnicalSummary: entry.TechnicalSummary,
		PricingSummary:   entry.PricingSummary,
		FullSummary:      entry.FullSummary,
		TotalPrice:       entry.TotalPrice,
		MarginInfo:       entry.MarginInfo,
		Technologies:     entry.Technologies,
		Keywords:         entry.Keywords,
		FileCount:        entry.FileCount,
		FileList:         entry.FileList,
		IndexedAt:        entry.IndexedAt,
	}
}

func (r *proposalRow) toEntry() *core.ProposalIndexEntry {
	return &core.ProposalIndexEntry{
		Id:               core.ID(uint64(r.Id)),
		FolderName:       r.FolderName,
		TenderNumber:     r.TenderNumber,
		Title:            r.Title,
		Client:           r.Client,
		Sector:           r.Sector,
		Country:          r.Country,
		TechnicalSummary: r.TechnicalSummary,
		PricingSummary:   r.PricingSummary,
		FullSummary:      r.FullSummary,
		TotalPrice:       r.TotalPrice,
		MarginInfo:       r.MarginInfo,
		Technologies:     r.Technologies,
		Keywords:         r.Keywords,
		FileCount:        r.FileCount,
		FileList:         r.FileList,
		IndexedAt:        r.IndexedAt,
	}
}
