package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ContentItem is the persisted form of a content record. The check
// constraint on Type mirrors archive.Categories and acts as the second
// safety net behind the alias normalizer: a category that passed through
// the normalizer unrecognized is rejected here instead of stored verbatim.
type ContentItem struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid"`
	Type              string         `json:"type" gorm:"type:text;not null;index;check:type IN ('letter','diary_entry','photo','audio_recording','video','news_clipping','anecdote','interview','document','transcript')"`
	Title             string         `json:"title" gorm:"type:text;not null"`
	Description       string         `json:"description" gorm:"type:text"`
	ContentText       string         `json:"content_text" gorm:"type:text"`
	ContentDate       *time.Time     `json:"content_date" gorm:"type:date;index"`
	DateIsApproximate bool           `json:"date_is_approximate" gorm:"not null;default:false"`
	ContributorName   string         `json:"contributor_name" gorm:"type:text"`
	ContributorEmail  string         `json:"contributor_email" gorm:"type:text"`
	ContributorPhone  string         `json:"contributor_phone" gorm:"type:text"`
	Location          string         `json:"location" gorm:"type:text"`
	PeopleMentioned   pq.StringArray `json:"people_mentioned" gorm:"type:text[]"`
	IsPublic          bool           `json:"is_public" gorm:"not null;default:true;index"`
	IsSensitive       bool           `json:"is_sensitive" gorm:"not null;default:false"`
	Source            string         `json:"source" gorm:"type:text;not null"`
	SourceDetails     datatypes.JSON `json:"source_details" gorm:"type:jsonb"`
	CDate             time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (ContentItem) TableName() string { return "content_items" }
