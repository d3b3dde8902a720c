package models

import "time"

type Team struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	ClassLabel string    `json:"class_label" db:"class_label"`
	Modality   string    `json:"modality" db:"modality"`
	Category   string    `json:"category" db:"category"`
	GroupLabel *string   `json:"group_label,omitempty" db:"group_label"`
	CrestKey   *string   `json:"-" db:"crest_key"`
	CrestURL   *string   `json:"crest_url,omitempty" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
