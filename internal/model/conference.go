// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "encoding/json"

// Default design colors applied when a conference has none.
const (
	DefaultMainColor   = "#007bff"
	DefaultSecondColor = "#6c757d"
)

// Conference is a conference as exchanged with the conference service.
// JSON names follow the service contract, not the Go field names.
type Conference struct {
	ID           string        `json:"id,omitempty"`
	Title        string        `json:"title"`
	Date         string        `json:"date"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"img"`
	Content      string        `json:"content"`
	Duration     string        `json:"duration,omitempty"`
	Design       Design        `json:"design"`
	Location     *Location     `json:"osMap,omitempty"`
	Speakers     []Speaker     `json:"speakers"`
	Stakeholders []Stakeholder `json:"stakeholders"`
}

// Design holds the conference color scheme.
type Design struct {
	MainColor   string `json:"mainColor"`
	SecondColor string `json:"secondColor"`
}

// Location is the postal address of a conference.
type Location struct {
	Line1       string    `json:"addressl1"`
	Line2       string    `json:"addressl2"`
	PostalCode  string    `json:"postalCode"`
	City        string    `json:"city"`
	Coordinates []float64 `json:"coordinates"`
}

// IsEmpty reports whether no address field is set.
func (l *Location) IsEmpty() bool {
	return l == nil || (l.Line1 == "" && l.Line2 == "" && l.PostalCode == "" && l.City == "")
}

// Speaker is a person presenting at a conference.
type Speaker struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Stakeholder is a person organising a conference.
type Stakeholder struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Job       string `json:"job,omitempty"`
	ImageURL  string `json:"img,omitempty"`
}

// UnmarshalJSON decodes a conference, taking the storage "_id" as the
// identifier when the service omits "id".
func (c *Conference) UnmarshalJSON(data []byte) error {
	type plain Conference
	aux := struct {
		*plain
		StorageID string `json:"_id"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.StorageID
	}
	return nil
}
