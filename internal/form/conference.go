// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"context"
	"strings"
	"time"

	"github.com/olegiv/confdesk/internal/model"
)

// MsgRequiredFields is the aggregate message for a conference form with blank required fields.
const MsgRequiredFields = "Please fill in all required fields (marked with *)"

// ConferenceWriter creates and updates conferences.
type ConferenceWriter interface {
	CreateConference(ctx context.Context, token string, conf model.Conference) error
	UpdateConference(ctx context.Context, token, id string, conf model.Conference) error
}

// ConferenceFields holds the raw text of every conference form input.
type ConferenceFields struct {
	Title       string
	Date        string
	Description string
	ImageURL    string
	Content     string
	Duration    string

	MainColor   string
	SecondColor string

	AddressLine1 string
	AddressLine2 string
	PostalCode   string
	City         string

	SpeakerFirstname string
	SpeakerLastname  string

	StakeholderFirstname string
	StakeholderLastname  string
	StakeholderJob       string
	StakeholderImageURL  string
}

// ConferenceForm creates a conference, or edits one when built from an
// existing record.
type ConferenceForm struct {
	inflight

	Fields ConferenceFields

	existing    *model.Conference
	coordinates []float64
}

// NewConferenceForm returns a form prefilled from existing, or an empty
// create form when existing is nil.
func NewConferenceForm(existing *model.Conference) *ConferenceForm {
	f := &ConferenceForm{
		Fields: ConferenceFields{
			MainColor:   model.DefaultMainColor,
			SecondColor: model.DefaultSecondColor,
		},
	}
	if existing == nil {
		return f
	}

	c := *existing
	f.existing = &c

	f.Fields.Title = c.Title
	f.Fields.Date = normalizeDate(c.Date)
	f.Fields.Description = c.Description
	f.Fields.ImageURL = c.ImageURL
	f.Fields.Content = c.Content
	f.Fields.Duration = c.Duration
	if c.Design.MainColor != "" {
		f.Fields.MainColor = c.Design.MainColor
	}
	if c.Design.SecondColor != "" {
		f.Fields.SecondColor = c.Design.SecondColor
	}
	if c.Location != nil {
		f.Fields.AddressLine1 = c.Location.Line1
		f.Fields.AddressLine2 = c.Location.Line2
		f.Fields.PostalCode = c.Location.PostalCode
		f.Fields.City = c.Location.City
		f.coordinates = c.Location.Coordinates
	}
	if len(c.Speakers) > 0 {
		f.Fields.SpeakerFirstname = c.Speakers[0].Firstname
		f.Fields.SpeakerLastname = c.Speakers[0].Lastname
	}
	if len(c.Stakeholders) > 0 {
		f.Fields.StakeholderFirstname = c.Stakeholders[0].Firstname
		f.Fields.StakeholderLastname = c.Stakeholders[0].Lastname
		f.Fields.StakeholderJob = c.Stakeholders[0].Job
		f.Fields.StakeholderImageURL = c.Stakeholders[0].ImageURL
	}
	return f
}

// IsEdit reports whether the form edits an existing conference.
func (f *ConferenceForm) IsEdit() bool {
	return f.existing != nil
}

// Heading returns the form title.
func (f *ConferenceForm) Heading() string {
	if f.IsEdit() {
		return "Edit conference"
	}
	return "Create a new conference"
}

// Inputs lists the form inputs in display order.
func (f *ConferenceForm) Inputs() []Input {
	v := &f.Fields
	return []Input{
		{Name: "title", Label: "Title", Required: true, Value: &v.Title},
		{Name: "date", Label: "Date (YYYY-MM-DD)", Required: true, Value: &v.Date},
		{Name: "description", Label: "Short description", Required: true, Value: &v.Description},
		{Name: "img", Label: "Image URL", Required: true, Value: &v.ImageURL},
		{Name: "content", Label: "Content", Required: true, Value: &v.Content},
		{Name: "duration", Label: "Duration", Value: &v.Duration},
		{Name: "mainColor", Label: "Main color", Value: &v.MainColor},
		{Name: "secondColor", Label: "Second color", Value: &v.SecondColor},
		{Name: "addressl1", Label: "Address line 1", Value: &v.AddressLine1},
		{Name: "addressl2", Label: "Address line 2", Value: &v.AddressLine2},
		{Name: "postalCode", Label: "Postal code", Value: &v.PostalCode},
		{Name: "city", Label: "City", Value: &v.City},
		{Name: "speakerFirstname", Label: "Speaker first name", Required: true, Value: &v.SpeakerFirstname},
		{Name: "speakerLastname", Label: "Speaker last name", Required: true, Value: &v.SpeakerLastname},
		{Name: "stakeholderFirstname", Label: "Stakeholder first name", Required: true, Value: &v.StakeholderFirstname},
		{Name: "stakeholderLastname", Label: "Stakeholder last name", Required: true, Value: &v.StakeholderLastname},
		{Name: "stakeholderJob", Label: "Stakeholder job", Value: &v.StakeholderJob},
		{Name: "stakeholderImg", Label: "Stakeholder photo URL", Value: &v.StakeholderImageURL},
	}
}

// Validate runs the required-field check. It returns nil when every
// required field is present.
func (f *ConferenceForm) Validate() *ValidationError {
	names := missing(f.Inputs())
	if len(names) == 0 {
		return nil
	}
	return &ValidationError{Message: MsgRequiredFields, Fields: names}
}

// Payload assembles the conference sent to the service.
func (f *ConferenceForm) Payload() model.Conference {
	v := f.Fields
	mainColor := strings.TrimSpace(v.MainColor)
	if mainColor == "" {
		mainColor = model.DefaultMainColor
	}
	secondColor := strings.TrimSpace(v.SecondColor)
	if secondColor == "" {
		secondColor = model.DefaultSecondColor
	}
	coordinates := f.coordinates
	if coordinates == nil {
		coordinates = []float64{}
	}

	return model.Conference{
		Title:       strings.TrimSpace(v.Title),
		Date:        strings.TrimSpace(v.Date),
		Description: strings.TrimSpace(v.Description),
		ImageURL:    strings.TrimSpace(v.ImageURL),
		Content:     strings.TrimSpace(v.Content),
		Duration:    strings.TrimSpace(v.Duration),
		Design: model.Design{
			MainColor:   mainColor,
			SecondColor: secondColor,
		},
		Location: &model.Location{
			Line1:       strings.TrimSpace(v.AddressLine1),
			Line2:       strings.TrimSpace(v.AddressLine2),
			PostalCode:  strings.TrimSpace(v.PostalCode),
			City:        strings.TrimSpace(v.City),
			Coordinates: coordinates,
		},
		Speakers: []model.Speaker{{
			Firstname: strings.TrimSpace(v.SpeakerFirstname),
			Lastname:  strings.TrimSpace(v.SpeakerLastname),
		}},
		Stakeholders: []model.Stakeholder{{
			Firstname: strings.TrimSpace(v.StakeholderFirstname),
			Lastname:  strings.TrimSpace(v.StakeholderLastname),
			Job:       strings.TrimSpace(v.StakeholderJob),
			ImageURL:  strings.TrimSpace(v.StakeholderImageURL),
		}},
	}
}

// Submit validates the form and issues exactly one create or update call.
// onSuccess runs once when the call succeeds. The form is disabled until
// the call settles, whatever its outcome.
func (f *ConferenceForm) Submit(ctx context.Context, w ConferenceWriter, token string, onSuccess func()) error {
	if !f.begin() {
		return ErrSubmitting
	}
	defer f.end()

	if verr := f.Validate(); verr != nil {
		return verr
	}

	payload := f.Payload()
	var err error
	if f.IsEdit() {
		err = w.UpdateConference(ctx, token, f.existing.ID, payload)
	} else {
		err = w.CreateConference(ctx, token, payload)
	}
	if err != nil {
		return err
	}

	if onSuccess != nil {
		onSuccess()
	}
	return nil
}

// dateLayouts are the date encodings accepted when prefilling a form.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeDate renders s as YYYY-MM-DD in UTC. Unparseable values are kept.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return s
}
