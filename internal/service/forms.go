// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/notify"
	"github.com/olegiv/landing-cms/internal/store"
)

// Form limits. Submitted values share the lead limits.
const (
	MaxFormFields     = 50
	MaxFormNameLength = 200
)

// HoneypotField is the hidden input bots fill in. It cannot be used as a
// field name.
const HoneypotField = "_website"

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// FormInput holds the editable fields of a form. A nil IsActive keeps the
// current value, or means active on create.
type FormInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      []model.FormField `json:"fields"`
	IsActive    *bool             `json:"is_active"`
}

// FormService manages standalone forms and their submissions.
type FormService struct {
	queries  *store.Queries
	policy   *bluemonday.Policy
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewFormService creates a new FormService. notifier may be nil.
func NewFormService(db *sql.DB, notifier Notifier, logger *slog.Logger) *FormService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormService{
		queries:  store.New(db),
		policy:   bluemonday.StrictPolicy(),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create adds a form owned by userID.
func (s *FormService) Create(ctx context.Context, userID int64, in FormInput) (*model.Form, error) {
	name, fieldsJSON, err := s.normalizeForm(in)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := s.now().UTC()
	f, err := s.queries.CreateForm(ctx, store.CreateFormParams{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		FieldsJson:  fieldsJSON,
		IsActive:    active,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating form", "form")
	}

	s.logger.Info("form created", "form_id", f.ID, "user_id", userID)
	return formFromStore(f, 0), nil
}

// Update replaces the name, description and fields of a form.
// Existing submissions keep the answers they were stored with.
func (s *FormService) Update(ctx context.Context, userID, formID int64, in FormInput) (*model.Form, error) {
	existing, err := s.getOwned(ctx, userID, formID)
	if err != nil {
		return nil, err
	}

	name, fieldsJSON, err := s.normalizeForm(in)
	if err != nil {
		return nil, err
	}

	active := existing.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}

	f, err := s.queries.UpdateForm(ctx, store.UpdateFormParams{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		FieldsJson:  fieldsJSON,
		IsActive:    active,
		UpdatedAt:   s.now().UTC(),
		ID:          existing.ID,
	})
	if err != nil {
		return nil, translateStoreErr(err, "updating form", "form")
	}
	return formFromStore(f, existing.SubmissionCount), nil
}

// Delete removes a form together with its submissions.
func (s *FormService) Delete(ctx context.Context, userID, formID int64) error {
	f, err := s.getOwned(ctx, userID, formID)
	if err != nil {
		return err
	}
	if err := s.queries.DeleteForm(ctx, f.ID); err != nil {
		return fmt.Errorf("deleting form: %w", err)
	}
	s.logger.Info("form deleted", "form_id", f.ID, "user_id", userID, "submissions", f.SubmissionCount)
	return nil
}

// Get returns one of the caller's forms with its submission count.
func (s *FormService) Get(ctx context.Context, userID, formID int64) (*model.Form, error) {
	f, err := s.getOwned(ctx, userID, formID)
	if err != nil {
		return nil, err
	}
	return formFromStore(f.Form, f.SubmissionCount), nil
}

// GetActive returns a form visitors may submit to.
func (s *FormService) GetActive(ctx context.Context, formID int64) (*model.Form, error) {
	f, err := s.queries.GetActiveForm(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("form not found")
		}
		return nil, fmt.Errorf("getting form: %w", err)
	}
	return formFromStore(f, 0), nil
}

// List returns the caller's forms, newest first.
func (s *FormService) List(ctx context.Context, userID int64, page, pageSize int) (*model.List[model.Form], error) {
	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListFormsForUser(ctx, store.ListFormsForUserParams{
		UserID: userID,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}

	total, err := s.queries.CountFormsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting forms: %w", err)
	}

	items := make([]model.Form, 0, len(rows))
	for _, r := range rows {
		items = append(items, *formFromStore(r.Form, r.SubmissionCount))
	}
	return &model.List[model.Form]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Submit validates a visitor's answers against the form's fields and
// stores them. Only declared fields are kept, with markup stripped.
// Per-field problems are reported together in Error.Fields.
func (s *FormService) Submit(ctx context.Context, formID int64, data map[string]string, ip, userAgent string) (*model.FormSubmission, error) {
	form, err := s.GetActive(ctx, formID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(form.Fields))
	fieldErrors := map[string]string{}
	for _, field := range form.Fields {
		raw := strings.TrimSpace(data[field.Name])
		if utf8.RuneCountInString(raw) > MaxLeadFieldValue {
			fieldErrors[field.Name] = fmt.Sprintf("%s is too long (max %d characters)", field.Label, MaxLeadFieldValue)
			continue
		}
		value := plainText(s.policy, raw)

		if value == "" {
			if field.Required {
				fieldErrors[field.Name] = fmt.Sprintf("%s is required", field.Label)
			}
			continue
		}
		if msg := checkFieldValue(field, value); msg != "" {
			fieldErrors[field.Name] = msg
			continue
		}
		values[field.Name] = value
	}

	if len(fieldErrors) > 0 {
		return nil, invalidFields("submission has invalid fields", fieldErrors)
	}
	if len(values) == 0 {
		return nil, invalid("form data is required")
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encoding submission: %w", err)
	}

	row, err := s.queries.CreateFormSubmission(ctx, store.CreateFormSubmissionParams{
		FormID:      form.ID,
		DataJson:    string(encoded),
		IpAddress:   ip,
		UserAgent:   truncateRunes(userAgent, 500),
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating form submission", "form submission")
	}

	sub := submissionFromStore(row, form.Name)
	s.logger.Info("form submission saved", "form_id", form.ID, "submission_id", sub.ID)
	if s.notifier != nil {
		s.notifier.Notify(notify.NewEvent(notify.EventFormSubmitted, notify.FormEventData{
			SubmissionID: sub.ID,
			FormID:       form.ID,
			FormName:     form.Name,
			OwnerID:      form.UserID,
			Data:         values,
			SubmittedAt:  sub.SubmittedAt,
		}))
	}
	return &sub, nil
}

// ListSubmissions returns submissions to one of the caller's forms, newest first.
func (s *FormService) ListSubmissions(ctx context.Context, userID, formID int64, page, pageSize int) (*model.List[model.FormSubmission], error) {
	f, err := s.getOwned(ctx, userID, formID)
	if err != nil {
		return nil, err
	}

	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListFormSubmissions(ctx, store.ListFormSubmissionsParams{
		FormID: f.ID,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing form submissions: %w", err)
	}

	items := make([]model.FormSubmission, 0, len(rows))
	for _, r := range rows {
		items = append(items, submissionFromStore(r, f.Name))
	}
	return &model.List[model.FormSubmission]{Items: items, Total: f.SubmissionCount, Page: page, PageSize: size}, nil
}

// DeleteSubmission removes one submission to the caller's forms.
func (s *FormService) DeleteSubmission(ctx context.Context, userID, submissionID int64) error {
	sub, err := s.queries.GetFormSubmissionForUser(ctx, store.GetFormSubmissionForUserParams{ID: submissionID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("submission not found")
		}
		return fmt.Errorf("getting form submission: %w", err)
	}
	if err := s.queries.DeleteFormSubmission(ctx, sub.ID); err != nil {
		return fmt.Errorf("deleting form submission: %w", err)
	}
	s.logger.Info("form submission deleted", "submission_id", sub.ID, "form_id", sub.FormID, "user_id", userID)
	return nil
}

// ExportCSV writes every submission of the form to w, newest first. Columns
// follow the form's current fields; answers to removed fields are dropped.
func (s *FormService) ExportCSV(ctx context.Context, userID, formID int64, w io.Writer) (*model.Form, error) {
	f, err := s.getOwned(ctx, userID, formID)
	if err != nil {
		return nil, err
	}
	form := formFromStore(f.Form, f.SubmissionCount)

	rows, err := s.queries.ListAllFormSubmissions(ctx, f.ID)
	if err != nil {
		return nil, fmt.Errorf("listing form submissions: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"ID", "Submitted At", "IP Address"}
	for _, field := range form.Fields {
		header = append(header, field.Label)
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	for _, r := range rows {
		sub := submissionFromStore(r, form.Name)
		record := []string{
			strconv.FormatInt(sub.ID, 10),
			sub.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
			sub.IPAddress,
		}
		for _, field := range form.Fields {
			record = append(record, csvSafe(sub.Data[field.Name]))
		}
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	s.logger.Info("form submissions exported", "form_id", f.ID, "count", len(rows))
	return form, nil
}

func (s *FormService) getOwned(ctx context.Context, userID, formID int64) (store.FormWithCountRow, error) {
	f, err := s.queries.GetFormForUser(ctx, store.GetFormForUserParams{ID: formID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.FormWithCountRow{}, notFound("form not found")
		}
		return store.FormWithCountRow{}, fmt.Errorf("getting form: %w", err)
	}
	return f, nil
}

func (s *FormService) normalizeForm(in FormInput) (string, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxFormNameLength {
		return "", "", invalid("name is too long (max %d characters)", MaxFormNameLength)
	}

	if len(in.Fields) == 0 {
		return "", "", invalid("form needs at least one field")
	}
	if len(in.Fields) > MaxFormFields {
		return "", "", invalid("too many fields (max %d)", MaxFormFields)
	}

	fields := make([]model.FormField, 0, len(in.Fields))
	seen := make(map[string]bool, len(in.Fields))
	for i, f := range in.Fields {
		f.Name = strings.TrimSpace(f.Name)
		f.Label = plainText(s.policy, f.Label)
		f.Type = strings.TrimSpace(f.Type)

		switch {
		case f.Name == HoneypotField:
			return "", "", invalid("field %d: name %q is reserved", i+1, f.Name)
		case len(f.Name) > MaxLeadFieldKey || !fieldNamePattern.MatchString(f.Name):
			return "", "", invalid("field %d: name must start with a letter and contain only letters, digits, '_' and '-'", i+1)
		case seen[f.Name]:
			return "", "", invalid("field %d: duplicate name %q", i+1, f.Name)
		case !model.IsValidFieldType(f.Type):
			return "", "", invalid("field %q: invalid type %q", f.Name, f.Type)
		}
		seen[f.Name] = true

		if f.Label == "" {
			f.Label = f.Name
		}

		if model.FieldHasOptions(f.Type) {
			opts := make([]string, 0, len(f.Options))
			for _, o := range f.Options {
				if o = plainText(s.policy, o); o != "" && !slices.Contains(opts, o) {
					opts = append(opts, o)
				}
			}
			if len(opts) == 0 {
				return "", "", invalid("field %q: %s fields need at least one option", f.Name, f.Type)
			}
			f.Options = opts
		} else {
			f.Options = nil
		}
		fields = append(fields, f)
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", "", fmt.Errorf("encoding fields: %w", err)
	}
	return name, string(encoded), nil
}

// checkFieldValue returns a message when a non-empty value does not fit
// the field type.
func checkFieldValue(field model.FormField, value string) string {
	switch field.Type {
	case model.FieldTypeEmail:
		if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
			return "Please enter a valid email address"
		}
	case model.FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "Please enter a valid number"
		}
	case model.FieldTypeDate:
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return "Please enter a valid date"
		}
	case model.FieldTypeSelect, model.FieldTypeRadio:
		if !slices.Contains(field.Options, value) {
			return fmt.Sprintf("%s must be one of the listed options", field.Label)
		}
	}
	return ""
}

// csvSafe keeps spreadsheet applications from evaluating a value as a formula.
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
