package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"printshop_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingValue is either a structured JSON document or opaque text
type SettingValue struct {
	Document json.RawMessage
	Text     string
}

// DecodeSettingValue tries a structured decode and falls back to text
func DecodeSettingValue(raw string) SettingValue {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return SettingValue{Document: json.RawMessage(trimmed)}
	}
	return SettingValue{Text: raw}
}

// IsDocument reports whether the value decoded as JSON
func (v SettingValue) IsDocument() bool {
	return v.Document != nil
}

func (v SettingValue) MarshalJSON() ([]byte, error) {
	if v.IsDocument() {
		return v.Document, nil
	}
	return json.Marshal(v.Text)
}

// Encode returns the text stored for this value. JSON strings are stored unquoted.
func (v SettingValue) Encode() string {
	if !v.IsDocument() {
		return v.Text
	}
	var s string
	if err := json.Unmarshal(v.Document, &s); err == nil {
		return s
	}
	return string(v.Document)
}

// SettingValueFromJSON builds a value from an incoming JSON fragment
func SettingValueFromJSON(raw json.RawMessage) SettingValue {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return SettingValue{}
	}
	return SettingValue{Document: json.RawMessage(trimmed)}
}

// DefaultSettings are inserted on start-up when missing
var DefaultSettings = map[string]string{
	"display_mode":          "dark",
	"page_rotation_seconds": "10",
	"status_colors": `{"received":"#3B82F6","paid":"#10B981","in_progress":"#F59E0B",` +
		`"ready_for_pickup":"#FCD34D","picked_up":"#6B7280","abandoned":"#6B7280"}`,
	"business_hours": `{"monday":{"open":"10:00","close":"18:00"},"tuesday":{"open":"10:00","close":"18:00"},` +
		`"wednesday":{"open":"10:00","close":"18:00"},"thursday":{"open":"10:00","close":"18:00"},` +
		`"friday":{"open":"10:00","close":"18:00"},"saturday":{"open":"10:00","close":"18:00"},` +
		`"sunday":{"open":"00:00","close":"00:00"}}`,
	"pricing_table": `{"paper_sizes":{"letter":0.10,"legal":0.12,"a4":0.11,"11x17":0.20},` +
		`"paper_types":{"standard":0.00,"glossy":0.05,"matte":0.03,"cardstock":0.10},` +
		`"color_modes":{"black_white":0.00,"color":0.25},` +
		`"binding":{"none":0.00,"staples":0.50,"spiral":2.00,"comb":1.50},` +
		`"finishing":{"none":0.00,"lamination":1.00,"folding":0.25,"cutting":0.50}}`,
	"pickup_settings": `{"pickup_start_time":"09:00","pickup_end_time":"17:00",` +
		`"pickup_days":{"sunday":false,"monday":true,"tuesday":true,"wednesday":true,"thursday":true,"friday":true,"saturday":true},` +
		`"time_increment":"30","unavailable_dates":[]}`,
}

// SettingsService stores display and business settings
type SettingsService struct {
	DB     *gorm.DB
	Events Broadcaster
}

// NewSettingsService creates a settings service
func NewSettingsService(db *gorm.DB, events Broadcaster) *SettingsService {
	return &SettingsService{DB: db, Events: broadcasterOrNop(events)}
}

// SeedDefaults inserts every default setting that does not exist yet
func (s *SettingsService) SeedDefaults() error {
	keys := make([]string, 0, len(DefaultSettings))
	for k := range DefaultSettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		setting := models.Setting{Key: key, Value: DefaultSettings[key]}
		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&setting).Error
		if err != nil {
			return storageErr("seed settings", err)
		}
	}
	return nil
}

// List returns every setting decoded
func (s *SettingsService) List() (map[string]SettingValue, error) {
	var rows []models.Setting
	if err := s.DB.Order("key").Find(&rows).Error; err != nil {
		return nil, storageErr("list settings", err)
	}
	out := make(map[string]SettingValue, len(rows))
	for _, row := range rows {
		out[row.Key] = DecodeSettingValue(row.Value)
	}
	return out, nil
}

// Get returns one decoded setting
func (s *SettingsService) Get(key string) (SettingValue, error) {
	var row models.Setting
	err := s.DB.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SettingValue{}, &NotFoundError{Resource: "Setting"}
	}
	if err != nil {
		return SettingValue{}, storageErr("get setting", err)
	}
	return DecodeSettingValue(row.Value), nil
}

// ValidateSettings checks the keys with known shapes
func ValidateSettings(values map[string]json.RawMessage) error {
	verr := &ValidationError{}

	if raw, ok := values["display_mode"]; ok {
		var mode string
		if err := json.Unmarshal(raw, &mode); err != nil || (mode != "dark" && mode != "light") {
			verr.Add("display_mode", "Display mode must be dark or light")
		}
	}
	if raw, ok := values["page_rotation_seconds"]; ok {
		if n, ok := jsonInt(raw); !ok || n < 5 || n > 60 {
			verr.Add("page_rotation_seconds", "Page rotation must be between 5 and 60 seconds")
		}
	}
	for key, label := range map[string]string{
		"status_colors":  "Status colors",
		"business_hours": "Business hours",
		"pricing_table":  "Pricing table",
	} {
		if raw, ok := values[key]; ok && !isJSONObject(raw) {
			verr.Add(key, label+" must be an object")
		}
	}

	sort.Slice(verr.Errors, func(i, j int) bool { return verr.Errors[i].Field < verr.Errors[j].Field })
	return verr.OrNil()
}

// jsonInt accepts an integer number or a numeric string
func jsonInt(raw json.RawMessage) (int64, bool) {
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch val := v.(type) {
	case json.Number:
		n = val
	case string:
		n = json.Number(val)
	default:
		return 0, false
	}
	i, err := n.Int64()
	return i, err == nil
}

func isJSONObject(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && obj != nil
}

// UpdateMany validates and stores several settings in one transaction
func (s *SettingsService) UpdateMany(values map[string]json.RawMessage) error {
	if len(values) == 0 {
		return Invalid("", "No settings to update")
	}
	if err := ValidateSettings(values); err != nil {
		return err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for key, raw := range values {
			if err := upsertSetting(tx, key, SettingValueFromJSON(raw)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("update settings", err)
	}

	s.Events.Broadcast(EventSettingsUpdated, values)
	return nil
}

// Set stores one setting
func (s *SettingsService) Set(key string, raw json.RawMessage) error {
	if key == "" {
		return Invalid("key", "Key is required")
	}
	if err := ValidateSettings(map[string]json.RawMessage{key: raw}); err != nil {
		return err
	}

	value := SettingValueFromJSON(raw)
	if err := upsertSetting(s.DB, key, value); err != nil {
		return storageErr("update setting", err)
	}

	s.Events.Broadcast(EventSettingUpdated, map[string]interface{}{
		"key":   key,
		"value": value,
	})
	return nil
}

func upsertSetting(tx *gorm.DB, key string, value SettingValue) error {
	setting := models.Setting{Key: key, Value: value.Encode(), UpdatedAt: time.Now()}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}
