// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ID is an identifier the backend may encode as a JSON string (UUID) or number.
type ID string

// UnmarshalJSON accepts both string and numeric identifiers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Slot is one bookable exam appointment window.
type Slot struct {
	AvailabilityID ID     `json:"operator_availability_id"`
	ExamTypeID     ID     `json:"exam_type_id"`
	LaboratoryID   ID     `json:"laboratory_id"`
	OperatorID     ID     `json:"operator_id"`
	ExamType       string `json:"exam_type_name"`
	Laboratory     string `json:"laboratory_name"`
	Operator       string `json:"operator_name"`
	Date           string `json:"operator_availability_date"`
	Start          string `json:"operator_availability_slot_start"`
	End            string `json:"operator_availability_slot_end"`
}

// SlotQuery filters the availability listing. Zero values are omitted.
type SlotQuery struct {
	Offset       int
	Limit        int
	From         time.Time
	To           time.Time
	ExamTypeID   string
	OperatorID   string
	LaboratoryID string
}

// DefaultSlotLimit is used when SlotQuery.Limit is not positive.
const DefaultSlotLimit = 20

// path renders the paginated path plus filter query string.
func (q SlotQuery) path(base string) string {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSlotLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	p := base + "/offset/" + strconv.Itoa(offset) + "/limit/" + strconv.Itoa(limit)

	v := url.Values{}
	if !q.From.IsZero() {
		v.Set("datetime_from_filter", q.From.Format("2006-01-02T15:04:05"))
	}
	if !q.To.IsZero() {
		v.Set("datetime_to_filter", q.To.Format("2006-01-02T15:04:05"))
	}
	if q.ExamTypeID != "" {
		v.Set("exam_type_id", q.ExamTypeID)
	}
	if q.OperatorID != "" {
		v.Set("operator_id", q.OperatorID)
	}
	if q.LaboratoryID != "" {
		v.Set("laboratory_id", q.LaboratoryID)
	}
	if len(v) > 0 {
		p += "?" + v.Encode()
	}
	return p
}

// Slots calls GET /slots_availability/offset/{o}/limit/{l} with the Authorization header.
func (h *HTTP) Slots(ctx context.Context, accessToken string, q SlotQuery) ([]Slot, error) {
	resp, err := h.do(ctx, "slots_availability", http.MethodGet, q.path(h.endpoints.Slots), accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var slots []Slot
	if err := json.NewDecoder(resp.Body).Decode(&slots); err != nil {
		return nil, fmt.Errorf("slots_availability: decode: %w", err)
	}
	return slots, nil
}
