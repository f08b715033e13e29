/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"encoding/json"
	"strings"
)

// FlexibleString accepts JSON strings, numbers, and null. Clients commonly
// send phone numbers as bare JSON numbers; those are coerced to their
// literal string form rather than rejected.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexibleString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = FlexibleString(num.String())
	return nil
}

// IdentifyRequest is the inbound contact fact. PhoneNumber is the canonical
// field name on the wire; Phone is accepted as an alias.
type IdentifyRequest struct {
	Email       FlexibleString `json:"email"`
	Phone       FlexibleString `json:"phone"`
	PhoneNumber FlexibleString `json:"phoneNumber"`
}

// NormalizedEmail returns the trimmed email value.
func (r IdentifyRequest) NormalizedEmail() string {
	return strings.TrimSpace(string(r.Email))
}

// NormalizedPhone returns the trimmed phone value, preferring phoneNumber
// over the phone alias when both are supplied.
func (r IdentifyRequest) NormalizedPhone() string {
	if phone := strings.TrimSpace(string(r.PhoneNumber)); phone != "" {
		return phone
	}
	return strings.TrimSpace(string(r.Phone))
}

// ConsolidatedContact is the canonical view of one resolved identity.
type ConsolidatedContact struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// IdentifyResponse wraps the consolidated view for the wire.
type IdentifyResponse struct {
	Contact ConsolidatedContact `json:"contact"`
}
