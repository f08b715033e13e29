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

import "time"

// Contact is one stored (email, phone) observation. Empty Email or
// PhoneNumber means the column is NULL. LinkedID is zero for primary
// contacts and holds the owning primary's id for secondaries.
type Contact struct {
	ID             int64
	Email          string
	PhoneNumber    string
	LinkPrecedence string
	LinkedID       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPrimary reports whether the contact is the canonical record of its component.
func (c Contact) IsPrimary() bool {
	return c.LinkPrecedence == "primary"
}
