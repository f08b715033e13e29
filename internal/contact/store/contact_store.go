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

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wso2/identity-resolution-service/internal/contact/model"
	"github.com/wso2/identity-resolution-service/internal/system/database/scripts"
	errors2 "github.com/wso2/identity-resolution-service/internal/system/errors"
	"github.com/wso2/identity-resolution-service/internal/system/log"
)

// All store operations run inside the caller's resolution transaction so
// that the read-decide-write sequence commits as one atomic unit.

// GetContactsByEmailOrPhone fetches every contact whose email is in the
// email set or whose phone number is in the phone set. NULL columns never
// match; an empty set matches nothing. Matched rows are locked for update.
func GetContactsByEmailOrPhone(tx *sql.Tx, emails []string, phones []string) ([]model.Contact, error) {

	logger := log.GetLogger()
	if emails == nil {
		emails = []string{}
	}
	if phones == nil {
		phones = []string{}
	}

	query := scripts.GetContactsByEmailOrPhone["postgres"]
	rows, err := tx.Query(query, pq.Array(emails), pq.Array(phones))
	if err != nil {
		errorMsg := "Error occurred while fetching contacts by email or phone"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONTACTS.Code,
			Message:     errors2.FETCH_CONTACTS.Message,
			Description: errorMsg,
		}, err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

// InsertContact inserts a new contact row and returns its generated id.
func InsertContact(tx *sql.Tx, contact model.Contact) (int64, error) {

	logger := log.GetLogger()
	query := scripts.InsertContact["postgres"]

	var contactID int64
	err := tx.QueryRow(query,
		nullableString(contact.Email),
		nullableString(contact.PhoneNumber),
		contact.LinkPrecedence,
		nullableID(contact.LinkedID),
		contact.CreatedAt,
		contact.UpdatedAt,
	).Scan(&contactID)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while inserting %s contact", contact.LinkPrecedence)
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INSERT_CONTACT.Code,
			Message:     errors2.INSERT_CONTACT.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Debug(fmt.Sprintf("Inserted %s contact", contact.LinkPrecedence), log.Int64("contact_id", contactID))
	return contactID, nil
}

// RelinkContactsToPrimary flips the given contacts to secondary and points
// them at the selected primary in a single statement.
func RelinkContactsToPrimary(tx *sql.Tx, contactIDs []int64, primaryID int64, updatedAt time.Time) error {

	logger := log.GetLogger()
	if len(contactIDs) == 0 {
		return nil
	}

	query := scripts.RelinkContactsToPrimary["postgres"]
	_, err := tx.Exec(query, primaryID, updatedAt, pq.Array(contactIDs))
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while relinking %d contacts to primary %d", len(contactIDs), primaryID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RELINK_CONTACTS.Code,
			Message:     errors2.RELINK_CONTACTS.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Debug(fmt.Sprintf("Relinked %d contacts to primary", len(contactIDs)), log.Int64("primary_id", primaryID))
	return nil
}

// GetComponentByPrimary reads back the full component: the primary itself
// plus every contact linked to it, in storage order.
func GetComponentByPrimary(tx *sql.Tx, primaryID int64) ([]model.Contact, error) {

	logger := log.GetLogger()
	query := scripts.GetComponentByPrimary["postgres"]
	rows, err := tx.Query(query, primaryID)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while reading component of primary %d", primaryID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.SNAPSHOT_COMPONENT.Code,
			Message:     errors2.SNAPSHOT_COMPONENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func scanContacts(rows *sql.Rows) ([]model.Contact, error) {

	var contacts []model.Contact
	for rows.Next() {
		var (
			contact  model.Contact
			email    sql.NullString
			phone    sql.NullString
			linkedID sql.NullInt64
		)
		if err := rows.Scan(&contact.ID, &email, &phone, &contact.LinkPrecedence, &linkedID,
			&contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.FETCH_CONTACTS.Code,
				Message:     errors2.FETCH_CONTACTS.Message,
				Description: "Error occurred while scanning contact row",
			}, err)
		}
		contact.Email = email.String
		contact.PhoneNumber = phone.String
		contact.LinkedID = linkedID.Int64
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONTACTS.Code,
			Message:     errors2.FETCH_CONTACTS.Message,
			Description: "Error occurred while iterating contact rows",
		}, err)
	}
	return contacts, nil
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullableID(value int64) interface{} {
	if value == 0 {
		return nil
	}
	return value
}
